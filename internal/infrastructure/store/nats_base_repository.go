// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// NATS Key-Value store bucket names
const (
	KVStoreNameParticipants        = "approval-participants"
	KVStoreNameMeetings            = "approval-meetings"
	KVStoreNameTopics              = "approval-topics"
	KVStoreNameMeetingParticipants = "approval-meeting-participants"
	KVStoreNameVotings             = "approval-votings"
	KVStoreNameVoters              = "approval-voters"
)

// KVStoreNames lists every bucket the NATS backend needs.
var KVStoreNames = []string{
	KVStoreNameParticipants,
	KVStoreNameMeetings,
	KVStoreNameTopics,
	KVStoreNameMeetingParticipants,
	KVStoreNameVotings,
	KVStoreNameVoters,
}

// tracerName is the instrumentation name for the store package.
const tracerName = "github.com/GlazyrinAV/corporate-approval/internal/infrastructure/store"

// INatsKeyValue is the subset of jetstream.KeyValue used by the repositories.
type INatsKeyValue interface {
	ListKeys(context.Context, ...jetstream.WatchOpt) (jetstream.KeyLister, error)
	Get(ctx context.Context, key string) (jetstream.KeyValueEntry, error)
	Create(ctx context.Context, key string, value []byte, opts ...jetstream.KVCreateOpt) (uint64, error)
	Put(context.Context, string, []byte) (uint64, error)
	Update(context.Context, string, []byte, uint64) (uint64, error)
	Delete(context.Context, string, ...jetstream.KVDeleteOpt) error
}

// NatsBaseRepository provides common NATS KV operations that can be reused across all repositories
type NatsBaseRepository[T any] struct {
	kvStore    INatsKeyValue
	entityName string // Used in error messages (e.g., "voting", "voter")
}

// NewNatsBaseRepository creates a new base repository for NATS KV operations
func NewNatsBaseRepository[T any](kvStore INatsKeyValue, entityName string) *NatsBaseRepository[T] {
	return &NatsBaseRepository[T]{
		kvStore:    kvStore,
		entityName: entityName,
	}
}

// IsReady checks if the repository is ready for use
func (r *NatsBaseRepository[T]) IsReady() bool {
	return r.kvStore != nil
}

func (r *NatsBaseRepository[T]) startSpan(ctx context.Context, operation, key string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	base := []attribute.KeyValue{
		attribute.String("db.system", "nats"),
		attribute.String("db.operation", operation),
		attribute.String("db.nats.entity", r.entityName),
	}
	if key != "" {
		base = append(base, attribute.String("db.nats.key", key))
	}
	return otel.Tracer(tracerName).Start(ctx, "nats.kv."+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(append(base, attrs...)...),
	)
}

// fail records err on the span and returns it.
func fail(span trace.Span, err error, status string) error {
	if status == "" {
		status = err.Error()
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, status)
	return err
}

func (r *NatsBaseRepository[T]) unavailable() error {
	return domain.NewUnavailableError(fmt.Sprintf("%s repository is not available", r.entityName))
}

// isRevisionConflict reports whether a KV write was rejected because the
// expected revision no longer matches the stored one.
func isRevisionConflict(err error) bool {
	return errors.Is(err, jetstream.ErrKeyExists) || strings.Contains(err.Error(), "wrong last sequence")
}

// GetRaw retrieves a raw entry from NATS KV store
func (r *NatsBaseRepository[T]) GetRaw(ctx context.Context, key string) (jetstream.KeyValueEntry, error) {
	ctx, span := r.startSpan(ctx, "get", key)
	defer span.End()

	if !r.IsReady() {
		return nil, fail(span, r.unavailable(), "")
	}

	entry, err := r.kvStore.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fail(span, domain.NewNotFoundError(
				fmt.Sprintf("%s with key '%s' not found", r.entityName, key), err), "not found")
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error getting %s from NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return nil, fail(span, domain.NewInternalError(
			fmt.Sprintf("failed to retrieve %s from store", r.entityName), err), "")
	}

	span.SetStatus(codes.Ok, "")
	return entry, nil
}

// Get retrieves and unmarshals an entity from NATS KV store
func (r *NatsBaseRepository[T]) Get(ctx context.Context, key string) (*T, error) {
	entity, _, err := r.GetWithRevision(ctx, key)
	return entity, err
}

// GetWithRevision retrieves an entity with its revision from NATS KV store
func (r *NatsBaseRepository[T]) GetWithRevision(ctx context.Context, key string) (*T, uint64, error) {
	entry, err := r.GetRaw(ctx, key)
	if err != nil {
		return nil, 0, err
	}

	entity, err := r.Unmarshal(ctx, entry)
	if err != nil {
		return nil, 0, domain.NewInternalError(
			fmt.Sprintf("failed to unmarshal %s data", r.entityName), err)
	}

	return entity, entry.Revision(), nil
}

// Unmarshal unmarshals a NATS KV entry into the entity type
func (r *NatsBaseRepository[T]) Unmarshal(ctx context.Context, entry jetstream.KeyValueEntry) (*T, error) {
	var entity T
	if err := json.Unmarshal(entry.Value(), &entity); err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error unmarshaling %s", r.entityName), logging.ErrKey, err)
		return nil, err
	}
	return &entity, nil
}

// Marshal marshals an entity to JSON bytes
func (r *NatsBaseRepository[T]) Marshal(ctx context.Context, entity *T) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		slog.ErrorContext(ctx, fmt.Sprintf("error marshaling %s", r.entityName), logging.ErrKey, err)
		return nil, err
	}
	return data, nil
}

// Exists checks if an entity exists in the store
func (r *NatsBaseRepository[T]) Exists(ctx context.Context, key string) (bool, error) {
	_, err := r.GetRaw(ctx, key)
	if err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create stores a new entity and fails with a conflict error when the key is already taken.
func (r *NatsBaseRepository[T]) Create(ctx context.Context, key string, entity *T) error {
	ctx, span := r.startSpan(ctx, "create", key)
	defer span.End()

	if !r.IsReady() {
		return fail(span, r.unavailable(), "")
	}

	data, err := r.Marshal(ctx, entity)
	if err != nil {
		return fail(span, domain.NewInternalError(fmt.Sprintf("failed to marshal %s", r.entityName), err), "")
	}

	if err := r.create(ctx, key, data); err != nil {
		return fail(span, err, "")
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

func (r *NatsBaseRepository[T]) create(ctx context.Context, key string, data []byte) error {
	_, err := r.kvStore.Create(ctx, key, data)
	if err == nil {
		return nil
	}
	if errors.Is(err, jetstream.ErrKeyExists) {
		return domain.NewConflictError(fmt.Sprintf("%s already exists", r.entityName), domain.ErrAlreadyExists, err)
	}
	slog.ErrorContext(ctx, fmt.Sprintf("error creating %s in NATS KV", r.entityName),
		logging.ErrKey, err, "key", key)
	return domain.NewInternalError(fmt.Sprintf("failed to create %s in store", r.entityName), err)
}

// Update updates an existing entity in the store with optimistic concurrency control
func (r *NatsBaseRepository[T]) Update(ctx context.Context, key string, entity *T, revision uint64) error {
	ctx, span := r.startSpan(ctx, "update", key, attribute.Int64("db.nats.revision", int64(revision)))
	defer span.End()

	if !r.IsReady() {
		return fail(span, r.unavailable(), "")
	}

	data, err := r.Marshal(ctx, entity)
	if err != nil {
		return fail(span, domain.NewInternalError(fmt.Sprintf("failed to marshal %s", r.entityName), err), "")
	}

	_, err = r.kvStore.Update(ctx, key, data, revision)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return fail(span, domain.NewNotFoundError(fmt.Sprintf("%s not found", r.entityName), err), "not found")
		}
		if isRevisionConflict(err) {
			return fail(span, domain.NewConflictError(
				fmt.Sprintf("%s has been modified", r.entityName), domain.ErrRevisionMismatch, err), "conflict")
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error updating %s in NATS KV", r.entityName),
			logging.ErrKey, err, "key", key, "revision", revision)
		return fail(span, domain.NewInternalError(fmt.Sprintf("failed to update %s in store", r.entityName), err), "")
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Delete removes a key from the store regardless of its revision.
func (r *NatsBaseRepository[T]) Delete(ctx context.Context, key string) error {
	ctx, span := r.startSpan(ctx, "delete", key)
	defer span.End()

	if !r.IsReady() {
		return fail(span, r.unavailable(), "")
	}

	if err := r.kvStore.Delete(ctx, key); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return fail(span, domain.NewNotFoundError(fmt.Sprintf("%s not found", r.entityName), err), "not found")
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error deleting %s from NATS KV", r.entityName),
			logging.ErrKey, err, "key", key)
		return fail(span, domain.NewInternalError(fmt.Sprintf("failed to delete %s from store", r.entityName), err), "")
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// ListKeys lists all keys in the bucket
func (r *NatsBaseRepository[T]) ListKeys(ctx context.Context) ([]string, error) {
	ctx, span := r.startSpan(ctx, "list_keys", "")
	defer span.End()

	if !r.IsReady() {
		return nil, fail(span, r.unavailable(), "")
	}

	lister, err := r.kvStore.ListKeys(ctx)
	if err != nil {
		if errors.Is(err, jetstream.ErrNoKeysFound) {
			span.SetStatus(codes.Ok, "")
			return nil, nil
		}
		slog.ErrorContext(ctx, fmt.Sprintf("error listing %s keys from NATS KV", r.entityName),
			logging.ErrKey, err)
		return nil, fail(span, domain.NewInternalError(
			fmt.Sprintf("failed to list %s keys from store", r.entityName), err), "")
	}

	var keys []string
	for key := range lister.Keys() {
		keys = append(keys, key)
	}

	span.SetAttributes(attribute.Int("db.nats.keys_count", len(keys)))
	span.SetStatus(codes.Ok, "")
	return keys, nil
}

// ListIndexed returns the entities referenced by one index value. Index
// entries whose entity has disappeared are skipped.
func (r *NatsBaseRepository[T]) ListIndexed(ctx context.Context, kb *KeyBuilder, indexType, indexValue, entityType string) ([]*T, error) {
	uids, err := r.ListIndexUIDs(ctx, kb, indexType, indexValue)
	if err != nil {
		return nil, err
	}

	entities := make([]*T, 0, len(uids))
	for _, uid := range uids {
		entity, err := r.Get(ctx, kb.EntityKeyEncoded(entityType, uid))
		if err != nil {
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				slog.WarnContext(ctx, fmt.Sprintf("index points at missing %s, skipping", r.entityName),
					"index", indexType, "index_value", indexValue, "uid", uid)
				continue
			}
			return nil, err
		}
		entities = append(entities, entity)
	}

	return entities, nil
}

// ListIndexUIDs returns the entity UIDs recorded under one index value.
func (r *NatsBaseRepository[T]) ListIndexUIDs(ctx context.Context, kb *KeyBuilder, indexType, indexValue string) ([]string, error) {
	keys, err := r.ListKeys(ctx)
	if err != nil {
		return nil, err
	}

	prefix := kb.IndexPrefix(indexType, indexValue)
	var uids []string
	for _, encodedKey := range keys {
		decodedKey, err := kb.DecodeKey(encodedKey)
		if err != nil {
			slog.WarnContext(ctx, "failed to decode key, skipping",
				"encoded_key", encodedKey, logging.ErrKey, err)
			continue
		}
		if uid, ok := strings.CutPrefix(decodedKey, prefix); ok && uid != "" {
			uids = append(uids, uid)
		}
	}

	return uids, nil
}

// PutIndex creates an index entry in the store (stores empty value, key is used for indexing)
func (r *NatsBaseRepository[T]) PutIndex(ctx context.Context, indexKey string) error {
	if !r.IsReady() {
		return r.unavailable()
	}

	if _, err := r.kvStore.Put(ctx, indexKey, []byte{}); err != nil {
		slog.ErrorContext(ctx, "error creating index", logging.ErrKey, err, "index_key", indexKey)
		return domain.NewInternalError("failed to create index", err)
	}

	return nil
}

// DeleteIndex removes an index entry from the store
func (r *NatsBaseRepository[T]) DeleteIndex(ctx context.Context, indexKey string) error {
	if !r.IsReady() {
		return r.unavailable()
	}

	if err := r.kvStore.Delete(ctx, indexKey); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		slog.WarnContext(ctx, "error deleting index", logging.ErrKey, err, "index_key", indexKey)
		return domain.NewInternalError("failed to delete index", err)
	}

	return nil
}

// Claim writes a uniqueness claim. It fails with a conflict error wrapping
// domain.ErrAlreadyExists when another writer holds the claim.
func (r *NatsBaseRepository[T]) Claim(ctx context.Context, claimKey, ownerUID string) error {
	ctx, span := r.startSpan(ctx, "claim", claimKey)
	defer span.End()

	if !r.IsReady() {
		return fail(span, r.unavailable(), "")
	}

	if err := r.create(ctx, claimKey, []byte(ownerUID)); err != nil {
		return fail(span, err, "")
	}

	span.SetStatus(codes.Ok, "")
	return nil
}

// Release drops a uniqueness claim. A missing claim is not an error.
func (r *NatsBaseRepository[T]) Release(ctx context.Context, claimKey string) error {
	return r.DeleteIndex(ctx, claimKey)
}
