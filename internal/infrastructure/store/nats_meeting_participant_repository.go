// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/google/uuid"
)

// NatsMeetingParticipantRepository is the NATS KV store repository for meeting rosters.
// A participant appears at most once per meeting; the pair is claimed with a
// create-only key before the entry is written.
type NatsMeetingParticipantRepository struct {
	*NatsBaseRepository[models.MeetingParticipant]
	keyBuilder *KeyBuilder
}

// NewNatsMeetingParticipantRepository creates a new NATS KV store repository for roster entries.
func NewNatsMeetingParticipantRepository(kvStore INatsKeyValue) *NatsMeetingParticipantRepository {
	return &NatsMeetingParticipantRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.MeetingParticipant](kvStore, "meeting participant"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsMeetingParticipantRepository) claimKey(entry *models.MeetingParticipant) string {
	return r.keyBuilder.UniqueKeyEncoded(KeyPrefixUniqueRoster, entry.MeetingUID, entry.ParticipantUID)
}

// Create adds a participant to a meeting roster.
func (r *NatsMeetingParticipantRepository) Create(ctx context.Context, entry *models.MeetingParticipant) error {
	if entry.UID == "" {
		entry.UID = uuid.New().String()
	}

	claimKey := r.claimKey(entry)
	if err := r.Claim(ctx, claimKey, entry.UID); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			return domain.NewConflictError(
				fmt.Sprintf("participant '%s' is already on the roster of meeting '%s'", entry.ParticipantUID, entry.MeetingUID),
				domain.ErrAlreadyExists)
		}
		return err
	}

	key := r.keyBuilder.EntityKeyEncoded(KeyPrefixRoster, entry.UID)
	if err := r.NatsBaseRepository.Create(ctx, key, entry); err != nil {
		r.release(ctx, claimKey)
		return err
	}

	indexKeys := r.indexKeys(entry)
	for i, indexKey := range indexKeys {
		if err := r.PutIndex(ctx, indexKey); err != nil {
			for _, written := range indexKeys[:i] {
				if delErr := r.DeleteIndex(ctx, written); delErr != nil {
					slog.WarnContext(ctx, "failed to roll back roster index", logging.ErrKey, delErr, "entry_uid", entry.UID)
				}
			}
			if delErr := r.NatsBaseRepository.Delete(ctx, key); delErr != nil {
				slog.WarnContext(ctx, "failed to roll back roster entry", logging.ErrKey, delErr, "entry_uid", entry.UID)
			}
			r.release(ctx, claimKey)
			return err
		}
	}

	return nil
}

func (r *NatsMeetingParticipantRepository) indexKeys(entry *models.MeetingParticipant) []string {
	return []string{
		r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexMeeting, entry.MeetingUID, entry.UID),
		r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexParticipant, entry.ParticipantUID, entry.UID),
	}
}

func (r *NatsMeetingParticipantRepository) release(ctx context.Context, claimKey string) {
	if err := r.Release(ctx, claimKey); err != nil {
		slog.WarnContext(ctx, "failed to release roster claim", logging.ErrKey, err)
	}
}

// Get retrieves a roster entry by UID
func (r *NatsMeetingParticipantRepository) Get(ctx context.Context, entryUID string) (*models.MeetingParticipant, error) {
	entry, _, err := r.GetWithRevision(ctx, entryUID)
	return entry, err
}

// GetWithRevision retrieves a roster entry with its revision by UID
func (r *NatsMeetingParticipantRepository) GetWithRevision(ctx context.Context, entryUID string) (*models.MeetingParticipant, uint64, error) {
	entry, revision, err := r.NatsBaseRepository.GetWithRevision(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixRoster, entryUID))
	if err != nil {
		return nil, 0, withSentinel(err, domain.ErrRosterEntryNotFound, "meeting participant '%s' not found", entryUID)
	}
	return entry, revision, nil
}

// ListByMeeting retrieves the roster of a meeting
func (r *NatsMeetingParticipantRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.MeetingParticipant, error) {
	return r.ListIndexed(ctx, r.keyBuilder, KeyPrefixIndexMeeting, meetingUID, KeyPrefixRoster)
}

// ListByParticipant retrieves the roster entries of a participant across meetings
func (r *NatsMeetingParticipantRepository) ListByParticipant(ctx context.Context, participantUID string) ([]*models.MeetingParticipant, error) {
	return r.ListIndexed(ctx, r.keyBuilder, KeyPrefixIndexParticipant, participantUID, KeyPrefixRoster)
}

// Update updates a roster entry with optimistic concurrency control
func (r *NatsMeetingParticipantRepository) Update(ctx context.Context, entry *models.MeetingParticipant, revision uint64) error {
	err := r.NatsBaseRepository.Update(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixRoster, entry.UID), entry, revision)
	return withSentinel(err, domain.ErrRosterEntryNotFound, "meeting participant '%s' not found", entry.UID)
}

// Delete removes a roster entry together with its index and uniqueness claim
func (r *NatsMeetingParticipantRepository) Delete(ctx context.Context, entryUID string) error {
	entry, err := r.Get(ctx, entryUID)
	if err != nil {
		return err
	}

	if err := r.NatsBaseRepository.Delete(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixRoster, entryUID)); err != nil {
		return err
	}

	for _, indexKey := range r.indexKeys(entry) {
		if err := r.DeleteIndex(ctx, indexKey); err != nil {
			slog.WarnContext(ctx, "failed to delete roster index", logging.ErrKey, err, "entry_uid", entryUID)
		}
	}
	r.release(ctx, r.claimKey(entry))

	return nil
}
