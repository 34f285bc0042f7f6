// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/nats-io/nats.go"
)

// Common key prefixes
const (
	// Entity prefixes
	KeyPrefixParticipant = "participant"
	KeyPrefixMeeting     = "meeting"
	KeyPrefixTopic       = "topic"
	KeyPrefixRoster      = "roster"
	KeyPrefixVoting      = "voting"
	KeyPrefixVoter       = "voter"

	// Index prefixes
	KeyPrefixIndex            = "index"
	KeyPrefixIndexCompany     = "company"
	KeyPrefixIndexMeeting     = "meeting"
	KeyPrefixIndexTopic       = "topic"
	KeyPrefixIndexVoting      = "voting"
	KeyPrefixIndexParticipant = "participant"

	// Uniqueness claims, written with KV create so only one writer wins.
	KeyPrefixUnique       = "unique"
	KeyPrefixUniqueRoster = "roster"
	KeyPrefixUniqueVoter  = "voter"
)

// KeyBuilder provides utilities for building consistent NATS KV keys
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with an optional prefix
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
	}
}

// EntityKey builds a key for an entity (e.g., "voter/uid-123")
func (kb *KeyBuilder) EntityKey(entityType, uid string) string {
	return kb.applyPrefix(fmt.Sprintf("%s/%s", entityType, uid), false)
}

// EntityKeyEncoded builds an encoded key for an entity
func (kb *KeyBuilder) EntityKeyEncoded(entityType, uid string) string {
	return kb.applyPrefix(fmt.Sprintf("%s/%s", entityType, uid), true)
}

// IndexKey builds a key for an index (e.g., "index/voting/voting-uid/voter-uid")
func (kb *KeyBuilder) IndexKey(indexType, indexValue, entityUID string) string {
	return kb.applyPrefix(fmt.Sprintf("%s/%s/%s/%s", KeyPrefixIndex, indexType, indexValue, entityUID), false)
}

// IndexKeyEncoded builds an encoded key for an index
func (kb *KeyBuilder) IndexKeyEncoded(indexType, indexValue, entityUID string) string {
	return kb.applyPrefix(fmt.Sprintf("%s/%s/%s/%s", KeyPrefixIndex, indexType, indexValue, entityUID), true)
}

// IndexPrefix returns the decoded key prefix shared by every entry of one index value.
func (kb *KeyBuilder) IndexPrefix(indexType, indexValue string) string {
	return "/" + kb.applyPrefix(fmt.Sprintf("%s/%s/%s/", KeyPrefixIndex, indexType, indexValue), false)
}

// UniqueKeyEncoded builds an encoded uniqueness claim key (e.g., "unique/roster/meeting-uid/participant-uid")
func (kb *KeyBuilder) UniqueKeyEncoded(claimType string, parts ...string) string {
	key := strings.Join(append([]string{KeyPrefixUnique, claimType}, parts...), "/")
	return kb.applyPrefix(key, true)
}

// CompoundKey builds a compound key from multiple parts
func (kb *KeyBuilder) CompoundKey(parts ...string) string {
	return kb.applyPrefix(strings.Join(parts, "/"), false)
}

func (kb *KeyBuilder) applyPrefix(key string, encode bool) string {
	fullKey := key
	if kb.prefix != "" {
		fullKey = fmt.Sprintf("%s/%s", kb.prefix, key)
	}

	if encode {
		encodedKey, err := kb.EncodeKey(fullKey)
		if err != nil {
			slog.Error("error encoding key", logging.ErrKey, err, "key", fullKey)
			return fullKey
		}
		return encodedKey
	}
	return fullKey
}

// EncodeKey encodes a key for NATS KV store. Every path segment is base64
// encoded with the URL alphabet so that the result only holds characters
// NATS accepts in a key, and segments are joined with dots.
//
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
func (kb *KeyBuilder) EncodeKey(key string) (string, error) {
	res := []string{}
	for _, part := range strings.Split(strings.TrimPrefix(key, "/"), "/") {
		if part == ">" || part == "*" {
			res = append(res, part)
			continue
		}
		if part == "" {
			return "", nats.ErrInvalidKey
		}
		res = append(res, base64.RawURLEncoding.EncodeToString([]byte(part)))
	}

	if len(res) == 0 {
		return "", nats.ErrInvalidKey
	}

	return strings.Join(res, "."), nil
}

// DecodeKey reverses EncodeKey and returns the key with a leading slash.
func (kb *KeyBuilder) DecodeKey(key string) (string, error) {
	if key == "" {
		return "", nats.ErrInvalidKey
	}

	res := []string{}
	for _, part := range strings.Split(key, ".") {
		k, err := base64.RawURLEncoding.DecodeString(part)
		if err != nil {
			return "", err
		}
		res = append(res, string(k))
	}

	return fmt.Sprintf("/%s", strings.Join(res, "/")), nil
}
