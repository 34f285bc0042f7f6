// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/google/uuid"
)

// NatsTopicRepository is the NATS KV store repository for agenda topics.
type NatsTopicRepository struct {
	*NatsBaseRepository[models.Topic]
	keyBuilder *KeyBuilder
}

// NewNatsTopicRepository creates a new NATS KV store repository for topics.
func NewNatsTopicRepository(kvStore INatsKeyValue) *NatsTopicRepository {
	return &NatsTopicRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Topic](kvStore, "topic"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// Create stores a topic and indexes it by meeting.
func (r *NatsTopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if topic.UID == "" {
		topic.UID = uuid.New().String()
	}

	key := r.keyBuilder.EntityKeyEncoded(KeyPrefixTopic, topic.UID)
	if err := r.NatsBaseRepository.Create(ctx, key, topic); err != nil {
		return err
	}

	if err := r.PutIndex(ctx, r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexMeeting, topic.MeetingUID, topic.UID)); err != nil {
		if delErr := r.NatsBaseRepository.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to roll back topic", logging.ErrKey, delErr, "topic_uid", topic.UID)
		}
		return err
	}

	return nil
}

// Get retrieves a topic by UID
func (r *NatsTopicRepository) Get(ctx context.Context, topicUID string) (*models.Topic, error) {
	topic, err := r.NatsBaseRepository.Get(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixTopic, topicUID))
	if err != nil {
		return nil, withSentinel(err, domain.ErrTopicNotFound, "topic '%s' not found", topicUID)
	}
	return topic, nil
}

// ListByMeeting retrieves the agenda of a meeting
func (r *NatsTopicRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.Topic, error) {
	return r.ListIndexed(ctx, r.keyBuilder, KeyPrefixIndexMeeting, meetingUID, KeyPrefixTopic)
}

// Delete removes a topic and its meeting index entry
func (r *NatsTopicRepository) Delete(ctx context.Context, topicUID string) error {
	topic, err := r.Get(ctx, topicUID)
	if err != nil {
		return err
	}

	if err := r.DeleteIndex(ctx, r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexMeeting, topic.MeetingUID, topicUID)); err != nil {
		slog.WarnContext(ctx, "failed to delete topic index", logging.ErrKey, err, "topic_uid", topicUID)
	}

	return r.NatsBaseRepository.Delete(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixTopic, topicUID))
}
