// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"fmt"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/google/uuid"
)

// NatsVotingRepository is the NATS KV store repository for votings.
// Votings are keyed by topic UID so the bucket itself enforces one voting per topic.
type NatsVotingRepository struct {
	*NatsBaseRepository[models.Voting]
	keyBuilder *KeyBuilder
}

// NewNatsVotingRepository creates a new NATS KV store repository for votings.
func NewNatsVotingRepository(kvStore INatsKeyValue) *NatsVotingRepository {
	return &NatsVotingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Voting](kvStore, "voting"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsVotingRepository) key(topicUID string) string {
	return r.keyBuilder.EntityKeyEncoded(KeyPrefixVoting, topicUID)
}

// Create stores the voting of a topic
func (r *NatsVotingRepository) Create(ctx context.Context, voting *models.Voting) error {
	if voting.TopicUID == "" {
		return domain.NewValidationError("voting topic UID is required")
	}
	if voting.UID == "" {
		voting.UID = uuid.New().String()
	}

	err := r.NatsBaseRepository.Create(ctx, r.key(voting.TopicUID), voting)
	if domain.GetErrorType(err) == domain.ErrorTypeConflict {
		return domain.NewConflictError(
			fmt.Sprintf("voting for topic '%s' already exists", voting.TopicUID), domain.ErrAlreadyExists)
	}
	return err
}

// GetByTopic retrieves the voting of a topic
func (r *NatsVotingRepository) GetByTopic(ctx context.Context, topicUID string) (*models.Voting, error) {
	voting, _, err := r.GetByTopicWithRevision(ctx, topicUID)
	return voting, err
}

// GetByTopicWithRevision retrieves the voting of a topic with its revision
func (r *NatsVotingRepository) GetByTopicWithRevision(ctx context.Context, topicUID string) (*models.Voting, uint64, error) {
	voting, revision, err := r.NatsBaseRepository.GetWithRevision(ctx, r.key(topicUID))
	if err != nil {
		return nil, 0, withSentinel(err, domain.ErrVotingNotFound, "voting for topic '%s' not found", topicUID)
	}
	return voting, revision, nil
}

// Update stores a new outcome with optimistic concurrency control
func (r *NatsVotingRepository) Update(ctx context.Context, voting *models.Voting, revision uint64) error {
	err := r.NatsBaseRepository.Update(ctx, r.key(voting.TopicUID), voting, revision)
	return withSentinel(err, domain.ErrVotingNotFound, "voting for topic '%s' not found", voting.TopicUID)
}

// DeleteByTopic removes the voting of a topic
func (r *NatsVotingRepository) DeleteByTopic(ctx context.Context, topicUID string) error {
	err := r.NatsBaseRepository.Delete(ctx, r.key(topicUID))
	return withSentinel(err, domain.ErrVotingNotFound, "voting for topic '%s' not found", topicUID)
}
