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

// NatsVoterRepository is the NATS KV store repository for voters.
// Voters are indexed by voting and by topic, and each (voting, roster entry)
// pair is claimed with a create-only key.
type NatsVoterRepository struct {
	*NatsBaseRepository[models.Voter]
	keyBuilder *KeyBuilder
}

// NewNatsVoterRepository creates a new NATS KV store repository for voters.
func NewNatsVoterRepository(kvStore INatsKeyValue) *NatsVoterRepository {
	return &NatsVoterRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Voter](kvStore, "voter"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

func (r *NatsVoterRepository) claimKey(voter *models.Voter) string {
	return r.keyBuilder.UniqueKeyEncoded(KeyPrefixUniqueVoter, voter.VotingUID, voter.RosterEntryUID)
}

func (r *NatsVoterRepository) indexKeys(voter *models.Voter) []string {
	return []string{
		r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexVoting, voter.VotingUID, voter.UID),
		r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexTopic, voter.TopicUID, voter.UID),
	}
}

// Create stores a voter for a roster entry
func (r *NatsVoterRepository) Create(ctx context.Context, voter *models.Voter) error {
	if voter.UID == "" {
		voter.UID = uuid.New().String()
	}

	claimKey := r.claimKey(voter)
	if err := r.Claim(ctx, claimKey, voter.UID); err != nil {
		if domain.GetErrorType(err) == domain.ErrorTypeConflict {
			return domain.NewConflictError(
				fmt.Sprintf("roster entry '%s' already has a voter in voting '%s'", voter.RosterEntryUID, voter.VotingUID),
				domain.ErrAlreadyExists)
		}
		return err
	}

	key := r.keyBuilder.EntityKeyEncoded(KeyPrefixVoter, voter.UID)
	if err := r.NatsBaseRepository.Create(ctx, key, voter); err != nil {
		r.release(ctx, claimKey)
		return err
	}

	for _, indexKey := range r.indexKeys(voter) {
		if err := r.PutIndex(ctx, indexKey); err != nil {
			r.remove(ctx, voter)
			return err
		}
	}

	return nil
}

// Get retrieves a voter by UID
func (r *NatsVoterRepository) Get(ctx context.Context, voterUID string) (*models.Voter, error) {
	voter, _, err := r.GetWithRevision(ctx, voterUID)
	return voter, err
}

// GetWithRevision retrieves a voter with its revision by UID
func (r *NatsVoterRepository) GetWithRevision(ctx context.Context, voterUID string) (*models.Voter, uint64, error) {
	voter, revision, err := r.NatsBaseRepository.GetWithRevision(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixVoter, voterUID))
	if err != nil {
		return nil, 0, withSentinel(err, domain.ErrVoterNotFound, "voter '%s' not found", voterUID)
	}
	return voter, revision, nil
}

// Update records a vote with optimistic concurrency control
func (r *NatsVoterRepository) Update(ctx context.Context, voter *models.Voter, revision uint64) error {
	err := r.NatsBaseRepository.Update(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixVoter, voter.UID), voter, revision)
	return withSentinel(err, domain.ErrVoterNotFound, "voter '%s' not found", voter.UID)
}

// ListByVoting retrieves every voter of a voting
func (r *NatsVoterRepository) ListByVoting(ctx context.Context, votingUID string) ([]*models.Voter, error) {
	return r.ListIndexed(ctx, r.keyBuilder, KeyPrefixIndexVoting, votingUID, KeyPrefixVoter)
}

// ListByTopic retrieves every voter of the voting attached to a topic
func (r *NatsVoterRepository) ListByTopic(ctx context.Context, topicUID string) ([]*models.Voter, error) {
	return r.ListIndexed(ctx, r.keyBuilder, KeyPrefixIndexTopic, topicUID, KeyPrefixVoter)
}

// DeleteByVoting removes every voter of a voting
func (r *NatsVoterRepository) DeleteByVoting(ctx context.Context, votingUID string) error {
	voters, err := r.ListByVoting(ctx, votingUID)
	if err != nil {
		return err
	}

	for _, voter := range voters {
		if err := r.NatsBaseRepository.Delete(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixVoter, voter.UID)); err != nil &&
			domain.GetErrorType(err) != domain.ErrorTypeNotFound {
			return err
		}
		r.cleanup(ctx, voter)
	}

	return nil
}

// remove drops a voter that failed to be fully written.
func (r *NatsVoterRepository) remove(ctx context.Context, voter *models.Voter) {
	if err := r.NatsBaseRepository.Delete(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixVoter, voter.UID)); err != nil {
		slog.WarnContext(ctx, "failed to roll back voter", logging.ErrKey, err, "voter_uid", voter.UID)
	}
	r.cleanup(ctx, voter)
}

func (r *NatsVoterRepository) cleanup(ctx context.Context, voter *models.Voter) {
	for _, indexKey := range r.indexKeys(voter) {
		if err := r.DeleteIndex(ctx, indexKey); err != nil {
			slog.WarnContext(ctx, "failed to delete voter index", logging.ErrKey, err, "voter_uid", voter.UID)
		}
	}
	r.release(ctx, r.claimKey(voter))
}

func (r *NatsVoterRepository) release(ctx context.Context, claimKey string) {
	if err := r.Release(ctx, claimKey); err != nil {
		slog.WarnContext(ctx, "failed to release voter claim", logging.ErrKey, err)
	}
}
