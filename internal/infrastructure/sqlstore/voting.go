// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package sqlstore

import (
	"context"
	"fmt"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VotingRepository stores votings in SQL with a unique index on topic.
type VotingRepository struct {
	db *gorm.DB
}

// Create inserts the voting of a topic
func (r *VotingRepository) Create(ctx context.Context, voting *models.Voting) error {
	if voting.TopicUID == "" {
		return domain.NewValidationError("voting topic UID is required")
	}
	if voting.UID == "" {
		voting.UID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Create(newVotingRow(voting)).Error
	if err != nil && isDuplicate(err) {
		return domain.NewConflictError(
			fmt.Sprintf("voting for topic '%s' already exists", voting.TopicUID), domain.ErrAlreadyExists)
	}
	return translate(err, "voting", domain.ErrVotingNotFound)
}

// GetByTopic retrieves the voting of a topic
func (r *VotingRepository) GetByTopic(ctx context.Context, topicUID string) (*models.Voting, error) {
	voting, _, err := r.GetByTopicWithRevision(ctx, topicUID)
	return voting, err
}

// GetByTopicWithRevision retrieves the voting of a topic and its version
func (r *VotingRepository) GetByTopicWithRevision(ctx context.Context, topicUID string) (*models.Voting, uint64, error) {
	var row votingRow
	if err := r.db.WithContext(ctx).Where("topic_uid = ?", topicUID).Take(&row).Error; err != nil {
		return nil, 0, translate(err, fmt.Sprintf("voting for topic '%s'", topicUID), domain.ErrVotingNotFound)
	}
	return row.model(), row.Version, nil
}

// Update stores the outcome when revision still matches
func (r *VotingRepository) Update(ctx context.Context, voting *models.Voting, revision uint64) error {
	return updateVersioned(r.db.WithContext(ctx), &votingRow{}, voting.UID, revision, map[string]any{
		"accepted":   voting.Accepted,
		"updated_at": voting.UpdatedAt,
	}, "voting", domain.ErrVotingNotFound)
}

// DeleteByTopic removes the voting of a topic
func (r *VotingRepository) DeleteByTopic(ctx context.Context, topicUID string) error {
	result := r.db.WithContext(ctx).Where("topic_uid = ?", topicUID).Delete(&votingRow{})
	if result.Error != nil {
		return translate(result.Error, "voting", domain.ErrVotingNotFound)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("voting for topic '%s' not found", topicUID), domain.ErrVotingNotFound)
	}
	return nil
}

// VoterRepository stores voters in SQL with a unique index on (voting, roster entry).
type VoterRepository struct {
	db *gorm.DB
}

// Create inserts a voter
func (r *VoterRepository) Create(ctx context.Context, voter *models.Voter) error {
	if voter.UID == "" {
		voter.UID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Create(newVoterRow(voter)).Error
	if err != nil && isDuplicate(err) {
		return domain.NewConflictError(
			fmt.Sprintf("roster entry '%s' already has a voter in voting '%s'", voter.RosterEntryUID, voter.VotingUID),
			domain.ErrAlreadyExists)
	}
	return translate(err, "voter", domain.ErrVoterNotFound)
}

// Get retrieves a voter by UID
func (r *VoterRepository) Get(ctx context.Context, voterUID string) (*models.Voter, error) {
	voter, _, err := r.GetWithRevision(ctx, voterUID)
	return voter, err
}

// GetWithRevision retrieves a voter and its version by UID
func (r *VoterRepository) GetWithRevision(ctx context.Context, voterUID string) (*models.Voter, uint64, error) {
	var row voterRow
	if err := r.db.WithContext(ctx).Where("uid = ?", voterUID).Take(&row).Error; err != nil {
		return nil, 0, translate(err, fmt.Sprintf("voter '%s'", voterUID), domain.ErrVoterNotFound)
	}
	return row.model(), row.Version, nil
}

// Update records a vote when revision still matches
func (r *VoterRepository) Update(ctx context.Context, voter *models.Voter, revision uint64) error {
	return updateVersioned(r.db.WithContext(ctx), &voterRow{}, voter.UID, revision, map[string]any{
		"vote":               voter.Vote,
		"related_party_deal": voter.RelatedPartyDeal,
		"updated_at":         voter.UpdatedAt,
	}, "voter", domain.ErrVoterNotFound)
}

// ListByVoting retrieves every voter of a voting
func (r *VoterRepository) ListByVoting(ctx context.Context, votingUID string) ([]*models.Voter, error) {
	return r.list(ctx, "voting_uid = ?", votingUID)
}

// ListByTopic retrieves every voter of the voting attached to a topic
func (r *VoterRepository) ListByTopic(ctx context.Context, topicUID string) ([]*models.Voter, error) {
	return r.list(ctx, "topic_uid = ?", topicUID)
}

func (r *VoterRepository) list(ctx context.Context, query string, arg string) ([]*models.Voter, error) {
	var rows []voterRow
	if err := r.db.WithContext(ctx).Where(query, arg).Order("created_at, uid").Find(&rows).Error; err != nil {
		return nil, translate(err, "voter", domain.ErrVoterNotFound)
	}
	voters := make([]*models.Voter, 0, len(rows))
	for i := range rows {
		voters = append(voters, rows[i].model())
	}
	return voters, nil
}

// DeleteByVoting removes every voter of a voting
func (r *VoterRepository) DeleteByVoting(ctx context.Context, votingUID string) error {
	err := r.db.WithContext(ctx).Where("voting_uid = ?", votingUID).Delete(&voterRow{}).Error
	return translate(err, "voter", domain.ErrVoterNotFound)
}
