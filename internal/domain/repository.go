// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

// ParticipantRepository defines the storage operations for company participants.
// This interface can be implemented by different storage backends (NATS, SQL, etc.)
type ParticipantRepository interface {
	Create(ctx context.Context, participant *models.Participant) error
	Get(ctx context.Context, participantUID string) (*models.Participant, error)
	ListByCompany(ctx context.Context, companyUID string) ([]*models.Participant, error)
	Delete(ctx context.Context, participantUID string) error
}

// MeetingRepository defines the storage operations for meetings.
type MeetingRepository interface {
	Create(ctx context.Context, meeting *models.Meeting) error
	Get(ctx context.Context, meetingUID string) (*models.Meeting, error)
	ListByCompany(ctx context.Context, companyUID string) ([]*models.Meeting, error)
	Delete(ctx context.Context, meetingUID string) error
}

// TopicRepository defines the storage operations for agenda topics.
type TopicRepository interface {
	Create(ctx context.Context, topic *models.Topic) error
	Get(ctx context.Context, topicUID string) (*models.Topic, error)
	ListByMeeting(ctx context.Context, meetingUID string) ([]*models.Topic, error)
	Delete(ctx context.Context, topicUID string) error
}

// MeetingParticipantRepository defines the storage operations for meeting rosters.
type MeetingParticipantRepository interface {
	// Create fails with a conflict error when the participant is already on
	// the meeting roster.
	Create(ctx context.Context, entry *models.MeetingParticipant) error
	Get(ctx context.Context, entryUID string) (*models.MeetingParticipant, error)
	GetWithRevision(ctx context.Context, entryUID string) (*models.MeetingParticipant, uint64, error)
	ListByMeeting(ctx context.Context, meetingUID string) ([]*models.MeetingParticipant, error)
	ListByParticipant(ctx context.Context, participantUID string) ([]*models.MeetingParticipant, error)
	Update(ctx context.Context, entry *models.MeetingParticipant, revision uint64) error
	Delete(ctx context.Context, entryUID string) error
}

// VotingRepository defines the storage operations for votings.
// Implementations guarantee at most one voting per topic.
type VotingRepository interface {
	// Create fails with a conflict error when a voting already exists for
	// the topic.
	Create(ctx context.Context, voting *models.Voting) error
	GetByTopic(ctx context.Context, topicUID string) (*models.Voting, error)
	GetByTopicWithRevision(ctx context.Context, topicUID string) (*models.Voting, uint64, error)
	Update(ctx context.Context, voting *models.Voting, revision uint64) error
	DeleteByTopic(ctx context.Context, topicUID string) error
}

// VoterRepository defines the storage operations for voters.
// Implementations guarantee at most one voter per voting and roster entry.
type VoterRepository interface {
	// Create fails with a conflict error when the roster entry already has a
	// voter in the voting.
	Create(ctx context.Context, voter *models.Voter) error
	Get(ctx context.Context, voterUID string) (*models.Voter, error)
	GetWithRevision(ctx context.Context, voterUID string) (*models.Voter, uint64, error)
	Update(ctx context.Context, voter *models.Voter, revision uint64) error
	ListByVoting(ctx context.Context, votingUID string) ([]*models.Voter, error)
	ListByTopic(ctx context.Context, topicUID string) ([]*models.Voter, error)
	DeleteByVoting(ctx context.Context, votingUID string) error
}

// Repositories groups every repository a store backend provides.
type Repositories struct {
	Participant        ParticipantRepository
	Meeting            MeetingRepository
	Topic              TopicRepository
	MeetingParticipant MeetingParticipantRepository
	Voting             VotingRepository
	Voter              VoterRepository
}
