// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/internal/metrics"
	"github.com/GlazyrinAV/corporate-approval/pkg/concurrent"
	"github.com/GlazyrinAV/corporate-approval/pkg/utils"
)

// VoterService builds voter rosters and records individual votes.
type VoterService struct {
	MeetingRepository            domain.MeetingRepository
	TopicRepository              domain.TopicRepository
	MeetingParticipantRepository domain.MeetingParticipantRepository
	VoterRepository              domain.VoterRepository
	Metrics                      *metrics.Metrics
	Config                       ServiceConfig
}

// NewVoterService creates a new VoterService.
func NewVoterService(
	meetingRepository domain.MeetingRepository,
	topicRepository domain.TopicRepository,
	meetingParticipantRepository domain.MeetingParticipantRepository,
	voterRepository domain.VoterRepository,
	m *metrics.Metrics,
	config ServiceConfig,
) *VoterService {
	return &VoterService{
		MeetingRepository:            meetingRepository,
		TopicRepository:              topicRepository,
		MeetingParticipantRepository: meetingParticipantRepository,
		VoterRepository:              voterRepository,
		Metrics:                      m,
		Config:                       config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *VoterService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.TopicRepository != nil &&
		s.MeetingParticipantRepository != nil &&
		s.VoterRepository != nil
}

// EnsureRoster guarantees that every roster entry of the voting's meeting has
// exactly one voter in the voting, and returns all voters of the voting.
// Calling it repeatedly only creates voters for entries that joined since.
func (s *VoterService) EnsureRoster(ctx context.Context, voting *models.Voting) ([]*models.Voter, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if voting == nil || voting.UID == "" || voting.TopicUID == "" {
		slog.WarnContext(ctx, "voting with topic UID is required")
		return nil, domain.NewValidationError("voting with topic UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("voting_uid", voting.UID))
	ctx = logging.AppendCtx(ctx, slog.String("topic_uid", voting.TopicUID))

	topic, err := s.TopicRepository.Get(ctx, voting.TopicUID)
	if err != nil {
		slog.ErrorContext(ctx, "error getting topic", logging.ErrKey, err)
		return nil, err
	}

	if _, err = s.MeetingRepository.Get(ctx, topic.MeetingUID); err != nil {
		slog.ErrorContext(ctx, "error getting meeting", logging.ErrKey, err, "meeting_uid", topic.MeetingUID)
		return nil, err
	}

	existing, err := s.VoterRepository.ListByVoting(ctx, voting.UID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing voters", logging.ErrKey, err)
		return nil, err
	}

	entries, err := s.MeetingParticipantRepository.ListByMeeting(ctx, topic.MeetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing meeting roster", logging.ErrKey, err)
		return nil, err
	}

	covered := make(map[string]struct{}, len(existing))
	for _, voter := range existing {
		covered[voter.RosterEntryUID] = struct{}{}
	}

	var (
		mu        sync.Mutex
		created   []*models.Voter
		conflicts int
		jobs      []concurrent.Job
	)
	for _, entry := range entries {
		if _, ok := covered[entry.UID]; ok {
			continue
		}
		voter := newVoter(voting, entry.UID)
		jobs = append(jobs, func(ctx context.Context) error {
			err := s.VoterRepository.Create(ctx, voter)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created = append(created, voter)
				return nil
			case domain.GetErrorType(err) == domain.ErrorTypeConflict:
				// another roster build created it first
				conflicts++
				return nil
			default:
				return err
			}
		})
	}

	pool := concurrent.NewWorkerPool(s.Config.RosterWorkers)
	if err := pool.Run(ctx, jobs...); err != nil {
		slog.ErrorContext(ctx, "error creating voters", logging.ErrKey, err)
		return nil, err
	}

	s.Metrics.AddVotersCreated(len(created))

	if conflicts > 0 {
		slog.DebugContext(ctx, "roster build raced with another build, re-reading voters", "conflicts", conflicts)
		return s.VoterRepository.ListByVoting(ctx, voting.UID)
	}

	slog.DebugContext(ctx, "ensured voter roster",
		"existing", len(existing),
		"created", len(created),
		"roster_entries", len(entries),
	)

	return append(existing, created...), nil
}

func newVoter(voting *models.Voting, rosterEntryUID string) *models.Voter {
	now := time.Now().UTC()
	return &models.Voter{
		UID:            uuid.New().String(),
		VotingUID:      voting.UID,
		TopicUID:       voting.TopicUID,
		RosterEntryUID: rosterEntryUID,
		Vote:           models.VoteTypeNotVoted,
		CreatedAt:      utils.TimePtr(now),
		UpdatedAt:      utils.TimePtr(now),
	}
}

// SubmitVote overwrites a voter's vote. Resubmitting the same value is
// allowed and always applied.
func (s *VoterService) SubmitVote(ctx context.Context, voterUID, label string, relatedPartyDeal bool) (*models.Voter, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	return s.applyVote(ctx, "", &models.Ballot{VoterUID: voterUID, Vote: label, RelatedPartyDeal: relatedPartyDeal})
}

// applyVote records a ballot. When votingUID is set the voter must belong to
// that voting.
func (s *VoterService) applyVote(ctx context.Context, votingUID string, ballot *models.Ballot) (*models.Voter, error) {
	if ballot == nil || ballot.VoterUID == "" {
		slog.WarnContext(ctx, "voter UID is required")
		return nil, domain.NewValidationError("voter UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("voter_uid", ballot.VoterUID))

	// The label is resolved before the voter is touched so an invalid label
	// leaves the stored vote unchanged.
	vote, err := models.ParseVoteType(ballot.Vote)
	if err != nil {
		slog.WarnContext(ctx, "invalid vote type", "vote", ballot.Vote)
		return nil, domain.NewInvalidEnumError(fmt.Sprintf("invalid vote type: %s", ballot.Vote), err)
	}

	retries := s.Config.UpdateRetries
	for attempt := 0; ; attempt++ {
		voter, revision, err := s.VoterRepository.GetWithRevision(ctx, ballot.VoterUID)
		if err != nil {
			slog.WarnContext(ctx, "error getting voter", logging.ErrKey, err)
			return nil, err
		}

		if votingUID != "" && voter.VotingUID != votingUID {
			slog.WarnContext(ctx, "voter does not belong to the voting",
				"expected_voting_uid", votingUID,
				"actual_voting_uid", voter.VotingUID)
			return nil, domain.NewValidationError(fmt.Sprintf("voter %s does not belong to voting %s", voter.UID, votingUID))
		}

		if err := s.requireRosterEntry(ctx, voter); err != nil {
			return nil, err
		}

		voter.Vote = vote
		voter.RelatedPartyDeal = ballot.RelatedPartyDeal
		voter.UpdatedAt = utils.TimePtr(time.Now().UTC())

		err = s.VoterRepository.Update(ctx, voter, revision)
		if err == nil {
			s.Metrics.IncrementBallot(string(vote))
			slog.DebugContext(ctx, "recorded vote", "vote", vote, "related_party_deal", voter.RelatedPartyDeal)
			return voter, nil
		}
		if !errors.Is(err, domain.ErrRevisionMismatch) || attempt >= retries {
			slog.ErrorContext(ctx, "error updating voter", logging.ErrKey, err)
			return nil, err
		}
		slog.DebugContext(ctx, "voter changed concurrently, retrying", "attempt", attempt+1)
	}
}

// requireRosterEntry fails with a conflict error when the voter's roster
// entry has been removed from the meeting.
func (s *VoterService) requireRosterEntry(ctx context.Context, voter *models.Voter) error {
	_, err := s.MeetingParticipantRepository.Get(ctx, voter.RosterEntryUID)
	if err == nil {
		return nil
	}
	if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
		slog.WarnContext(ctx, "voter's roster entry was removed", "roster_entry_uid", voter.RosterEntryUID)
		return domain.NewConflictError(
			fmt.Sprintf("voter %s is no longer on the meeting roster", voter.UID), err)
	}
	slog.ErrorContext(ctx, "error getting roster entry", logging.ErrKey, err, "roster_entry_uid", voter.RosterEntryUID)
	return err
}

// GetVoter returns a single voter.
func (s *VoterService) GetVoter(ctx context.Context, voterUID string) (*models.Voter, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if voterUID == "" {
		slog.WarnContext(ctx, "voter UID is required")
		return nil, domain.NewValidationError("voter UID is required")
	}

	voter, err := s.VoterRepository.Get(ctx, voterUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting voter", logging.ErrKey, err, "voter_uid", voterUID)
		return nil, err
	}

	return voter, nil
}

// ListVotersByTopic returns every voter of the topic's voting.
func (s *VoterService) ListVotersByTopic(ctx context.Context, topicUID string) ([]*models.Voter, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if topicUID == "" {
		slog.WarnContext(ctx, "topic UID is required")
		return nil, domain.NewValidationError("topic UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("topic_uid", topicUID))

	if _, err := s.TopicRepository.Get(ctx, topicUID); err != nil {
		slog.WarnContext(ctx, "error getting topic", logging.ErrKey, err)
		return nil, err
	}

	voters, err := s.VoterRepository.ListByTopic(ctx, topicUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing voters", logging.ErrKey, err)
		return nil, err
	}

	slog.DebugContext(ctx, "returning voters", "count", len(voters))

	return voters, nil
}
