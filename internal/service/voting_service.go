// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/internal/metrics"
	"github.com/GlazyrinAV/corporate-approval/internal/tally"
	"github.com/GlazyrinAV/corporate-approval/pkg/concurrent"
	"github.com/GlazyrinAV/corporate-approval/pkg/utils"
)

// VotingService manages the voting of each topic and tabulates its outcome.
type VotingService struct {
	MeetingRepository            domain.MeetingRepository
	TopicRepository              domain.TopicRepository
	ParticipantRepository        domain.ParticipantRepository
	MeetingParticipantRepository domain.MeetingParticipantRepository
	VotingRepository             domain.VotingRepository
	VoterRepository              domain.VoterRepository
	VoterService                 *VoterService
	MessageBuilder               domain.VotingEventSender
	Locker                       domain.TopicLocker
	Metrics                      *metrics.Metrics
	Config                       ServiceConfig
}

// VotingServiceDeps groups the collaborators of a VotingService.
type VotingServiceDeps struct {
	Repositories   domain.Repositories
	VoterService   *VoterService
	MessageBuilder domain.VotingEventSender
	Locker         domain.TopicLocker
	Metrics        *metrics.Metrics
}

// NewVotingService creates a new VotingService.
func NewVotingService(deps VotingServiceDeps, config ServiceConfig) *VotingService {
	return &VotingService{
		MeetingRepository:            deps.Repositories.Meeting,
		TopicRepository:              deps.Repositories.Topic,
		ParticipantRepository:        deps.Repositories.Participant,
		MeetingParticipantRepository: deps.Repositories.MeetingParticipant,
		VotingRepository:             deps.Repositories.Voting,
		VoterRepository:              deps.Repositories.Voter,
		VoterService:                 deps.VoterService,
		MessageBuilder:               deps.MessageBuilder,
		Locker:                       lockerOrNoop(deps.Locker),
		Metrics:                      deps.Metrics,
		Config:                       config,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *VotingService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.TopicRepository != nil &&
		s.ParticipantRepository != nil &&
		s.MeetingParticipantRepository != nil &&
		s.VotingRepository != nil &&
		s.VoterRepository != nil &&
		s.VoterService != nil &&
		s.VoterService.ServiceReady() &&
		s.MessageBuilder != nil &&
		s.Locker != nil
}

func (s *VotingService) lockTopic(ctx context.Context, topicUID string) (func(), error) {
	release, err := s.Locker.Lock(ctx, topicUID)
	if err != nil {
		slog.ErrorContext(ctx, "error acquiring topic lock", logging.ErrKey, err)
		return nil, domain.NewUnavailableError("topic is busy, try again", err)
	}
	return release, nil
}

// getOrCreateVoting returns the voting of a topic, creating it when absent.
// A conflicting insert means a concurrent caller created it, so it is re-read.
func (s *VotingService) getOrCreateVoting(ctx context.Context, topicUID string) (*models.Voting, bool, error) {
	voting, err := s.VotingRepository.GetByTopic(ctx, topicUID)
	if err == nil {
		return voting, false, nil
	}
	if domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		slog.ErrorContext(ctx, "error getting voting", logging.ErrKey, err)
		return nil, false, err
	}

	now := time.Now().UTC()
	voting = &models.Voting{
		UID:       uuid.New().String(),
		TopicUID:  topicUID,
		Accepted:  false,
		CreatedAt: utils.TimePtr(now),
		UpdatedAt: utils.TimePtr(now),
	}

	err = s.VotingRepository.Create(ctx, voting)
	if err == nil {
		slog.DebugContext(ctx, "created voting", "voting_uid", voting.UID)
		return voting, true, nil
	}
	if domain.GetErrorType(err) != domain.ErrorTypeConflict {
		slog.ErrorContext(ctx, "error creating voting", logging.ErrKey, err)
		return nil, false, err
	}

	slog.DebugContext(ctx, "voting created concurrently, re-reading")
	voting, err = s.VotingRepository.GetByTopic(ctx, topicUID)
	if err != nil {
		slog.ErrorContext(ctx, "error re-reading voting", logging.ErrKey, err)
		return nil, false, err
	}
	return voting, false, nil
}

// CreateVotingForTopic returns the voting of the topic, creating it if needed,
// with a voter for every current roster entry of the meeting.
func (s *VotingService) CreateVotingForTopic(ctx context.Context, topicUID string) (*models.VotingView, error) {
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

	release, err := s.lockTopic(ctx, topicUID)
	if err != nil {
		return nil, err
	}
	defer release()

	voting, created, err := s.getOrCreateVoting(ctx, topicUID)
	if err != nil {
		return nil, err
	}

	voters, err := s.VoterService.EnsureRoster(ctx, voting)
	if err != nil {
		return nil, err
	}

	view := models.NewVotingView(voting, voters)

	if created {
		if err := s.MessageBuilder.SendVotingCreated(ctx, votingEvent(view)); err != nil {
			slog.ErrorContext(ctx, "failed to send voting created event", logging.ErrKey, err)
			// Don't fail the operation if messaging fails
		}
	}

	return view, nil
}

// GetVotingByTopic returns the voting of a topic.
func (s *VotingService) GetVotingByTopic(ctx context.Context, topicUID string) (*models.VotingView, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if topicUID == "" {
		slog.WarnContext(ctx, "topic UID is required")
		return nil, domain.NewValidationError("topic UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("topic_uid", topicUID))

	voting, err := s.VotingRepository.GetByTopic(ctx, topicUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting voting", logging.ErrKey, err)
		return nil, err
	}

	voters, err := s.VoterRepository.ListByVoting(ctx, voting.UID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing voters", logging.ErrKey, err)
		return nil, err
	}

	return models.NewVotingView(voting, voters), nil
}

// SubmitVotes applies a batch of ballots to the topic's voting in order and
// tabulates the applied ballots. The first failing ballot aborts the rest;
// ballots applied before it stay recorded.
func (s *VotingService) SubmitVotes(ctx context.Context, companyUID, meetingUID, topicUID string, ballots []*models.Ballot) (*models.VotingView, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if companyUID == "" || meetingUID == "" || topicUID == "" {
		slog.WarnContext(ctx, "company UID, meeting UID and topic UID are required")
		return nil, domain.NewValidationError("company UID, meeting UID and topic UID are required")
	}
	if ballots == nil {
		slog.WarnContext(ctx, "ballots are required")
		return nil, domain.NewValidationError("ballots are required")
	}

	start := time.Now()
	ctx = logging.AppendCtx(ctx, slog.String("company_uid", companyUID))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))
	ctx = logging.AppendCtx(ctx, slog.String("topic_uid", topicUID))

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting meeting", logging.ErrKey, err)
		return nil, err
	}
	if meeting.CompanyUID != companyUID {
		slog.WarnContext(ctx, "meeting does not belong to the company", "actual_company_uid", meeting.CompanyUID)
		return nil, domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound)
	}

	topic, err := s.TopicRepository.Get(ctx, topicUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting topic", logging.ErrKey, err)
		return nil, err
	}
	if topic.MeetingUID != meetingUID {
		slog.WarnContext(ctx, "topic does not belong to the meeting", "actual_meeting_uid", topic.MeetingUID)
		return nil, domain.NewNotFoundError("topic not found", domain.ErrTopicNotFound)
	}

	release, err := s.lockTopic(ctx, topicUID)
	if err != nil {
		return nil, err
	}
	defer release()

	voting, err := s.VotingRepository.GetByTopic(ctx, topicUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting voting", logging.ErrKey, err)
		return nil, err
	}

	applied := make([]*models.Voter, 0, len(ballots))
	for i, ballot := range ballots {
		voter, err := s.VoterService.applyVote(ctx, voting.UID, ballot)
		if err != nil {
			slog.WarnContext(ctx, "ballot rejected, aborting batch", logging.ErrKey, err,
				"ballot_index", i,
				"applied", len(applied))
			return nil, err
		}
		applied = append(applied, voter)
	}

	view, err := s.tabulate(ctx, meeting, topicUID, applied)
	if err != nil {
		return nil, err
	}

	s.Metrics.ObserveSubmitLatency(time.Since(start))

	return view, nil
}

// Tabulate recomputes the outcome of a topic's voting from a batch of ballots
// that were already applied. Labels are resolved and voters looked up but
// not modified. Every ballot must come from a voter of the topic's voting.
func (s *VotingService) Tabulate(ctx context.Context, topicUID string, ballots []*models.Ballot) (*models.VotingView, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if topicUID == "" {
		slog.WarnContext(ctx, "topic UID is required")
		return nil, domain.NewValidationError("topic UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("topic_uid", topicUID))

	topic, err := s.TopicRepository.Get(ctx, topicUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting topic", logging.ErrKey, err)
		return nil, err
	}

	meeting, err := s.MeetingRepository.Get(ctx, topic.MeetingUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting meeting", logging.ErrKey, err)
		return nil, err
	}

	release, err := s.lockTopic(ctx, topicUID)
	if err != nil {
		return nil, err
	}
	defer release()

	voting, err := s.VotingRepository.GetByTopic(ctx, topicUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting voting", logging.ErrKey, err)
		return nil, err
	}

	voters := make([]*models.Voter, 0, len(ballots))
	for _, ballot := range ballots {
		if ballot == nil {
			return nil, domain.NewValidationError("ballot is required")
		}
		vote, err := models.ParseVoteType(ballot.Vote)
		if err != nil {
			return nil, domain.NewInvalidEnumError("invalid vote type: "+ballot.Vote, err)
		}
		voter, err := s.VoterRepository.Get(ctx, ballot.VoterUID)
		if err != nil {
			slog.WarnContext(ctx, "error getting voter", logging.ErrKey, err, "voter_uid", ballot.VoterUID)
			return nil, err
		}
		if voter.VotingUID != voting.UID {
			slog.WarnContext(ctx, "voter does not belong to the voting",
				"voter_uid", voter.UID,
				"expected_voting_uid", voting.UID,
				"actual_voting_uid", voter.VotingUID)
			return nil, domain.NewValidationError(fmt.Sprintf("voter %s does not belong to voting %s", voter.UID, voting.UID))
		}
		if err := s.VoterService.requireRosterEntry(ctx, voter); err != nil {
			return nil, err
		}
		// the submitted value is what gets counted
		counted := *voter
		counted.Vote = vote
		voters = append(voters, &counted)
	}

	return s.tabulate(ctx, meeting, topicUID, voters)
}

// tabulate computes and persists the outcome for the given voters. The
// caller holds the topic lock.
func (s *VotingService) tabulate(ctx context.Context, meeting *models.Meeting, topicUID string, voters []*models.Voter) (*models.VotingView, error) {
	rule, err := tally.RuleFor(meeting.Type)
	if err != nil {
		slog.ErrorContext(ctx, "meeting has no tally rule", logging.ErrKey, err, "meeting_type", meeting.Type)
		return nil, domain.NewInternalError("meeting has an unknown type", err)
	}

	ballots, err := s.weighBallots(ctx, rule, voters)
	if err != nil {
		return nil, err
	}

	result := tally.Tabulate(rule, ballots)

	voting, err := s.storeOutcome(ctx, topicUID, result.Accepted)
	if err != nil {
		return nil, err
	}

	s.Metrics.IncrementTabulation(result.Rule, result.Accepted)
	slog.InfoContext(ctx, "tabulated voting",
		"voting_uid", voting.UID,
		"rule", result.Rule,
		"approval", result.Approval,
		"submitted", result.Submitted,
		"accepted", result.Accepted,
	)

	all, err := s.VoterRepository.ListByVoting(ctx, voting.UID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing voters", logging.ErrKey, err)
		return nil, err
	}

	view := models.NewVotingView(voting, all)
	if err := s.MessageBuilder.SendVotingTabulated(ctx, votingEvent(view)); err != nil {
		slog.ErrorContext(ctx, "failed to send voting tabulated event", logging.ErrKey, err)
	}

	return view, nil
}

// weighBallots turns voters into tally ballots. Shares are only resolved
// when the rule weighs by share.
func (s *VotingService) weighBallots(ctx context.Context, rule tally.Rule, voters []*models.Voter) ([]tally.Ballot, error) {
	ballots := make([]tally.Ballot, 0, len(voters))
	_, byShare := rule.(tally.ShareWeightedRule)

	shares := make(map[string]float64)
	for _, voter := range voters {
		ballot := tally.Ballot{Vote: voter.Vote}
		if byShare && voter.Vote == models.VoteTypeYes {
			share, ok := shares[voter.RosterEntryUID]
			if !ok {
				var err error
				share, err = s.rosterShare(ctx, voter.RosterEntryUID)
				if err != nil {
					return nil, err
				}
				shares[voter.RosterEntryUID] = share
			}
			ballot.Share = share
		}
		ballots = append(ballots, ballot)
	}
	return ballots, nil
}

func (s *VotingService) rosterShare(ctx context.Context, rosterEntryUID string) (float64, error) {
	entry, err := s.MeetingParticipantRepository.Get(ctx, rosterEntryUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting roster entry", logging.ErrKey, err, "roster_entry_uid", rosterEntryUID)
		return 0, err
	}
	participant, err := s.ParticipantRepository.Get(ctx, entry.ParticipantUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting participant", logging.ErrKey, err, "participant_uid", entry.ParticipantUID)
		return 0, err
	}
	return participant.Share, nil
}

// storeOutcome persists the accepted flag, retrying on revision conflicts.
func (s *VotingService) storeOutcome(ctx context.Context, topicUID string, accepted bool) (*models.Voting, error) {
	for attempt := 0; ; attempt++ {
		voting, revision, err := s.VotingRepository.GetByTopicWithRevision(ctx, topicUID)
		if err != nil {
			slog.WarnContext(ctx, "error getting voting", logging.ErrKey, err)
			return nil, err
		}

		voting.Accepted = accepted
		voting.UpdatedAt = utils.TimePtr(time.Now().UTC())

		err = s.VotingRepository.Update(ctx, voting, revision)
		if err == nil {
			return voting, nil
		}
		if !errors.Is(err, domain.ErrRevisionMismatch) || attempt >= s.Config.UpdateRetries {
			slog.ErrorContext(ctx, "error updating voting", logging.ErrKey, err)
			return nil, err
		}
		slog.DebugContext(ctx, "voting changed concurrently, retrying", "attempt", attempt+1)
	}
}

// DeleteVotingForTopic removes the topic's voting and all of its voters.
func (s *VotingService) DeleteVotingForTopic(ctx context.Context, topicUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	if topicUID == "" {
		slog.WarnContext(ctx, "topic UID is required")
		return domain.NewValidationError("topic UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("topic_uid", topicUID))

	release, err := s.lockTopic(ctx, topicUID)
	if err != nil {
		return err
	}
	defer release()

	voting, err := s.VotingRepository.GetByTopic(ctx, topicUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting voting", logging.ErrKey, err)
		return err
	}

	if err := s.VoterRepository.DeleteByVoting(ctx, voting.UID); err != nil {
		slog.ErrorContext(ctx, "error deleting voters", logging.ErrKey, err)
		return err
	}

	if err := s.VotingRepository.DeleteByTopic(ctx, topicUID); err != nil {
		slog.ErrorContext(ctx, "error deleting voting", logging.ErrKey, err)
		return err
	}

	slog.DebugContext(ctx, "deleted voting", "voting_uid", voting.UID)

	if err := s.MessageBuilder.SendVotingDeleted(ctx, models.VotingEventMessage{
		VotingUID: voting.UID,
		TopicUID:  topicUID,
		Accepted:  voting.Accepted,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send voting deleted event", logging.ErrKey, err)
	}

	return nil
}

// ExtendVotingsForMeeting rebuilds the voter roster of every existing voting
// of the meeting. Topics without a voting are skipped.
func (s *VotingService) ExtendVotingsForMeeting(ctx context.Context, meetingUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	topics, err := s.TopicRepository.ListByMeeting(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing topics", logging.ErrKey, err)
		return err
	}

	jobs := make([]concurrent.Job, 0, len(topics))
	for _, topic := range topics {
		jobs = append(jobs, func(ctx context.Context) error {
			ctx = logging.AppendCtx(ctx, slog.String("topic_uid", topic.UID))

			release, err := s.lockTopic(ctx, topic.UID)
			if err != nil {
				return err
			}
			defer release()

			voting, err := s.VotingRepository.GetByTopic(ctx, topic.UID)
			if domain.GetErrorType(err) == domain.ErrorTypeNotFound {
				return nil
			}
			if err != nil {
				return err
			}

			_, err = s.VoterService.EnsureRoster(ctx, voting)
			return err
		})
	}

	pool := concurrent.NewWorkerPool(s.Config.RosterWorkers)
	if err := pool.RunAll(ctx, jobs...); err != nil {
		slog.ErrorContext(ctx, "error extending votings", logging.ErrKey, err)
		return err
	}

	slog.DebugContext(ctx, "extended votings of meeting", "topics", len(topics))

	return nil
}

func votingEvent(view *models.VotingView) models.VotingEventMessage {
	return models.VotingEventMessage{
		VotingUID: view.UID,
		TopicUID:  view.TopicUID,
		Accepted:  view.Accepted,
		VoterUIDs: view.VoterUIDs,
	}
}
