// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/mocks"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

type votingMocks struct {
	meetingRepo            *mocks.MockMeetingRepository
	topicRepo              *mocks.MockTopicRepository
	participantRepo        *mocks.MockParticipantRepository
	meetingParticipantRepo *mocks.MockMeetingParticipantRepository
	votingRepo             *mocks.MockVotingRepository
	voterRepo              *mocks.MockVoterRepository
	builder                *mocks.MockMessageBuilder
}

func setupVotingServiceForTesting() (*VotingService, *votingMocks) {
	m := &votingMocks{
		meetingRepo:            &mocks.MockMeetingRepository{},
		topicRepo:              &mocks.MockTopicRepository{},
		participantRepo:        &mocks.MockParticipantRepository{},
		meetingParticipantRepo: &mocks.MockMeetingParticipantRepository{},
		votingRepo:             &mocks.MockVotingRepository{},
		voterRepo:              &mocks.MockVoterRepository{},
		builder:                &mocks.MockMessageBuilder{},
	}
	config := DefaultServiceConfig()

	voterService := NewVoterService(m.meetingRepo, m.topicRepo, m.meetingParticipantRepo, m.voterRepo, nil, config)
	service := NewVotingService(VotingServiceDeps{
		Repositories: domain.Repositories{
			Participant:        m.participantRepo,
			Meeting:            m.meetingRepo,
			Topic:              m.topicRepo,
			MeetingParticipant: m.meetingParticipantRepo,
			Voting:             m.votingRepo,
			Voter:              m.voterRepo,
		},
		VoterService:   voterService,
		MessageBuilder: m.builder,
	}, config)

	return service, m
}

func votingNotFound() error {
	return domain.NewNotFoundError("voting not found", domain.ErrVotingNotFound)
}

func testMeeting(meetingType models.MeetingType) *models.Meeting {
	return &models.Meeting{
		UID:        "meeting-1",
		CompanyUID: "company-1",
		Type:       meetingType,
		Date:       time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}

func testTopic() *models.Topic {
	return &models.Topic{UID: "topic-1", MeetingUID: "meeting-1", Title: "Approve annual report"}
}

func testVoting() *models.Voting {
	return &models.Voting{UID: "voting-1", TopicUID: "topic-1"}
}

func testVoter(uid, entryUID string) *models.Voter {
	return &models.Voter{
		UID:            uid,
		VotingUID:      "voting-1",
		TopicUID:       "topic-1",
		RosterEntryUID: entryUID,
		Vote:           models.VoteTypeNotVoted,
	}
}

func testRosterEntry(uid string) *models.MeetingParticipant {
	return &models.MeetingParticipant{UID: uid, MeetingUID: "meeting-1", ParticipantUID: "participant-" + uid}
}

func rosterEntries(uids ...string) []*models.MeetingParticipant {
	entries := make([]*models.MeetingParticipant, 0, len(uids))
	for _, uid := range uids {
		entries = append(entries, testRosterEntry(uid))
	}
	return entries
}

func rosterEntryNotFound() error {
	return domain.NewNotFoundError("meeting participant not found", domain.ErrRosterEntryNotFound)
}

func TestVotingService_ServiceReady(t *testing.T) {
	service, _ := setupVotingServiceForTesting()
	assert.True(t, service.ServiceReady())

	service.VotingRepository = nil
	assert.False(t, service.ServiceReady())

	service, _ = setupVotingServiceForTesting()
	service.VoterService.VoterRepository = nil
	assert.False(t, service.ServiceReady())

	service, _ = setupVotingServiceForTesting()
	service.MessageBuilder = nil
	_, err := service.GetVotingByTopic(context.Background(), "topic-1")
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}

func TestVotingService_CreateVotingForTopic(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name            string
		setupMocks      func(*votingMocks)
		wantErrType     *domain.ErrorType
		wantVoters      int
		wantCreates     int
		wantCreateEvent bool
	}{
		{
			name: "new voting gets a voter per roster entry",
			setupMocks: func(m *votingMocks) {
				m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
				m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeBOD), nil)
				m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(nil, votingNotFound())
				m.votingRepo.On("Create", mock.Anything, mock.MatchedBy(func(v *models.Voting) bool {
					return v.TopicUID == "topic-1" && !v.Accepted && v.UID != ""
				})).Return(nil)
				m.voterRepo.On("ListByVoting", mock.Anything, mock.Anything).Return([]*models.Voter{}, nil)
				m.meetingParticipantRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return(rosterEntries("entry-1", "entry-2"), nil)
				m.voterRepo.On("Create", mock.Anything, mock.MatchedBy(func(v *models.Voter) bool {
					return v.Vote == models.VoteTypeNotVoted && !v.RelatedPartyDeal && v.TopicUID == "topic-1"
				})).Return(nil)
				m.builder.On("SendVotingCreated", mock.Anything, mock.Anything).Return(nil)
			},
			wantVoters:      2,
			wantCreates:     2,
			wantCreateEvent: true,
		},
		{
			name: "existing voting with full roster is returned unchanged",
			setupMocks: func(m *votingMocks) {
				m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
				m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeBOD), nil)
				m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(testVoting(), nil)
				m.voterRepo.On("ListByVoting", mock.Anything, "voting-1").Return([]*models.Voter{
					testVoter("voter-1", "entry-1"),
					testVoter("voter-2", "entry-2"),
				}, nil)
				m.meetingParticipantRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return(rosterEntries("entry-1", "entry-2"), nil)
			},
			wantVoters:  2,
			wantCreates: 0,
		},
		{
			name: "conflicting insert re-reads the voting",
			setupMocks: func(m *votingMocks) {
				m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
				m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeBOD), nil)
				m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(nil, votingNotFound()).Once()
				m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(testVoting(), nil)
				m.votingRepo.On("Create", mock.Anything, mock.Anything).Return(domain.NewConflictError("voting already exists", domain.ErrAlreadyExists))
				m.voterRepo.On("ListByVoting", mock.Anything, "voting-1").Return([]*models.Voter{testVoter("voter-1", "entry-1")}, nil)
				m.meetingParticipantRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return(rosterEntries("entry-1"), nil)
			},
			wantVoters:  1,
			wantCreates: 0,
		},
		{
			name: "topic not found",
			setupMocks: func(m *votingMocks) {
				m.topicRepo.On("Get", mock.Anything, "topic-1").Return(nil, domain.NewNotFoundError("topic not found", domain.ErrTopicNotFound))
			},
			wantErrType: func() *domain.ErrorType { e := domain.ErrorTypeNotFound; return &e }(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := setupVotingServiceForTesting()
			tt.setupMocks(m)

			view, err := service.CreateVotingForTopic(ctx, "topic-1")

			if tt.wantErrType != nil {
				require.Error(t, err)
				assert.Equal(t, *tt.wantErrType, domain.GetErrorType(err))
				assert.Nil(t, view)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "topic-1", view.TopicUID)
			assert.False(t, view.Accepted)
			assert.Len(t, view.VoterUIDs, tt.wantVoters)
			m.voterRepo.AssertNumberOfCalls(t, "Create", tt.wantCreates)
			if tt.wantCreateEvent {
				m.builder.AssertCalled(t, "SendVotingCreated", mock.Anything, mock.Anything)
			} else {
				m.builder.AssertNotCalled(t, "SendVotingCreated", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestVotingService_GetVotingByTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("returns voting with voters", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		voting := testVoting()
		voting.Accepted = true
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(voting, nil)
		m.voterRepo.On("ListByVoting", mock.Anything, "voting-1").Return([]*models.Voter{testVoter("voter-1", "entry-1")}, nil)

		view, err := service.GetVotingByTopic(ctx, "topic-1")
		require.NoError(t, err)
		assert.True(t, view.Accepted)
		assert.Equal(t, []string{"voter-1"}, view.VoterUIDs)
	})

	t.Run("absent voting is not found", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(nil, votingNotFound())

		_, err := service.GetVotingByTopic(ctx, "topic-1")
		assert.ErrorIs(t, err, domain.ErrVotingNotFound)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
	})

	t.Run("empty topic UID", func(t *testing.T) {
		service, _ := setupVotingServiceForTesting()
		_, err := service.GetVotingByTopic(ctx, "")
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})
}

// expectSubmission wires the mocks for a ballot batch on topic-1.
func expectSubmission(m *votingMocks, meetingType models.MeetingType, voters ...*models.Voter) {
	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(meetingType), nil)
	m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
	m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(testVoting(), nil)
	for _, voter := range voters {
		m.voterRepo.On("GetWithRevision", mock.Anything, voter.UID).Return(voter, uint64(1), nil)
		m.meetingParticipantRepo.On("Get", mock.Anything, voter.RosterEntryUID).Return(testRosterEntry(voter.RosterEntryUID), nil)
	}
	m.voterRepo.On("Update", mock.Anything, mock.Anything, uint64(1)).Return(nil)
	m.votingRepo.On("GetByTopicWithRevision", mock.Anything, "topic-1").Return(testVoting(), uint64(7), nil)
	m.voterRepo.On("ListByVoting", mock.Anything, "voting-1").Return(voters, nil)
	m.builder.On("SendVotingTabulated", mock.Anything, mock.Anything).Return(nil)
}

func expectShare(m *votingMocks, entryUID string, share float64) {
	participantUID := "participant-" + entryUID
	m.meetingParticipantRepo.On("Get", mock.Anything, entryUID).Return(testRosterEntry(entryUID), nil)
	m.participantRepo.On("Get", mock.Anything, participantUID).
		Return(&models.Participant{UID: participantUID, CompanyUID: "company-1", Share: share, Type: models.ParticipantTypeOwner, Active: true}, nil)
}

func expectOutcome(m *votingMocks, accepted bool) {
	m.votingRepo.On("Update", mock.Anything, mock.MatchedBy(func(v *models.Voting) bool {
		return v.UID == "voting-1" && v.Accepted == accepted
	}), uint64(7)).Return(nil)
}

func TestVotingService_SubmitVotes_Outcomes(t *testing.T) {
	ctx := context.Background()
	yes, no := models.VoteTypeYes.Label(), models.VoteTypeNo.Label()

	tests := []struct {
		name         string
		meetingType  models.MeetingType
		shares       map[string]float64
		ballots      []*models.Ballot
		wantAccepted bool
	}{
		{
			name:        "board two of three accepted",
			meetingType: models.MeetingTypeBOD,
			ballots: []*models.Ballot{
				{VoterUID: "voter-1", Vote: yes},
				{VoterUID: "voter-2", Vote: yes},
				{VoterUID: "voter-3", Vote: no},
			},
			wantAccepted: true,
		},
		{
			name:        "board tie rejected",
			meetingType: models.MeetingTypeBOD,
			ballots: []*models.Ballot{
				{VoterUID: "voter-1", Vote: yes},
				{VoterUID: "voter-2", Vote: no},
			},
			wantAccepted: false,
		},
		{
			name:        "shareholders 30 and 25 accepted",
			meetingType: models.MeetingTypeFMS,
			shares:      map[string]float64{"entry-1": 30, "entry-2": 25},
			ballots: []*models.Ballot{
				{VoterUID: "voter-1", Vote: yes},
				{VoterUID: "voter-2", Vote: yes},
				{VoterUID: "voter-3", Vote: no},
			},
			wantAccepted: true,
		},
		{
			name:        "participants with exactly fifty rejected",
			meetingType: models.MeetingTypeFMP,
			shares:      map[string]float64{"entry-1": 20, "entry-2": 30},
			ballots: []*models.Ballot{
				{VoterUID: "voter-1", Vote: yes},
				{VoterUID: "voter-2", Vote: yes},
				{VoterUID: "voter-3", Vote: no},
			},
			wantAccepted: false,
		},
		{
			name:         "board empty batch rejected",
			meetingType:  models.MeetingTypeBOD,
			ballots:      []*models.Ballot{},
			wantAccepted: false,
		},
		{
			name:         "shareholders empty batch rejected",
			meetingType:  models.MeetingTypeFMS,
			ballots:      []*models.Ballot{},
			wantAccepted: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := setupVotingServiceForTesting()
			expectSubmission(m, tt.meetingType,
				testVoter("voter-1", "entry-1"),
				testVoter("voter-2", "entry-2"),
				testVoter("voter-3", "entry-3"),
			)
			for entryUID, share := range tt.shares {
				expectShare(m, entryUID, share)
			}
			expectOutcome(m, tt.wantAccepted)

			view, err := service.SubmitVotes(ctx, "company-1", "meeting-1", "topic-1", tt.ballots)
			require.NoError(t, err)
			assert.Equal(t, tt.wantAccepted, view.Accepted)
			assert.Len(t, view.VoterUIDs, 3)
			m.voterRepo.AssertNumberOfCalls(t, "Update", len(tt.ballots))
			m.votingRepo.AssertExpectations(t)
			m.builder.AssertCalled(t, "SendVotingTabulated", mock.Anything, mock.Anything)
		})
	}
}

func TestVotingService_SubmitVotes_Errors(t *testing.T) {
	ctx := context.Background()
	yes := models.VoteTypeYes.Label()

	t.Run("unknown label aborts the batch and keeps the prior vote", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		voter1 := testVoter("voter-1", "entry-1")
		voter2 := testVoter("voter-2", "entry-2")
		voter2.Vote = models.VoteTypeNo
		expectSubmission(m, models.MeetingTypeBOD, voter1, voter2)

		_, err := service.SubmitVotes(ctx, "company-1", "meeting-1", "topic-1", []*models.Ballot{
			{VoterUID: "voter-1", Vote: yes},
			{VoterUID: "voter-2", Vote: "MAYBE"},
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidEnumValue)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		assert.Equal(t, models.VoteTypeNo, voter2.Vote)
		m.voterRepo.AssertNumberOfCalls(t, "Update", 1)
		m.voterRepo.AssertNotCalled(t, "GetWithRevision", mock.Anything, "voter-2")
		m.votingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("nil ballots", func(t *testing.T) {
		service, _ := setupVotingServiceForTesting()
		_, err := service.SubmitVotes(ctx, "company-1", "meeting-1", "topic-1", nil)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})

	t.Run("meeting of another company", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeBOD), nil)

		_, err := service.SubmitVotes(ctx, "company-2", "meeting-1", "topic-1", []*models.Ballot{})
		assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
	})

	t.Run("topic of another meeting", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeBOD), nil)
		topic := testTopic()
		topic.MeetingUID = "meeting-2"
		m.topicRepo.On("Get", mock.Anything, "topic-1").Return(topic, nil)

		_, err := service.SubmitVotes(ctx, "company-1", "meeting-1", "topic-1", []*models.Ballot{})
		assert.ErrorIs(t, err, domain.ErrTopicNotFound)
	})

	t.Run("voting not found", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeBOD), nil)
		m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(nil, votingNotFound())

		_, err := service.SubmitVotes(ctx, "company-1", "meeting-1", "topic-1", []*models.Ballot{})
		assert.ErrorIs(t, err, domain.ErrVotingNotFound)
	})

	t.Run("voter not found", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeBOD), nil)
		m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(testVoting(), nil)
		m.voterRepo.On("GetWithRevision", mock.Anything, "ghost").
			Return(nil, uint64(0), domain.NewNotFoundError("voter not found", domain.ErrVoterNotFound))

		_, err := service.SubmitVotes(ctx, "company-1", "meeting-1", "topic-1", []*models.Ballot{{VoterUID: "ghost", Vote: yes}})
		assert.ErrorIs(t, err, domain.ErrVoterNotFound)
	})

	t.Run("voter of another voting", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		stranger := testVoter("voter-9", "entry-9")
		stranger.VotingUID = "voting-2"
		expectSubmission(m, models.MeetingTypeBOD, stranger)

		_, err := service.SubmitVotes(ctx, "company-1", "meeting-1", "topic-1", []*models.Ballot{{VoterUID: "voter-9", Vote: yes}})
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		m.voterRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("voter whose roster entry was removed", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeFMS), nil)
		m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(testVoting(), nil)
		m.voterRepo.On("GetWithRevision", mock.Anything, "voter-1").Return(testVoter("voter-1", "entry-1"), uint64(1), nil)
		m.meetingParticipantRepo.On("Get", mock.Anything, "entry-1").Return(nil, rosterEntryNotFound())

		_, err := service.SubmitVotes(ctx, "company-1", "meeting-1", "topic-1", []*models.Ballot{{VoterUID: "voter-1", Vote: yes}})
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
		m.voterRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		m.votingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVotingService_SubmitVotes_RetriesRevisionConflict(t *testing.T) {
	service, m := setupVotingServiceForTesting()
	expectSubmission(m, models.MeetingTypeBOD, testVoter("voter-1", "entry-1"))
	m.votingRepo.On("Update", mock.Anything, mock.Anything, uint64(7)).
		Return(domain.NewConflictError("voting changed", domain.ErrRevisionMismatch)).Once()
	m.votingRepo.On("Update", mock.Anything, mock.Anything, uint64(7)).Return(nil)

	view, err := service.SubmitVotes(context.Background(), "company-1", "meeting-1", "topic-1",
		[]*models.Ballot{{VoterUID: "voter-1", Vote: models.VoteTypeYes.Label()}})

	require.NoError(t, err)
	assert.True(t, view.Accepted)
	m.votingRepo.AssertNumberOfCalls(t, "Update", 2)
}

func TestVotingService_Tabulate(t *testing.T) {
	ctx := context.Background()
	yes := models.VoteTypeYes.Label()

	// expectTabulation wires topic-1 of a shareholders meeting whose voting
	// has the given voters.
	expectTabulation := func(m *votingMocks, voters ...*models.Voter) {
		m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeFMS), nil)
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(testVoting(), nil)
		for _, voter := range voters {
			m.voterRepo.On("Get", mock.Anything, voter.UID).Return(voter, nil)
		}
	}

	t.Run("counts ballots without modifying voters", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		voter := testVoter("voter-1", "entry-1")
		expectTabulation(m, voter)
		expectShare(m, "entry-1", 60)
		m.votingRepo.On("GetByTopicWithRevision", mock.Anything, "topic-1").Return(testVoting(), uint64(7), nil)
		expectOutcome(m, true)
		m.voterRepo.On("ListByVoting", mock.Anything, "voting-1").Return([]*models.Voter{voter}, nil)
		m.builder.On("SendVotingTabulated", mock.Anything, mock.Anything).Return(nil)

		view, err := service.Tabulate(ctx, "topic-1", []*models.Ballot{{VoterUID: "voter-1", Vote: yes}})
		require.NoError(t, err)
		assert.True(t, view.Accepted)
		m.voterRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("voter of another company's voting is rejected", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		stranger := testVoter("voter-9", "entry-9")
		stranger.VotingUID = "voting-other"
		stranger.TopicUID = "topic-other"
		expectTabulation(m, stranger)
		expectShare(m, "entry-9", 90)

		view, err := service.Tabulate(ctx, "topic-1", []*models.Ballot{{VoterUID: "voter-9", Vote: yes}})
		assert.Nil(t, view)
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		assert.Contains(t, err.Error(), "does not belong to voting voting-1")
		m.votingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
		m.votingRepo.AssertNotCalled(t, "GetByTopicWithRevision", mock.Anything, mock.Anything)
	})

	t.Run("voting not found", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeFMS), nil)
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(nil, votingNotFound())

		_, err := service.Tabulate(ctx, "topic-1", []*models.Ballot{{VoterUID: "voter-1", Vote: yes}})
		assert.ErrorIs(t, err, domain.ErrVotingNotFound)
		assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
		m.voterRepo.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("voter whose roster entry was removed", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		expectTabulation(m, testVoter("voter-1", "entry-1"))
		m.meetingParticipantRepo.On("Get", mock.Anything, "entry-1").Return(nil, rosterEntryNotFound())

		_, err := service.Tabulate(ctx, "topic-1", []*models.Ballot{{VoterUID: "voter-1", Vote: yes}})
		assert.Equal(t, domain.ErrorTypeConflict, domain.GetErrorType(err))
		m.votingRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVotingService_DeleteVotingForTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes voters then voting", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(testVoting(), nil)
		m.voterRepo.On("DeleteByVoting", mock.Anything, "voting-1").Return(nil)
		m.votingRepo.On("DeleteByTopic", mock.Anything, "topic-1").Return(nil)
		m.builder.On("SendVotingDeleted", mock.Anything, mock.MatchedBy(func(e models.VotingEventMessage) bool {
			return e.VotingUID == "voting-1" && e.TopicUID == "topic-1"
		})).Return(nil)

		require.NoError(t, service.DeleteVotingForTopic(ctx, "topic-1"))
		m.voterRepo.AssertExpectations(t)
		m.votingRepo.AssertExpectations(t)
		m.builder.AssertExpectations(t)
	})

	t.Run("absent voting", func(t *testing.T) {
		service, m := setupVotingServiceForTesting()
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(nil, votingNotFound())

		err := service.DeleteVotingForTopic(ctx, "topic-1")
		assert.ErrorIs(t, err, domain.ErrVotingNotFound)
		m.voterRepo.AssertNotCalled(t, "DeleteByVoting", mock.Anything, mock.Anything)
	})
}

func TestVotingService_ExtendVotingsForMeeting(t *testing.T) {
	service, m := setupVotingServiceForTesting()
	openTopic := testTopic()
	draftTopic := &models.Topic{UID: "topic-2", MeetingUID: "meeting-1", Title: "Elect auditor"}

	m.topicRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return([]*models.Topic{openTopic, draftTopic}, nil)
	m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(testVoting(), nil)
	m.votingRepo.On("GetByTopic", mock.Anything, "topic-2").Return(nil, votingNotFound())
	m.topicRepo.On("Get", mock.Anything, "topic-1").Return(openTopic, nil)
	m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeFMS), nil)
	m.voterRepo.On("ListByVoting", mock.Anything, "voting-1").Return([]*models.Voter{testVoter("voter-1", "entry-1")}, nil)
	m.meetingParticipantRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return(rosterEntries("entry-1", "entry-2"), nil)
	m.voterRepo.On("Create", mock.Anything, mock.MatchedBy(func(v *models.Voter) bool {
		return v.RosterEntryUID == "entry-2" && v.VotingUID == "voting-1"
	})).Return(nil)

	require.NoError(t, service.ExtendVotingsForMeeting(context.Background(), "meeting-1"))
	m.voterRepo.AssertNumberOfCalls(t, "Create", 1)
}
