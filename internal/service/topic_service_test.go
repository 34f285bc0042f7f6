// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

func setupTopicServiceForTesting() (*TopicService, *votingMocks) {
	votingService, m := setupVotingServiceForTesting()
	return NewTopicService(m.meetingRepo, m.topicRepo, votingService), m
}

func TestTopicService_CreateTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("creates topic and opens its voting", func(t *testing.T) {
		service, m := setupTopicServiceForTesting()
		var created *models.Topic
		m.meetingRepo.On("Get", mock.Anything, "meeting-1").Return(testMeeting(models.MeetingTypeBOD), nil)
		m.topicRepo.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			created = args.Get(1).(*models.Topic)
			m.topicRepo.On("Get", mock.Anything, created.UID).Return(created, nil)
		}).Return(nil)
		m.votingRepo.On("GetByTopic", mock.Anything, mock.Anything).Return(nil, votingNotFound())
		m.votingRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.voterRepo.On("ListByVoting", mock.Anything, mock.Anything).Return([]*models.Voter{}, nil)
		m.meetingParticipantRepo.On("ListByMeeting", mock.Anything, "meeting-1").Return(rosterEntries("entry-1", "entry-2", "entry-3"), nil)
		m.voterRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
		m.builder.On("SendVotingCreated", mock.Anything, mock.Anything).Return(nil)

		topic, voting, err := service.CreateTopic(ctx, &models.Topic{MeetingUID: "meeting-1", Title: "  Approve budget "})
		require.NoError(t, err)
		assert.NotEmpty(t, topic.UID)
		assert.Equal(t, "Approve budget", topic.Title)
		assert.Equal(t, topic.UID, voting.TopicUID)
		assert.Len(t, voting.VoterUIDs, 3)
		assert.Same(t, created, topic)
	})

	t.Run("title is required", func(t *testing.T) {
		service, _ := setupTopicServiceForTesting()
		_, _, err := service.CreateTopic(ctx, &models.Topic{MeetingUID: "meeting-1", Title: " "})
		assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
	})

	t.Run("meeting must exist", func(t *testing.T) {
		service, m := setupTopicServiceForTesting()
		m.meetingRepo.On("Get", mock.Anything, "meeting-404").Return(nil, domain.NewNotFoundError("meeting not found", domain.ErrMeetingNotFound))

		_, _, err := service.CreateTopic(ctx, &models.Topic{MeetingUID: "meeting-404", Title: "x"})
		assert.ErrorIs(t, err, domain.ErrMeetingNotFound)
		m.topicRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTopicService_DeleteTopic(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to the voting", func(t *testing.T) {
		service, m := setupTopicServiceForTesting()
		m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(testVoting(), nil)
		m.voterRepo.On("DeleteByVoting", mock.Anything, "voting-1").Return(nil)
		m.votingRepo.On("DeleteByTopic", mock.Anything, "topic-1").Return(nil)
		m.builder.On("SendVotingDeleted", mock.Anything, mock.Anything).Return(nil)
		m.topicRepo.On("Delete", mock.Anything, "topic-1").Return(nil)

		require.NoError(t, service.DeleteTopic(ctx, "topic-1"))
		m.voterRepo.AssertExpectations(t)
		m.topicRepo.AssertExpectations(t)
	})

	t.Run("topic without voting is still deleted", func(t *testing.T) {
		service, m := setupTopicServiceForTesting()
		m.topicRepo.On("Get", mock.Anything, "topic-1").Return(testTopic(), nil)
		m.votingRepo.On("GetByTopic", mock.Anything, "topic-1").Return(nil, votingNotFound())
		m.topicRepo.On("Delete", mock.Anything, "topic-1").Return(nil)

		require.NoError(t, service.DeleteTopic(ctx, "topic-1"))
		m.topicRepo.AssertCalled(t, "Delete", mock.Anything, "topic-1")
	})
}
