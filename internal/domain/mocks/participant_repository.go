// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

// MockParticipantRepository implements ParticipantRepository for testing
type MockParticipantRepository struct {
	mock.Mock
}

func (m *MockParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	args := m.Called(ctx, participant)
	return args.Error(0)
}

func (m *MockParticipantRepository) Get(ctx context.Context, participantUID string) (*models.Participant, error) {
	args := m.Called(ctx, participantUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) ListByCompany(ctx context.Context, companyUID string) ([]*models.Participant, error) {
	args := m.Called(ctx, companyUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Participant), args.Error(1)
}

func (m *MockParticipantRepository) Delete(ctx context.Context, participantUID string) error {
	args := m.Called(ctx, participantUID)
	return args.Error(0)
}

// MockMeetingRepository implements MeetingRepository for testing
type MockMeetingRepository struct {
	mock.Mock
}

func (m *MockMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	args := m.Called(ctx, meeting)
	return args.Error(0)
}

func (m *MockMeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) ListByCompany(ctx context.Context, companyUID string) ([]*models.Meeting, error) {
	args := m.Called(ctx, companyUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meeting), args.Error(1)
}

func (m *MockMeetingRepository) Delete(ctx context.Context, meetingUID string) error {
	args := m.Called(ctx, meetingUID)
	return args.Error(0)
}

// MockTopicRepository implements TopicRepository for testing
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	args := m.Called(ctx, topic)
	return args.Error(0)
}

func (m *MockTopicRepository) Get(ctx context.Context, topicUID string) (*models.Topic, error) {
	args := m.Called(ctx, topicUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Topic), args.Error(1)
}

func (m *MockTopicRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.Topic, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Topic), args.Error(1)
}

func (m *MockTopicRepository) Delete(ctx context.Context, topicUID string) error {
	args := m.Called(ctx, topicUID)
	return args.Error(0)
}
