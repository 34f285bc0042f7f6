// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

// MockMeetingParticipantRepository implements MeetingParticipantRepository for testing
type MockMeetingParticipantRepository struct {
	mock.Mock
}

func (m *MockMeetingParticipantRepository) Create(ctx context.Context, entry *models.MeetingParticipant) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockMeetingParticipantRepository) Get(ctx context.Context, entryUID string) (*models.MeetingParticipant, error) {
	args := m.Called(ctx, entryUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MeetingParticipant), args.Error(1)
}

func (m *MockMeetingParticipantRepository) GetWithRevision(ctx context.Context, entryUID string) (*models.MeetingParticipant, uint64, error) {
	args := m.Called(ctx, entryUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.MeetingParticipant), args.Get(1).(uint64), args.Error(2)
}

func (m *MockMeetingParticipantRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.MeetingParticipant, error) {
	args := m.Called(ctx, meetingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MeetingParticipant), args.Error(1)
}

func (m *MockMeetingParticipantRepository) ListByParticipant(ctx context.Context, participantUID string) ([]*models.MeetingParticipant, error) {
	args := m.Called(ctx, participantUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MeetingParticipant), args.Error(1)
}

func (m *MockMeetingParticipantRepository) Update(ctx context.Context, entry *models.MeetingParticipant, revision uint64) error {
	args := m.Called(ctx, entry, revision)
	return args.Error(0)
}

func (m *MockMeetingParticipantRepository) Delete(ctx context.Context, entryUID string) error {
	args := m.Called(ctx, entryUID)
	return args.Error(0)
}
