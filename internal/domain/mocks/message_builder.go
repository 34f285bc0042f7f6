// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

// MockMessageBuilder implements MessageBuilder for testing
type MockMessageBuilder struct {
	mock.Mock
}

func (m *MockMessageBuilder) SendVotingCreated(ctx context.Context, data models.VotingEventMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendVotingTabulated(ctx context.Context, data models.VotingEventMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendVotingDeleted(ctx context.Context, data models.VotingEventMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockMessageBuilder) SendRosterParticipantAdded(ctx context.Context, data models.RosterEventMessage) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

// MockTopicLocker implements TopicLocker for testing
type MockTopicLocker struct {
	mock.Mock
}

func (m *MockTopicLocker) Lock(ctx context.Context, topicUID string) (func(), error) {
	args := m.Called(ctx, topicUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func()), args.Error(1)
}
