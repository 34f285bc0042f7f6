// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

// MockVotingRepository implements VotingRepository for testing
type MockVotingRepository struct {
	mock.Mock
}

func (m *MockVotingRepository) Create(ctx context.Context, voting *models.Voting) error {
	args := m.Called(ctx, voting)
	return args.Error(0)
}

func (m *MockVotingRepository) GetByTopic(ctx context.Context, topicUID string) (*models.Voting, error) {
	args := m.Called(ctx, topicUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Voting), args.Error(1)
}

func (m *MockVotingRepository) GetByTopicWithRevision(ctx context.Context, topicUID string) (*models.Voting, uint64, error) {
	args := m.Called(ctx, topicUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Voting), args.Get(1).(uint64), args.Error(2)
}

func (m *MockVotingRepository) Update(ctx context.Context, voting *models.Voting, revision uint64) error {
	args := m.Called(ctx, voting, revision)
	return args.Error(0)
}

func (m *MockVotingRepository) DeleteByTopic(ctx context.Context, topicUID string) error {
	args := m.Called(ctx, topicUID)
	return args.Error(0)
}

// MockVoterRepository implements VoterRepository for testing
type MockVoterRepository struct {
	mock.Mock
}

func (m *MockVoterRepository) Create(ctx context.Context, voter *models.Voter) error {
	args := m.Called(ctx, voter)
	return args.Error(0)
}

func (m *MockVoterRepository) Get(ctx context.Context, voterUID string) (*models.Voter, error) {
	args := m.Called(ctx, voterUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Voter), args.Error(1)
}

func (m *MockVoterRepository) GetWithRevision(ctx context.Context, voterUID string) (*models.Voter, uint64, error) {
	args := m.Called(ctx, voterUID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(uint64), args.Error(2)
	}
	return args.Get(0).(*models.Voter), args.Get(1).(uint64), args.Error(2)
}

func (m *MockVoterRepository) Update(ctx context.Context, voter *models.Voter, revision uint64) error {
	args := m.Called(ctx, voter, revision)
	return args.Error(0)
}

func (m *MockVoterRepository) ListByVoting(ctx context.Context, votingUID string) ([]*models.Voter, error) {
	args := m.Called(ctx, votingUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Voter), args.Error(1)
}

func (m *MockVoterRepository) ListByTopic(ctx context.Context, topicUID string) ([]*models.Voter, error) {
	args := m.Called(ctx, topicUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Voter), args.Error(1)
}

func (m *MockVoterRepository) DeleteByVoting(ctx context.Context, votingUID string) error {
	args := m.Called(ctx, votingUID)
	return args.Error(0)
}
