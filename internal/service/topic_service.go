// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/pkg/utils"
)

// TopicService manages the agenda topics of a meeting. Creating a topic opens
// its voting; deleting it removes the voting.
type TopicService struct {
	MeetingRepository domain.MeetingRepository
	TopicRepository   domain.TopicRepository
	VotingService     *VotingService
}

// NewTopicService creates a new TopicService.
func NewTopicService(
	meetingRepository domain.MeetingRepository,
	topicRepository domain.TopicRepository,
	votingService *VotingService,
) *TopicService {
	return &TopicService{
		MeetingRepository: meetingRepository,
		TopicRepository:   topicRepository,
		VotingService:     votingService,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *TopicService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.TopicRepository != nil &&
		s.VotingService != nil &&
		s.VotingService.ServiceReady()
}

// CreateTopic stores a new topic and creates its voting with a voter for
// every current roster entry.
func (s *TopicService) CreateTopic(ctx context.Context, topic *models.Topic) (*models.Topic, *models.VotingView, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, nil, domain.NewUnavailableError("service not initialized")
	}

	if topic == nil || topic.MeetingUID == "" {
		slog.WarnContext(ctx, "topic and meeting UID are required")
		return nil, nil, domain.NewValidationError("topic and meeting UID are required")
	}
	topic.Title = strings.TrimSpace(topic.Title)
	if topic.Title == "" {
		slog.WarnContext(ctx, "topic title is required")
		return nil, nil, domain.NewValidationError("topic title is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", topic.MeetingUID))

	if _, err := s.MeetingRepository.Get(ctx, topic.MeetingUID); err != nil {
		slog.WarnContext(ctx, "error getting meeting", logging.ErrKey, err)
		return nil, nil, err
	}

	topic.UID = uuid.New().String()
	topic.CreatedAt = utils.TimePtr(time.Now().UTC())

	ctx = logging.AppendCtx(ctx, slog.String("topic_uid", topic.UID))

	if err := s.TopicRepository.Create(ctx, topic); err != nil {
		slog.ErrorContext(ctx, "error creating topic", logging.ErrKey, err)
		return nil, nil, err
	}

	voting, err := s.VotingService.CreateVotingForTopic(ctx, topic.UID)
	if err != nil {
		slog.ErrorContext(ctx, "error creating voting for topic", logging.ErrKey, err)
		return nil, nil, err
	}

	slog.DebugContext(ctx, "created topic", "voters", len(voting.VoterUIDs))

	return topic, voting, nil
}

// GetTopic returns a single topic.
func (s *TopicService) GetTopic(ctx context.Context, topicUID string) (*models.Topic, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if topicUID == "" {
		return nil, domain.NewValidationError("topic UID is required")
	}

	return s.TopicRepository.Get(ctx, topicUID)
}

// ListTopics returns the topics of a meeting.
func (s *TopicService) ListTopics(ctx context.Context, meetingUID string) ([]*models.Topic, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if meetingUID == "" {
		return nil, domain.NewValidationError("meeting UID is required")
	}

	if _, err := s.MeetingRepository.Get(ctx, meetingUID); err != nil {
		slog.WarnContext(ctx, "error getting meeting", logging.ErrKey, err, "meeting_uid", meetingUID)
		return nil, err
	}

	return s.TopicRepository.ListByMeeting(ctx, meetingUID)
}

// DeleteTopic removes a topic together with its voting and voters.
func (s *TopicService) DeleteTopic(ctx context.Context, topicUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	if topicUID == "" {
		return domain.NewValidationError("topic UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("topic_uid", topicUID))

	if _, err := s.TopicRepository.Get(ctx, topicUID); err != nil {
		slog.WarnContext(ctx, "error getting topic", logging.ErrKey, err)
		return err
	}

	err := s.VotingService.DeleteVotingForTopic(ctx, topicUID)
	if err != nil && domain.GetErrorType(err) != domain.ErrorTypeNotFound {
		slog.ErrorContext(ctx, "error deleting voting of topic", logging.ErrKey, err)
		return err
	}

	if err := s.TopicRepository.Delete(ctx, topicUID); err != nil {
		slog.ErrorContext(ctx, "error deleting topic", logging.ErrKey, err)
		return err
	}

	slog.DebugContext(ctx, "deleted topic")

	return nil
}
