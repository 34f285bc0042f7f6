// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/pkg/utils"
)

// MeetingService is the meeting registry of a company.
type MeetingService struct {
	MeetingRepository            domain.MeetingRepository
	MeetingParticipantRepository domain.MeetingParticipantRepository
	TopicRepository              domain.TopicRepository
	TopicService                 *TopicService
}

// NewMeetingService creates a new MeetingService.
func NewMeetingService(
	meetingRepository domain.MeetingRepository,
	meetingParticipantRepository domain.MeetingParticipantRepository,
	topicRepository domain.TopicRepository,
	topicService *TopicService,
) *MeetingService {
	return &MeetingService{
		MeetingRepository:            meetingRepository,
		MeetingParticipantRepository: meetingParticipantRepository,
		TopicRepository:              topicRepository,
		TopicService:                 topicService,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *MeetingService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.MeetingParticipantRepository != nil &&
		s.TopicRepository != nil &&
		s.TopicService != nil
}

func validateMeeting(meeting *models.Meeting) error {
	if meeting == nil || meeting.CompanyUID == "" {
		return domain.NewValidationError("meeting and company UID are required")
	}
	if _, err := models.ParseMeetingType(string(meeting.Type)); err != nil {
		return domain.NewInvalidEnumError("invalid meeting type: "+string(meeting.Type), err)
	}
	if meeting.Date.IsZero() {
		return domain.NewValidationError("meeting date is required")
	}
	// An empty officer UID means the officer is not appointed yet.
	if utils.StringValue(meeting.ChairmanUID) == "" {
		meeting.ChairmanUID = nil
	}
	if utils.StringValue(meeting.SecretaryUID) == "" {
		meeting.SecretaryUID = nil
	}
	return nil
}

// CreateMeeting stores a new meeting.
func (s *MeetingService) CreateMeeting(ctx context.Context, meeting *models.Meeting) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if err := validateMeeting(meeting); err != nil {
		slog.WarnContext(ctx, "invalid meeting", logging.ErrKey, err)
		return nil, err
	}

	now := time.Now().UTC()
	meeting.UID = uuid.New().String()
	meeting.CreatedAt = utils.TimePtr(now)
	meeting.UpdatedAt = utils.TimePtr(now)

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meeting.UID))

	if err := s.MeetingRepository.Create(ctx, meeting); err != nil {
		slog.ErrorContext(ctx, "error creating meeting", logging.ErrKey, err)
		return nil, err
	}

	slog.DebugContext(ctx, "created meeting", "meeting_type", meeting.Type)

	return meeting, nil
}

// GetMeeting returns a single meeting.
func (s *MeetingService) GetMeeting(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if meetingUID == "" {
		return nil, domain.NewValidationError("meeting UID is required")
	}

	return s.MeetingRepository.Get(ctx, meetingUID)
}

// ListMeetings returns the meetings of a company.
func (s *MeetingService) ListMeetings(ctx context.Context, companyUID string) ([]*models.Meeting, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if companyUID == "" {
		return nil, domain.NewValidationError("company UID is required")
	}

	return s.MeetingRepository.ListByCompany(ctx, companyUID)
}

// DeleteMeeting removes a meeting with its topics, votings and roster.
func (s *MeetingService) DeleteMeeting(ctx context.Context, meetingUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	if meetingUID == "" {
		return domain.NewValidationError("meeting UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	if _, err := s.MeetingRepository.Get(ctx, meetingUID); err != nil {
		slog.WarnContext(ctx, "error getting meeting", logging.ErrKey, err)
		return err
	}

	topics, err := s.TopicRepository.ListByMeeting(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing topics", logging.ErrKey, err)
		return err
	}
	for _, topic := range topics {
		if err := s.TopicService.DeleteTopic(ctx, topic.UID); err != nil {
			return err
		}
	}

	entries, err := s.MeetingParticipantRepository.ListByMeeting(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing roster", logging.ErrKey, err)
		return err
	}
	for _, entry := range entries {
		if err := s.MeetingParticipantRepository.Delete(ctx, entry.UID); err != nil {
			slog.ErrorContext(ctx, "error deleting roster entry", logging.ErrKey, err, "roster_entry_uid", entry.UID)
			return err
		}
	}

	if err := s.MeetingRepository.Delete(ctx, meetingUID); err != nil {
		slog.ErrorContext(ctx, "error deleting meeting", logging.ErrKey, err)
		return err
	}

	slog.DebugContext(ctx, "deleted meeting", "topics", len(topics), "roster_entries", len(entries))

	return nil
}
