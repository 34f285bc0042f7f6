// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/pkg/utils"
)

// ParticipantService is the participant directory of a company.
type ParticipantService struct {
	ParticipantRepository        domain.ParticipantRepository
	MeetingParticipantRepository domain.MeetingParticipantRepository
}

// NewParticipantService creates a new ParticipantService.
func NewParticipantService(
	participantRepository domain.ParticipantRepository,
	meetingParticipantRepository domain.MeetingParticipantRepository,
) *ParticipantService {
	return &ParticipantService{
		ParticipantRepository:        participantRepository,
		MeetingParticipantRepository: meetingParticipantRepository,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *ParticipantService) ServiceReady() bool {
	return s.ParticipantRepository != nil && s.MeetingParticipantRepository != nil
}

func validateParticipant(participant *models.Participant) error {
	if participant == nil || participant.CompanyUID == "" {
		return domain.NewValidationError("participant and company UID are required")
	}
	if participant.Name == "" {
		return domain.NewValidationError("participant name is required")
	}
	if participant.Share < 0 || participant.Share > 100 {
		return domain.NewValidationError("participant share must be between 0 and 100")
	}
	if _, err := models.ParseParticipantType(string(participant.Type)); err != nil {
		return domain.NewInvalidEnumError("invalid participant type: "+string(participant.Type), err)
	}
	return nil
}

// CreateParticipant stores a new participant.
func (s *ParticipantService) CreateParticipant(ctx context.Context, participant *models.Participant) (*models.Participant, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if participant != nil {
		participant.Name = strings.TrimSpace(participant.Name)
	}
	if err := validateParticipant(participant); err != nil {
		slog.WarnContext(ctx, "invalid participant", logging.ErrKey, err)
		return nil, err
	}

	now := time.Now().UTC()
	participant.UID = uuid.New().String()
	participant.CreatedAt = utils.TimePtr(now)
	participant.UpdatedAt = utils.TimePtr(now)

	ctx = logging.AppendCtx(ctx, slog.String("participant_uid", participant.UID))

	if err := s.ParticipantRepository.Create(ctx, participant); err != nil {
		slog.ErrorContext(ctx, "error creating participant", logging.ErrKey, err)
		return nil, err
	}

	slog.DebugContext(ctx, "created participant", "participant_type", participant.Type)

	return participant, nil
}

// GetParticipant returns a single participant.
func (s *ParticipantService) GetParticipant(ctx context.Context, participantUID string) (*models.Participant, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if participantUID == "" {
		return nil, domain.NewValidationError("participant UID is required")
	}

	return s.ParticipantRepository.Get(ctx, participantUID)
}

// ListParticipants returns the participants of a company.
func (s *ParticipantService) ListParticipants(ctx context.Context, companyUID string) ([]*models.Participant, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if companyUID == "" {
		return nil, domain.NewValidationError("company UID is required")
	}

	return s.ParticipantRepository.ListByCompany(ctx, companyUID)
}

// DeleteParticipant removes a participant from the directory. A participant
// still on a meeting roster cannot be deleted.
func (s *ParticipantService) DeleteParticipant(ctx context.Context, participantUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	if participantUID == "" {
		return domain.NewValidationError("participant UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("participant_uid", participantUID))

	entries, err := s.MeetingParticipantRepository.ListByParticipant(ctx, participantUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing roster entries of participant", logging.ErrKey, err)
		return err
	}
	if len(entries) > 0 {
		slog.WarnContext(ctx, "participant is still on a meeting roster", "roster_entries", len(entries))
		return domain.NewConflictError(fmt.Sprintf(
			"participant %s is on the roster of %d meeting(s); remove the roster entries first",
			participantUID, len(entries)))
	}

	return s.ParticipantRepository.Delete(ctx, participantUID)
}
