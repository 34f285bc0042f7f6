// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/pkg/utils"
)

// RosterService manages which participants attend a meeting.
type RosterService struct {
	MeetingRepository            domain.MeetingRepository
	ParticipantRepository        domain.ParticipantRepository
	MeetingParticipantRepository domain.MeetingParticipantRepository
	VotingService                *VotingService
	MessageBuilder               domain.RosterEventSender
}

// NewRosterService creates a new RosterService.
func NewRosterService(
	meetingRepository domain.MeetingRepository,
	participantRepository domain.ParticipantRepository,
	meetingParticipantRepository domain.MeetingParticipantRepository,
	votingService *VotingService,
	messageBuilder domain.RosterEventSender,
) *RosterService {
	return &RosterService{
		MeetingRepository:            meetingRepository,
		ParticipantRepository:        participantRepository,
		MeetingParticipantRepository: meetingParticipantRepository,
		VotingService:                votingService,
		MessageBuilder:               messageBuilder,
	}
}

// ServiceReady checks if the service is ready for use.
func (s *RosterService) ServiceReady() bool {
	return s.MeetingRepository != nil &&
		s.ParticipantRepository != nil &&
		s.MeetingParticipantRepository != nil &&
		s.VotingService != nil &&
		s.VotingService.ServiceReady() &&
		s.MessageBuilder != nil
}

// AddParticipant puts a participant on a meeting roster and extends every
// existing voting of the meeting with a voter for it. The participant must
// be active, belong to the meeting's company and be eligible for the meeting
// type.
func (s *RosterService) AddParticipant(ctx context.Context, meetingUID, participantUID string) (*models.MeetingParticipant, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if meetingUID == "" || participantUID == "" {
		slog.WarnContext(ctx, "meeting UID and participant UID are required")
		return nil, domain.NewValidationError("meeting UID and participant UID are required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))
	ctx = logging.AppendCtx(ctx, slog.String("participant_uid", participantUID))

	meeting, err := s.MeetingRepository.Get(ctx, meetingUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting meeting", logging.ErrKey, err)
		return nil, err
	}

	participant, err := s.ParticipantRepository.Get(ctx, participantUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting participant", logging.ErrKey, err)
		return nil, err
	}

	if participant.CompanyUID != meeting.CompanyUID {
		slog.WarnContext(ctx, "participant belongs to another company",
			"participant_company_uid", participant.CompanyUID,
			"meeting_company_uid", meeting.CompanyUID)
		return nil, domain.NewValidationError("participant belongs to another company")
	}
	if !participant.Active {
		slog.WarnContext(ctx, "participant is not active")
		return nil, domain.NewValidationError("participant is not active")
	}
	if !participant.Type.EligibleFor(meeting.Type) {
		slog.WarnContext(ctx, "participant type is not eligible for meeting type",
			"participant_type", participant.Type,
			"meeting_type", meeting.Type)
		return nil, domain.NewValidationError(fmt.Sprintf("participant of type %s cannot join a %s meeting", participant.Type, meeting.Type))
	}

	now := time.Now().UTC()
	entry := &models.MeetingParticipant{
		UID:            uuid.New().String(),
		MeetingUID:     meetingUID,
		ParticipantUID: participantUID,
		CreatedAt:      utils.TimePtr(now),
		UpdatedAt:      utils.TimePtr(now),
	}

	if err := s.MeetingParticipantRepository.Create(ctx, entry); err != nil {
		slog.WarnContext(ctx, "error creating roster entry", logging.ErrKey, err)
		return nil, err
	}

	ctx = logging.AppendCtx(ctx, slog.String("roster_entry_uid", entry.UID))
	slog.DebugContext(ctx, "added participant to meeting roster")

	if err := s.VotingService.ExtendVotingsForMeeting(ctx, meetingUID); err != nil {
		slog.ErrorContext(ctx, "error extending votings with new roster entry", logging.ErrKey, err)
		return nil, err
	}

	if err := s.MessageBuilder.SendRosterParticipantAdded(ctx, models.RosterEventMessage{
		MeetingUID:     meetingUID,
		RosterEntryUID: entry.UID,
		ParticipantUID: participantUID,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to send roster event", logging.ErrKey, err)
	}

	return entry, nil
}

// ListRoster returns the roster of a meeting joined with participant data.
func (s *RosterService) ListRoster(ctx context.Context, meetingUID string) ([]*models.RosterEntry, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if meetingUID == "" {
		return nil, domain.NewValidationError("meeting UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	if _, err := s.MeetingRepository.Get(ctx, meetingUID); err != nil {
		slog.WarnContext(ctx, "error getting meeting", logging.ErrKey, err)
		return nil, err
	}

	entries, err := s.MeetingParticipantRepository.ListByMeeting(ctx, meetingUID)
	if err != nil {
		slog.ErrorContext(ctx, "error listing roster", logging.ErrKey, err)
		return nil, err
	}

	roster := make([]*models.RosterEntry, 0, len(entries))
	for _, entry := range entries {
		participant, err := s.ParticipantRepository.Get(ctx, entry.ParticipantUID)
		if err != nil {
			slog.WarnContext(ctx, "error getting roster participant", logging.ErrKey, err, "participant_uid", entry.ParticipantUID)
			return nil, err
		}
		roster = append(roster, &models.RosterEntry{
			UID:               entry.UID,
			ParticipantUID:    participant.UID,
			ParticipantShare:  participant.Share,
			ParticipantActive: participant.Active,
			Attended:          entry.Attended,
		})
	}

	return roster, nil
}

// SetAttendance records whether a roster entry attended the meeting.
func (s *RosterService) SetAttendance(ctx context.Context, entryUID string, attended bool) (*models.MeetingParticipant, error) {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return nil, domain.NewUnavailableError("service not initialized")
	}

	if entryUID == "" {
		return nil, domain.NewValidationError("roster entry UID is required")
	}

	ctx = logging.AppendCtx(ctx, slog.String("roster_entry_uid", entryUID))

	entry, revision, err := s.MeetingParticipantRepository.GetWithRevision(ctx, entryUID)
	if err != nil {
		slog.WarnContext(ctx, "error getting roster entry", logging.ErrKey, err)
		return nil, err
	}

	entry.Attended = attended
	entry.UpdatedAt = utils.TimePtr(time.Now().UTC())

	if err := s.MeetingParticipantRepository.Update(ctx, entry, revision); err != nil {
		slog.ErrorContext(ctx, "error updating roster entry", logging.ErrKey, err)
		return nil, err
	}

	return entry, nil
}

// RemoveParticipant removes a roster entry. Voters created for it are kept
// but their ballots are refused.
func (s *RosterService) RemoveParticipant(ctx context.Context, entryUID string) error {
	if !s.ServiceReady() {
		slog.ErrorContext(ctx, "service not initialized", logging.PriorityCritical())
		return domain.NewUnavailableError("service not initialized")
	}

	if entryUID == "" {
		return domain.NewValidationError("roster entry UID is required")
	}

	if err := s.MeetingParticipantRepository.Delete(ctx, entryUID); err != nil {
		slog.WarnContext(ctx, "error deleting roster entry", logging.ErrKey, err, "roster_entry_uid", entryUID)
		return err
	}

	return nil
}
