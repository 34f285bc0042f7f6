// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package sqlstore

import (
	"context"
	"fmt"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MeetingParticipantRepository stores meeting rosters in SQL. The
// (meeting, participant) pair is a unique index.
type MeetingParticipantRepository struct {
	db *gorm.DB
}

// Create adds a participant to a meeting roster
func (r *MeetingParticipantRepository) Create(ctx context.Context, entry *models.MeetingParticipant) error {
	if entry.UID == "" {
		entry.UID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Create(newMeetingParticipantRow(entry)).Error
	if err != nil && isDuplicate(err) {
		return domain.NewConflictError(
			fmt.Sprintf("participant '%s' is already on the roster of meeting '%s'", entry.ParticipantUID, entry.MeetingUID),
			domain.ErrAlreadyExists)
	}
	return translate(err, "meeting participant", domain.ErrRosterEntryNotFound)
}

// Get retrieves a roster entry by UID
func (r *MeetingParticipantRepository) Get(ctx context.Context, entryUID string) (*models.MeetingParticipant, error) {
	entry, _, err := r.GetWithRevision(ctx, entryUID)
	return entry, err
}

// GetWithRevision retrieves a roster entry and its version by UID
func (r *MeetingParticipantRepository) GetWithRevision(ctx context.Context, entryUID string) (*models.MeetingParticipant, uint64, error) {
	var row meetingParticipantRow
	if err := r.db.WithContext(ctx).Where("uid = ?", entryUID).Take(&row).Error; err != nil {
		return nil, 0, translate(err, fmt.Sprintf("meeting participant '%s'", entryUID), domain.ErrRosterEntryNotFound)
	}
	return row.model(), row.Version, nil
}

// ListByMeeting retrieves the roster of a meeting
func (r *MeetingParticipantRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.MeetingParticipant, error) {
	var rows []meetingParticipantRow
	if err := r.db.WithContext(ctx).Where("meeting_uid = ?", meetingUID).Order("created_at, uid").Find(&rows).Error; err != nil {
		return nil, translate(err, "meeting participant", domain.ErrRosterEntryNotFound)
	}
	entries := make([]*models.MeetingParticipant, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].model())
	}
	return entries, nil
}

// ListByParticipant retrieves the roster entries of a participant across meetings
func (r *MeetingParticipantRepository) ListByParticipant(ctx context.Context, participantUID string) ([]*models.MeetingParticipant, error) {
	var rows []meetingParticipantRow
	if err := r.db.WithContext(ctx).Where("participant_uid = ?", participantUID).Order("created_at, uid").Find(&rows).Error; err != nil {
		return nil, translate(err, "meeting participant", domain.ErrRosterEntryNotFound)
	}
	entries := make([]*models.MeetingParticipant, 0, len(rows))
	for i := range rows {
		entries = append(entries, rows[i].model())
	}
	return entries, nil
}

// Update stores attendance when revision still matches
func (r *MeetingParticipantRepository) Update(ctx context.Context, entry *models.MeetingParticipant, revision uint64) error {
	return updateVersioned(r.db.WithContext(ctx), &meetingParticipantRow{}, entry.UID, revision, map[string]any{
		"attended":   entry.Attended,
		"updated_at": entry.UpdatedAt,
	}, "meeting participant", domain.ErrRosterEntryNotFound)
}

// Delete removes a roster entry
func (r *MeetingParticipantRepository) Delete(ctx context.Context, entryUID string) error {
	return deleteByUID(ctx, r.db, &meetingParticipantRow{}, entryUID, "meeting participant", domain.ErrRosterEntryNotFound)
}
