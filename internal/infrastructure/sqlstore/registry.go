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

// ParticipantRepository stores company participants in SQL.
type ParticipantRepository struct {
	db *gorm.DB
}

// Create inserts a participant
func (r *ParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant.UID == "" {
		participant.UID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(newParticipantRow(participant)).Error, "participant", domain.ErrParticipantNotFound)
}

// Get retrieves a participant by UID
func (r *ParticipantRepository) Get(ctx context.Context, participantUID string) (*models.Participant, error) {
	var row participantRow
	if err := r.db.WithContext(ctx).Where("uid = ?", participantUID).Take(&row).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("participant '%s'", participantUID), domain.ErrParticipantNotFound)
	}
	return row.model(), nil
}

// ListByCompany retrieves all participants of a company
func (r *ParticipantRepository) ListByCompany(ctx context.Context, companyUID string) ([]*models.Participant, error) {
	var rows []participantRow
	if err := r.db.WithContext(ctx).Where("company_uid = ?", companyUID).Order("name").Find(&rows).Error; err != nil {
		return nil, translate(err, "participant", domain.ErrParticipantNotFound)
	}
	participants := make([]*models.Participant, 0, len(rows))
	for i := range rows {
		participants = append(participants, rows[i].model())
	}
	return participants, nil
}

// Delete removes a participant
func (r *ParticipantRepository) Delete(ctx context.Context, participantUID string) error {
	return deleteByUID(ctx, r.db, &participantRow{}, participantUID, "participant", domain.ErrParticipantNotFound)
}

// MeetingRepository stores meetings in SQL.
type MeetingRepository struct {
	db *gorm.DB
}

// Create inserts a meeting
func (r *MeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	if meeting.UID == "" {
		meeting.UID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(newMeetingRow(meeting)).Error, "meeting", domain.ErrMeetingNotFound)
}

// Get retrieves a meeting by UID
func (r *MeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	var row meetingRow
	if err := r.db.WithContext(ctx).Where("uid = ?", meetingUID).Take(&row).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("meeting '%s'", meetingUID), domain.ErrMeetingNotFound)
	}
	return row.model(), nil
}

// ListByCompany retrieves all meetings of a company, most recent first
func (r *MeetingRepository) ListByCompany(ctx context.Context, companyUID string) ([]*models.Meeting, error) {
	var rows []meetingRow
	if err := r.db.WithContext(ctx).Where("company_uid = ?", companyUID).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, translate(err, "meeting", domain.ErrMeetingNotFound)
	}
	meetings := make([]*models.Meeting, 0, len(rows))
	for i := range rows {
		meetings = append(meetings, rows[i].model())
	}
	return meetings, nil
}

// Delete removes a meeting
func (r *MeetingRepository) Delete(ctx context.Context, meetingUID string) error {
	return deleteByUID(ctx, r.db, &meetingRow{}, meetingUID, "meeting", domain.ErrMeetingNotFound)
}

// TopicRepository stores agenda topics in SQL.
type TopicRepository struct {
	db *gorm.DB
}

// Create inserts a topic
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if topic.UID == "" {
		topic.UID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(newTopicRow(topic)).Error, "topic", domain.ErrTopicNotFound)
}

// Get retrieves a topic by UID
func (r *TopicRepository) Get(ctx context.Context, topicUID string) (*models.Topic, error) {
	var row topicRow
	if err := r.db.WithContext(ctx).Where("uid = ?", topicUID).Take(&row).Error; err != nil {
		return nil, translate(err, fmt.Sprintf("topic '%s'", topicUID), domain.ErrTopicNotFound)
	}
	return row.model(), nil
}

// ListByMeeting retrieves the agenda of a meeting in creation order
func (r *TopicRepository) ListByMeeting(ctx context.Context, meetingUID string) ([]*models.Topic, error) {
	var rows []topicRow
	if err := r.db.WithContext(ctx).Where("meeting_uid = ?", meetingUID).Order("created_at, uid").Find(&rows).Error; err != nil {
		return nil, translate(err, "topic", domain.ErrTopicNotFound)
	}
	topics := make([]*models.Topic, 0, len(rows))
	for i := range rows {
		topics = append(topics, rows[i].model())
	}
	return topics, nil
}

// Delete removes a topic
func (r *TopicRepository) Delete(ctx context.Context, topicUID string) error {
	return deleteByUID(ctx, r.db, &topicRow{}, topicUID, "topic", domain.ErrTopicNotFound)
}

func deleteByUID(ctx context.Context, db *gorm.DB, model any, uid, entity string, notFound error) error {
	result := db.WithContext(ctx).Where("uid = ?", uid).Delete(model)
	if result.Error != nil {
		return translate(result.Error, entity, notFound)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError(fmt.Sprintf("%s '%s' not found", entity, uid), notFound)
	}
	return nil
}
