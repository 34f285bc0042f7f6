// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"log/slog"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/google/uuid"
)

// NatsMeetingRepository is the NATS KV store repository for meetings.
type NatsMeetingRepository struct {
	*NatsBaseRepository[models.Meeting]
	keyBuilder *KeyBuilder
}

// NewNatsMeetingRepository creates a new NATS KV store repository for meetings.
func NewNatsMeetingRepository(meetings INatsKeyValue) *NatsMeetingRepository {
	return &NatsMeetingRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Meeting](meetings, "meeting"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// Create stores a meeting and indexes it by company.
func (r *NatsMeetingRepository) Create(ctx context.Context, meeting *models.Meeting) error {
	if meeting.UID == "" {
		meeting.UID = uuid.New().String()
	}

	key := r.keyBuilder.EntityKeyEncoded(KeyPrefixMeeting, meeting.UID)
	if err := r.NatsBaseRepository.Create(ctx, key, meeting); err != nil {
		return err
	}

	if err := r.PutIndex(ctx, r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexCompany, meeting.CompanyUID, meeting.UID)); err != nil {
		if delErr := r.NatsBaseRepository.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to roll back meeting", logging.ErrKey, delErr, "meeting_uid", meeting.UID)
		}
		return err
	}

	return nil
}

// Get retrieves a meeting by UID
func (r *NatsMeetingRepository) Get(ctx context.Context, meetingUID string) (*models.Meeting, error) {
	meeting, err := r.NatsBaseRepository.Get(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixMeeting, meetingUID))
	if err != nil {
		return nil, withSentinel(err, domain.ErrMeetingNotFound, "meeting '%s' not found", meetingUID)
	}
	return meeting, nil
}

// ListByCompany retrieves all meetings of a company
func (r *NatsMeetingRepository) ListByCompany(ctx context.Context, companyUID string) ([]*models.Meeting, error) {
	return r.ListIndexed(ctx, r.keyBuilder, KeyPrefixIndexCompany, companyUID, KeyPrefixMeeting)
}

// Delete removes a meeting and its company index entry
func (r *NatsMeetingRepository) Delete(ctx context.Context, meetingUID string) error {
	meeting, err := r.Get(ctx, meetingUID)
	if err != nil {
		return err
	}

	if err := r.DeleteIndex(ctx, r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexCompany, meeting.CompanyUID, meetingUID)); err != nil {
		slog.WarnContext(ctx, "failed to delete meeting index", logging.ErrKey, err, "meeting_uid", meetingUID)
	}

	return r.NatsBaseRepository.Delete(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixMeeting, meetingUID))
}
