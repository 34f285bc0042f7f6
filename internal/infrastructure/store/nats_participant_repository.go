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

// NatsParticipantRepository is the NATS KV store repository for company participants.
type NatsParticipantRepository struct {
	*NatsBaseRepository[models.Participant]
	keyBuilder *KeyBuilder
}

// NewNatsParticipantRepository creates a new NATS KV store repository for participants.
func NewNatsParticipantRepository(kvStore INatsKeyValue) *NatsParticipantRepository {
	return &NatsParticipantRepository{
		NatsBaseRepository: NewNatsBaseRepository[models.Participant](kvStore, "participant"),
		keyBuilder:         NewKeyBuilder(""),
	}
}

// Create stores a participant and indexes it by company.
func (r *NatsParticipantRepository) Create(ctx context.Context, participant *models.Participant) error {
	if participant.UID == "" {
		participant.UID = uuid.New().String()
	}

	key := r.keyBuilder.EntityKeyEncoded(KeyPrefixParticipant, participant.UID)
	if err := r.NatsBaseRepository.Create(ctx, key, participant); err != nil {
		return err
	}

	indexKey := r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexCompany, participant.CompanyUID, participant.UID)
	if err := r.PutIndex(ctx, indexKey); err != nil {
		if delErr := r.NatsBaseRepository.Delete(ctx, key); delErr != nil {
			slog.WarnContext(ctx, "failed to roll back participant", logging.ErrKey, delErr, "participant_uid", participant.UID)
		}
		return err
	}

	return nil
}

// Get retrieves a participant by UID
func (r *NatsParticipantRepository) Get(ctx context.Context, participantUID string) (*models.Participant, error) {
	participant, err := r.NatsBaseRepository.Get(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixParticipant, participantUID))
	if err != nil {
		return nil, withSentinel(err, domain.ErrParticipantNotFound, "participant '%s' not found", participantUID)
	}
	return participant, nil
}

// ListByCompany retrieves all participants of a company
func (r *NatsParticipantRepository) ListByCompany(ctx context.Context, companyUID string) ([]*models.Participant, error) {
	return r.ListIndexed(ctx, r.keyBuilder, KeyPrefixIndexCompany, companyUID, KeyPrefixParticipant)
}

// Delete removes a participant and its company index entry
func (r *NatsParticipantRepository) Delete(ctx context.Context, participantUID string) error {
	participant, err := r.Get(ctx, participantUID)
	if err != nil {
		return err
	}

	if err := r.DeleteIndex(ctx, r.keyBuilder.IndexKeyEncoded(KeyPrefixIndexCompany, participant.CompanyUID, participantUID)); err != nil {
		slog.WarnContext(ctx, "failed to delete participant index", logging.ErrKey, err, "participant_uid", participantUID)
	}

	return r.NatsBaseRepository.Delete(ctx, r.keyBuilder.EntityKeyEncoded(KeyPrefixParticipant, participantUID))
}
