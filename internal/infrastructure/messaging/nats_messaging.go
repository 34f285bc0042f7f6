// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/pkg/constants"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// INatsConn is the NATS connection interface needed for publishing approval events.
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder builds approval event envelopes and sends them to the NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// publish sends the raw message to the NATS server.
func (m *MessageBuilder) publish(ctx context.Context, subject string, data []byte) error {
	err := m.NatsConn.Publish(subject, data)
	if err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}
	slog.DebugContext(ctx, "sent message to NATS", "subject", subject)
	return nil
}

// eventHeaders carries the request ID and the trace context of ctx.
func eventHeaders(ctx context.Context) map[string]string {
	headers := make(map[string]string)
	if requestID, ok := ctx.Value(constants.RequestIDContextID).(string); ok && requestID != "" {
		headers[constants.RequestIDHeader] = requestID
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.MapCarrier(headers))
	return headers
}

// sendEvent wraps data in an EventMessage envelope and publishes it.
func (m *MessageBuilder) sendEvent(ctx context.Context, subject string, action models.MessageAction, data any) error {
	message := models.EventMessage{
		Action:  action,
		Headers: eventHeaders(ctx),
		Data:    data,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message into JSON", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "constructed event message", "subject", subject, "action", action)

	return m.publish(ctx, subject, messageBytes)
}

// SendVotingCreated announces a newly created voting.
func (m *MessageBuilder) SendVotingCreated(ctx context.Context, data models.VotingEventMessage) error {
	return m.sendEvent(ctx, models.VotingCreatedSubject, models.ActionCreated, data)
}

// SendVotingTabulated announces a freshly computed voting outcome.
func (m *MessageBuilder) SendVotingTabulated(ctx context.Context, data models.VotingEventMessage) error {
	return m.sendEvent(ctx, models.VotingTabulatedSubject, models.ActionTabulated, data)
}

// SendVotingDeleted announces that a voting and its voters were removed.
func (m *MessageBuilder) SendVotingDeleted(ctx context.Context, data models.VotingEventMessage) error {
	return m.sendEvent(ctx, models.VotingDeletedSubject, models.ActionDeleted, data)
}

// SendRosterParticipantAdded announces a participant joining a meeting roster.
func (m *MessageBuilder) SendRosterParticipantAdded(ctx context.Context, data models.RosterEventMessage) error {
	return m.sendEvent(ctx, models.RosterParticipantAddedSubject, models.ActionCreated, data)
}

// NoopMessageBuilder drops every event. It backs deployments that run
// without a NATS connection.
type NoopMessageBuilder struct{}

func (NoopMessageBuilder) SendVotingCreated(ctx context.Context, data models.VotingEventMessage) error {
	slog.DebugContext(ctx, "event publishing disabled, dropping voting created", "voting_uid", data.VotingUID)
	return nil
}

func (NoopMessageBuilder) SendVotingTabulated(ctx context.Context, data models.VotingEventMessage) error {
	slog.DebugContext(ctx, "event publishing disabled, dropping voting tabulated", "voting_uid", data.VotingUID)
	return nil
}

func (NoopMessageBuilder) SendVotingDeleted(ctx context.Context, data models.VotingEventMessage) error {
	slog.DebugContext(ctx, "event publishing disabled, dropping voting deleted", "voting_uid", data.VotingUID)
	return nil
}

func (NoopMessageBuilder) SendRosterParticipantAdded(ctx context.Context, data models.RosterEventMessage) error {
	slog.DebugContext(ctx, "event publishing disabled, dropping roster event", "roster_entry_uid", data.RosterEntryUID)
	return nil
}
