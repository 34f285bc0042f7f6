// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// VotingEventSender publishes voting lifecycle events.
type VotingEventSender interface {
	SendVotingCreated(ctx context.Context, data models.VotingEventMessage) error
	SendVotingTabulated(ctx context.Context, data models.VotingEventMessage) error
	SendVotingDeleted(ctx context.Context, data models.VotingEventMessage) error
}

// RosterEventSender publishes meeting roster events.
type RosterEventSender interface {
	SendRosterParticipantAdded(ctx context.Context, data models.RosterEventMessage) error
}

// MessageBuilder is the main interface that composes all messaging capabilities.
type MessageBuilder interface {
	VotingEventSender
	RosterEventSender
}
