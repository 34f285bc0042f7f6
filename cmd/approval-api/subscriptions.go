// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/infrastructure/messaging"
)

// requestSubjects are served by the approval handler.
var requestSubjects = []string{
	models.GetVotingSubject,
	models.CreateVotingSubject,
	models.SubmitVotesSubject,
	models.GetVoterSubject,
	models.ListVotersSubject,
}

// natsSubscriber is the subset of [nats.Conn] used to subscribe handlers.
type natsSubscriber interface {
	QueueSubscribe(subject, queue string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// createNatsSubcriptions subscribes the handler to every request subject in
// the approval API queue group.
func createNatsSubcriptions(ctx context.Context, handler domain.MessageHandler, natsConn natsSubscriber) error {
	slog.InfoContext(ctx, "subscribing to NATS subjects", "queue", models.ApprovalAPIQueue, "subjects", requestSubjects)

	// Draining delivers queued requests after the service context is
	// cancelled, so handlers must not inherit the cancellation.
	handlerCtx := context.WithoutCancel(ctx)

	for _, subject := range requestSubjects {
		_, err := natsConn.QueueSubscribe(subject, models.ApprovalAPIQueue, func(msg *nats.Msg) {
			natsMsg := &messaging.NatsMsg{Msg: msg}
			handler.HandleMessage(natsMsg.Context(handlerCtx), natsMsg)
		})
		if err != nil {
			return fmt.Errorf("error subscribing to %s: %w", subject, err)
		}
	}

	return nil
}
