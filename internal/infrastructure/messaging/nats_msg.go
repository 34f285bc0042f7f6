// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"log/slog"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/pkg/constants"
)

// NatsMsg is a wrapper around [nats.Msg] that implements [domain.Message].
type NatsMsg struct {
	*nats.Msg
}

// Subject returns the subject the message was delivered on.
func (m *NatsMsg) Subject() string {
	return m.Msg.Subject
}

// Data returns the message payload.
func (m *NatsMsg) Data() []byte {
	return m.Msg.Data
}

// Respond sends data to the reply inbox of the message.
func (m *NatsMsg) Respond(data []byte) error {
	return m.Msg.Respond(data)
}

// HasReply reports whether the sender waits for a reply.
func (m *NatsMsg) HasReply() bool {
	return m.Msg.Reply != ""
}

// Context derives the handling context of the message from parent. It picks
// up the trace context and request ID carried in the message headers.
func (m *NatsMsg) Context(parent context.Context) context.Context {
	if m.Msg.Header == nil {
		return parent
	}

	ctx := otel.GetTextMapPropagator().Extract(parent, headerCarrier(m.Msg.Header))
	if requestID := m.Msg.Header.Get(constants.RequestIDHeader); requestID != "" {
		ctx = context.WithValue(ctx, constants.RequestIDContextID, requestID)
		ctx = logging.AppendCtx(ctx, slog.String("request_id", requestID))
	}
	return ctx
}

// headerCarrier adapts NATS headers to a propagation carrier. NATS header
// keys are case sensitive, unlike HTTP ones.
type headerCarrier nats.Header

var _ propagation.TextMapCarrier = headerCarrier(nil)

func (c headerCarrier) Get(key string) string {
	return nats.Header(c).Get(key)
}

func (c headerCarrier) Set(key, value string) {
	nats.Header(c).Set(key, value)
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	return keys
}
