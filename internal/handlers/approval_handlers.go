// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/go-viper/mapstructure/v2"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/domain/models"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/internal/service"
)

type requestHandler func(ctx context.Context, msg domain.Message) (any, error)

// ApprovalHandler answers voting requests arriving over NATS request/reply.
type ApprovalHandler struct {
	votingService *service.VotingService
	voterService  *service.VoterService
}

func NewApprovalHandler(votingService *service.VotingService, voterService *service.VoterService) *ApprovalHandler {
	return &ApprovalHandler{
		votingService: votingService,
		voterService:  voterService,
	}
}

func (h *ApprovalHandler) HandlerReady() bool {
	return h.votingService.ServiceReady() &&
		h.voterService.ServiceReady()
}

// HandleMessage implements domain.MessageHandler interface
func (h *ApprovalHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]requestHandler{
		models.GetVotingSubject:    h.handleGetVoting,
		models.CreateVotingSubject: h.handleCreateVoting,
		models.SubmitVotesSubject:  h.handleSubmitVotes,
		models.GetVoterSubject:     h.handleGetVoter,
		models.ListVotersSubject:   h.handleListVoters,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		h.reply(ctx, msg, nil, domain.NewValidationError("unknown subject "+subject))
		return
	}

	data, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
	}
	h.reply(ctx, msg, data, err)
}

// reply wraps the outcome in a ReplyMessage. Messages without a reply
// subject are only logged.
func (h *ApprovalHandler) reply(ctx context.Context, msg domain.Message, data any, err error) {
	if !msg.HasReply() {
		slog.DebugContext(ctx, "handled NATS message (no reply expected)")
		return
	}

	reply := models.ReplyMessage{Data: data}
	if err != nil {
		reply = models.ReplyMessage{Error: &models.ReplyError{
			Type:    domain.GetErrorType(err).String(),
			Message: err.Error(),
		}}
	}

	response, err := json.Marshal(reply)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling reply", logging.ErrKey, err)
		return
	}

	if err := msg.Respond(response); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
		return
	}
	slog.DebugContext(ctx, "responded to NATS message", "response_size", len(response))
}

// decodeRequest decodes a request body into T by its json tags. Unknown
// fields are rejected and scalars are weakly typed, so "true" or 1 decode
// into a bool and numbers into a string.
func decodeRequest[T any](ctx context.Context, msg domain.Message) (*T, error) {
	var raw map[string]any
	if err := json.Unmarshal(msg.Data(), &raw); err != nil {
		slog.WarnContext(ctx, "error unmarshalling request", logging.ErrKey, err)
		return nil, domain.NewValidationError("malformed request body", err)
	}

	var request T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &request,
	})
	if err != nil {
		slog.ErrorContext(ctx, "error creating request decoder", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to decode request", err)
	}
	if err := decoder.Decode(raw); err != nil {
		slog.WarnContext(ctx, "invalid request body", logging.ErrKey, err)
		return nil, domain.NewValidationError("invalid request body", err)
	}
	return &request, nil
}

func (h *ApprovalHandler) handleGetVoting(ctx context.Context, msg domain.Message) (any, error) {
	request, err := decodeRequest[models.TopicRequest](ctx, msg)
	if err != nil {
		return nil, err
	}
	return h.votingService.GetVotingByTopic(ctx, request.TopicUID)
}

func (h *ApprovalHandler) handleCreateVoting(ctx context.Context, msg domain.Message) (any, error) {
	request, err := decodeRequest[models.TopicRequest](ctx, msg)
	if err != nil {
		return nil, err
	}
	return h.votingService.CreateVotingForTopic(ctx, request.TopicUID)
}

func (h *ApprovalHandler) handleSubmitVotes(ctx context.Context, msg domain.Message) (any, error) {
	request, err := decodeRequest[models.SubmitVotesRequest](ctx, msg)
	if err != nil {
		return nil, err
	}
	return h.votingService.SubmitVotes(ctx, request.CompanyUID, request.MeetingUID, request.TopicUID, request.Ballots)
}

func (h *ApprovalHandler) handleGetVoter(ctx context.Context, msg domain.Message) (any, error) {
	request, err := decodeRequest[models.VoterRequest](ctx, msg)
	if err != nil {
		return nil, err
	}
	voter, err := h.voterService.GetVoter(ctx, request.VoterUID)
	if err != nil {
		return nil, err
	}
	return models.NewVoterView(voter), nil
}

func (h *ApprovalHandler) handleListVoters(ctx context.Context, msg domain.Message) (any, error) {
	request, err := decodeRequest[models.TopicRequest](ctx, msg)
	if err != nil {
		return nil, err
	}
	voters, err := h.voterService.ListVotersByTopic(ctx, request.TopicUID)
	if err != nil {
		return nil, err
	}
	return models.NewVoterViews(voters), nil
}
