// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package api exposes the approval services over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/GlazyrinAV/corporate-approval/internal/domain"
	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/internal/service"
	"github.com/GlazyrinAV/corporate-approval/pkg/constants"
)

// maxBodyBytes bounds request bodies. A ballot batch for a large roster
// stays well below it.
const maxBodyBytes = 1 << 20

// ApprovalAPI serves the REST surface of the approval services.
type ApprovalAPI struct {
	services *service.Services
	ready    func() bool
}

// NewApprovalAPI creates a new ApprovalAPI. ready reports readiness of
// dependencies outside the services, such as the NATS connection; nil means
// always ready.
func NewApprovalAPI(services *service.Services, ready func() bool) *ApprovalAPI {
	if ready == nil {
		ready = func() bool { return true }
	}
	return &ApprovalAPI{
		services: services,
		ready:    ready,
	}
}

// Register mounts the approval routes on r.
func (a *ApprovalAPI) Register(r chi.Router) {
	r.Get(constants.LivezPath, a.Livez)
	r.Get(constants.ReadyzPath, a.Readyz)

	r.Route("/companies/{companyUID}", func(r chi.Router) {
		r.Post("/participants", a.CreateParticipant)
		r.Get("/participants", a.ListParticipants)
		r.Post("/meetings", a.CreateMeeting)
		r.Get("/meetings", a.ListMeetings)
		r.Post("/meetings/{meetingUID}/topics/{topicUID}/votes", a.SubmitVotes)
	})

	r.Get("/participants/{participantUID}", a.GetParticipant)
	r.Delete("/participants/{participantUID}", a.DeleteParticipant)

	r.Route("/meetings/{meetingUID}", func(r chi.Router) {
		r.Get("/", a.GetMeeting)
		r.Delete("/", a.DeleteMeeting)
		r.Post("/roster", a.AddRosterParticipant)
		r.Get("/roster", a.ListRoster)
		r.Post("/topics", a.CreateTopic)
		r.Get("/topics", a.ListTopics)
	})

	r.Patch("/roster/{entryUID}", a.SetAttendance)
	r.Delete("/roster/{entryUID}", a.RemoveRosterParticipant)

	r.Route("/topics/{topicUID}", func(r chi.Router) {
		r.Get("/", a.GetTopic)
		r.Delete("/", a.DeleteTopic)
		r.Post("/voting", a.CreateVoting)
		r.Get("/voting", a.GetVoting)
		r.Delete("/voting", a.DeleteVoting)
		r.Post("/voting/tabulate", a.TabulateVoting)
		r.Get("/voters", a.ListVoters)
	})

	r.Get("/voters/{voterUID}", a.GetVoter)
	r.Put("/voters/{voterUID}/vote", a.SubmitVote)
}

// Readyz checks if the service is able to take inbound requests.
func (a *ApprovalAPI) Readyz(w http.ResponseWriter, r *http.Request) {
	if !a.ready() || !a.services.ServiceReady() {
		writeError(w, r, domain.NewUnavailableError("service unavailable", domain.ErrServiceUnavailable))
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}

// Livez checks if the service is alive.
func (a *ApprovalAPI) Livez(w http.ResponseWriter, _ *http.Request) {
	// This always returns as long as the service is still running. As this
	// endpoint is expected to be used as a Kubernetes liveness check, this
	// service must likewise self-detect non-recoverable errors and
	// self-terminate.
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("OK\n"))
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// statusFor maps a domain error onto its HTTP status.
func statusFor(err error) int {
	switch domain.GetErrorType(err) {
	case domain.ErrorTypeValidation:
		return http.StatusBadRequest
	case domain.ErrorTypeNotFound:
		return http.StatusNotFound
	case domain.ErrorTypeConflict:
		return http.StatusConflict
	case domain.ErrorTypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the error response. Internal error details stay in the log.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "internal error serving request", logging.ErrKey, err)
		message = "internal server error"
	}
	writeJSON(w, r, code, ErrorResponse{
		Code:    strconv.Itoa(code),
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, r *http.Request, code int, body any) {
	w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeJSON)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.ErrorContext(r.Context(), "error encoding response", logging.ErrKey, err)
	}
}

// decodeBody decodes a JSON request body into T.
func decodeBody[T any](r *http.Request) (*T, error) {
	var body T
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewValidationError("request body is required")
		}
		return nil, domain.NewValidationError("malformed request body: "+err.Error(), err)
	}
	return &body, nil
}
