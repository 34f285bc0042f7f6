// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlazyrinAV/corporate-approval/pkg/constants"
)

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name      string
		requestID string
	}{
		{name: "propagates caller request id", requestID: "req-123"},
		{name: "generates request id when missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestIDMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = RequestID(r.Context())
				w.WriteHeader(http.StatusNoContent)
			}))

			req := httptest.NewRequest(http.MethodGet, "/votings/topic-1", nil)
			if tt.requestID != "" {
				req.Header.Set(constants.RequestIDHeader, tt.requestID)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			require.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get(constants.RequestIDHeader))
			if tt.requestID != "" {
				assert.Equal(t, tt.requestID, seen)
			} else {
				_, err := uuid.Parse(seen)
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "api request", path: "/votings/topic-1", status: http.StatusNotFound},
		{name: "health check", path: constants.LivezPath, status: http.StatusOK},
		{name: "implicit ok", path: "/voters/voter-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := RequestLoggerMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte("body"))
			}))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			want := tt.status
			if want == 0 {
				want = http.StatusOK
			}
			assert.Equal(t, want, rec.Code)
			assert.Equal(t, "body", rec.Body.String())
		})
	}
}

func TestResponseWriter_CapturesStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	ww := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	ww.WriteHeader(http.StatusConflict)

	assert.Equal(t, http.StatusConflict, ww.statusCode)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
