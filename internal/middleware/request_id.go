// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/GlazyrinAV/corporate-approval/internal/logging"
	"github.com/GlazyrinAV/corporate-approval/pkg/constants"
)

// RequestIDMiddleware propagates the caller's X-REQUEST-ID or generates one.
// The ID is echoed in the response, stored in the context for event headers
// and appended to every log line of the request.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(constants.RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			w.Header().Set(constants.RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), constants.RequestIDContextID, requestID)
			ctx = logging.AppendCtx(ctx, slog.String("request_id", requestID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestID returns the request ID stored by RequestIDMiddleware.
func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(constants.RequestIDContextID).(string)
	return requestID
}
