// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package constants

// Constants for the HTTP request headers
const (
	// RequestIDHeader is the header name for the request ID
	RequestIDHeader string = "X-REQUEST-ID"

	// ContentTypeHeader is the header name for the response content type
	ContentTypeHeader string = "Content-Type"

	// ContentTypeJSON is the media type of every API response body
	ContentTypeJSON string = "application/json"
)

// contextRequestID is the type for the request ID context key
type contextRequestID string

// RequestIDContextID is the context ID for the request ID
const RequestIDContextID contextRequestID = "X-REQUEST-ID"

// Health check paths excluded from request logging.
const (
	LivezPath  = "/livez"
	ReadyzPath = "/readyz"
)
