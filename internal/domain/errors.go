// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package domain

import "errors"

// ErrorType represents the semantic category of an error
type ErrorType int

const (
	ErrorTypeValidation  ErrorType = iota // Input validation errors (400 Bad Request)
	ErrorTypeNotFound                     // Resource not found errors (404 Not Found)
	ErrorTypeConflict                     // Resource conflict errors (409 Conflict)
	ErrorTypeInternal                     // Internal server errors (500 Internal Server Error)
	ErrorTypeUnavailable                  // Service unavailable errors (503 Service Unavailable)
)

// String returns a short machine-readable name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrorTypeValidation:
		return "validation"
	case ErrorTypeNotFound:
		return "not_found"
	case ErrorTypeConflict:
		return "conflict"
	case ErrorTypeUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Sentinel errors. They are joined into a DomainError's Err chain so callers
// can match with errors.Is regardless of the message.
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrValidationFailed   = errors.New("validation failed")
	ErrInvalidEnumValue   = errors.New("invalid enum value")
	ErrInternal           = errors.New("internal error")
	ErrRevisionMismatch   = errors.New("revision mismatch")
	ErrAlreadyExists      = errors.New("already exists")

	ErrParticipantNotFound = errors.New("participant not found")
	ErrMeetingNotFound     = errors.New("meeting not found")
	ErrTopicNotFound       = errors.New("topic not found")
	ErrRosterEntryNotFound = errors.New("meeting participant not found")
	ErrVotingNotFound      = errors.New("voting not found")
	ErrVoterNotFound       = errors.New("voter not found")
)

// DomainError represents an error with semantic type information
type DomainError struct {
	Type    ErrorType
	Message string
	Err     error // underlying error for wrapping
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// GetErrorType returns the semantic type of an error
func GetErrorType(err error) ErrorType {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Type
	}
	return ErrorTypeInternal // default fallback
}

// Error constructors for different types
func NewValidationError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(err...)}
}

// NewInvalidEnumError reports a string that matches no known enumeration label.
func NewInvalidEnumError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeValidation, Message: message, Err: errors.Join(append([]error{ErrInvalidEnumValue}, err...)...)}
}

func NewNotFoundError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeNotFound, Message: message, Err: errors.Join(err...)}
}

func NewConflictError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeConflict, Message: message, Err: errors.Join(err...)}
}

func NewInternalError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeInternal, Message: message, Err: errors.Join(err...)}
}

func NewUnavailableError(message string, err ...error) *DomainError {
	return &DomainError{Type: ErrorTypeUnavailable, Message: message, Err: errors.Join(err...)}
}
