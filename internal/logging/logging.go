// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package logging contains the logging functionality for the approval service.
package logging

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	slogotel "github.com/remychantenay/slog-otel"
)

type ctxKey string

// Public constants
const (
	ErrKey = "error"
)

// Private constants
const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	// Log levels
	debug = "debug"
	warn  = "warn"
	err   = "error"
	info  = "info"

	// Log field for critical errors.
	priorityCritical = "critical"
)

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	return h.Handler.Handle(ctx, r)
}

// WithAttrs keeps the context handler in the chain for derived loggers.
func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

// WithGroup keeps the context handler in the chain for derived loggers.
func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	existing, _ := parent.Value(slogFields).([]slog.Attr)
	// copy so sibling contexts never share a backing array
	v := make([]slog.Attr, 0, len(existing)+1)
	v = append(v, existing...)
	v = append(v, attr)
	return context.WithValue(parent, slogFields, v)
}

// parseLevel maps LOG_LEVEL values to slog levels.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case debug:
		return slog.LevelDebug
	case warn:
		return slog.LevelWarn
	case err:
		return slog.LevelError
	case info:
		return slog.LevelInfo
	default:
		return logLevelDefault
	}
}

// NewHandler builds the handler chain used by the service: JSON output,
// trace and span ids from the record context, then attributes stored with
// AppendCtx.
func NewHandler(w io.Writer, level slog.Level, addSource bool) slog.Handler {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
	})
	return contextHandler{slogotel.OtelHandler{Next: jsonHandler}}
}

// InitStructureLogConfig sets the structured log behavior
func InitStructureLogConfig() slog.Handler {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	addSource := os.Getenv("LOG_ADD_SOURCE")
	withSource := addSource == "true" || addSource == "t" || addSource == "1"

	h := NewHandler(os.Stdout, level, withSource)
	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(h))

	slog.Info("log config",
		"logLevel", level,
		"addSource", withSource,
	)

	return h
}

// Priority creates a slog.Attr for error priority classification
func Priority(level string) slog.Attr {
	return slog.String("priority", level)
}

// PriorityCritical creates a slog.Attr for critical errors
// this is used to identify critical errors in the logs
// the ones that should be escalated to the team
func PriorityCritical() slog.Attr {
	return Priority(priorityCritical)
}
