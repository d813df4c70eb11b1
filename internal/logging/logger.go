// Package logging builds the structured logger shared by the CLI and the
// fill engine.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// RunIDKey is the attribute naming the CLI invocation a record belongs to.
const RunIDKey = "run_id"

// Options configures New.
type Options struct {
	Level  string
	Format string
	RunID  string
}

// New creates a logger writing to w. Every record carries the run_id
// attribute; an empty RunID gets a fresh UUID.
func New(w io.Writer, opts Options) *slog.Logger {
	handlerOpts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}

	var handler slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}

	runID := opts.RunID
	if runID == "" {
		runID = NewRunID()
	}
	return slog.New(handler).With(slog.String(RunIDKey, runID))
}

// NewRunID returns a random identifier for one CLI invocation.
func NewRunID() string {
	return uuid.NewString()
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
