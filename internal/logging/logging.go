// Package logging carries the ambient structured-logging concern
// across every component of the frontier engine, backed by zerolog.
//
// Logging is strictly observational: nothing here may influence
// retry, admission, or scheduling decisions. Components pass an
// ErrorCause for classification only.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// ErrorCause is a closed, canonical classification used exclusively
// for observability, covering causes specific to frontier admission
// and strategy dispatch.
type ErrorCause string

const (
	CauseUnknown            ErrorCause = "unknown"
	CauseNetwork            ErrorCause = "network"
	CauseInvalidConfig      ErrorCause = "invalid_config"
	CauseExtraction         ErrorCause = "extraction"
	CauseClassification     ErrorCause = "classification"
	CausePersistence        ErrorCause = "persistence"
	CauseCancellation       ErrorCause = "cancellation"
	CauseInvariantViolation ErrorCause = "invariant_violation"
)

// Logger wraps a zerolog.Logger with the event vocabulary the
// frontier engine's components share: fetches, admissions, status
// transitions, and run-level lifecycle events.
type Logger struct {
	zl zerolog.Logger
}

// New builds a Logger writing structured JSON to w.
func New(w io.Writer) Logger {
	return Logger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

// NewDefault writes to stderr, matching how operators typically pipe
// crawler logs separately from stdout artifact output.
func NewDefault() Logger {
	return New(os.Stderr)
}

func (l Logger) RecordFetch(url string, statusCode int, duration time.Duration, contentType string, depth int) {
	l.zl.Info().
		Str("event", "fetch").
		Str("url", url).
		Int("status", statusCode).
		Dur("duration", duration).
		Str("content_type", contentType).
		Int("depth", depth).
		Msg("page fetched")
}

func (l Logger) RecordAdmission(url string, category string, depth int, isTarget bool, admitted bool) {
	l.zl.Info().
		Str("event", "admission").
		Str("url", url).
		Str("category", category).
		Int("depth", depth).
		Bool("is_target", isTarget).
		Bool("admitted", admitted).
		Msg("frontier admission")
}

func (l Logger) RecordTransition(id string, from string, to string) {
	l.zl.Debug().
		Str("event", "transition").
		Str("id", id).
		Str("from", from).
		Str("to", to).
		Msg("status transition")
}

func (l Logger) RecordError(component string, action string, cause ErrorCause, message string, fields map[string]string) {
	ev := l.zl.Error().
		Str("event", "error").
		Str("component", component).
		Str("action", action).
		Str("cause", string(cause)).
		Str("message", message)
	for k, v := range fields {
		ev = ev.Str(k, v)
	}
	ev.Msg("component error")
}

func (l Logger) RecordWarning(component string, message string, fields map[string]string) {
	ev := l.zl.Warn().
		Str("event", "warning").
		Str("component", component).
		Str("message", message)
	for k, v := range fields {
		ev = ev.Str(k, v)
	}
	ev.Msg("component warning")
}

func (l Logger) RecordRunStart(rootURL string, category string) {
	l.zl.Info().
		Str("event", "run_start").
		Str("root_url", rootURL).
		Str("category", category).
		Msg("run started")
}

func (l Logger) RecordRunFinish(rootURL string, status string, duration time.Duration, targets, seeds, failed int) {
	l.zl.Info().
		Str("event", "run_finish").
		Str("root_url", rootURL).
		Str("status", status).
		Dur("duration", duration).
		Int("targets", targets).
		Int("seeds", seeds).
		Int("failed", failed).
		Msg("run finished")
}

// Underlying exposes the raw zerolog.Logger for components that need
// to attach request-scoped fields (e.g. a strategy tagging every log
// line in one recursive expansion with its root URL).
func (l Logger) Underlying() *zerolog.Logger { return &l.zl }
