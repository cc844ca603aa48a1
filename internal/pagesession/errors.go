package pagesession

import (
	"errors"

	"github.com/rohmanhakim/frontier-crawler/pkg/failure"
)

var (
	// ErrNavigationTimeout is returned by Open when the 30s (default)
	// navigation budget elapses before the page settles.
	ErrNavigationTimeout = errors.New("page session: navigation timeout")
	// ErrEmptyContent is returned when a navigation succeeds but the
	// browser reports no document content at all.
	ErrEmptyContent = errors.New("page session: empty document content")
	// ErrSessionClosed guards use of a session after Close.
	ErrSessionClosed = errors.New("page session: already closed")
)

// SessionError classifies a page-session fault as retryable or not
// (Severity, IsRetryable). The strategy dispatcher does not read that
// classification: it fails the URL on any session error, without retrying.
type SessionError struct {
	Op        string
	Err       error
	Retryable bool
}

func (e *SessionError) Error() string {
	return "page session: " + e.Op + ": " + e.Err.Error()
}

func (e *SessionError) Unwrap() error { return e.Err }

func (e *SessionError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func (e *SessionError) IsRetryable() bool { return e.Retryable }

func newSessionError(op string, err error, retryable bool) *SessionError {
	return &SessionError{Op: op, Err: err, Retryable: retryable}
}
