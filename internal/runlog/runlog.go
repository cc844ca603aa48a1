// Package runlog persists one record per root URL per run: its
// terminal status, counters, and reached depth.
package runlog

import (
	"time"

	"github.com/rohmanhakim/frontier-crawler/internal/config"
)

// Status is the run-log terminal state. RUNNING covers the whole
// traversal of one root; it resolves to exactly one of the three
// terminal values when the root finishes.
type Status string

const (
	StatusPending            Status = "PENDING"
	StatusRunning            Status = "RUNNING"
	StatusCompleted          Status = "COMPLETED"
	StatusFailed             Status = "FAILED"
	StatusPartiallyCompleted Status = "PARTIALLY_COMPLETED"
)

// RunLog is the per-root record a RunController creates at the start
// of a traversal and finalizes when that root's frontier is drained.
type RunLog struct {
	ID                string
	URL               string
	Category          string
	UrlType           config.UrlType
	MaxDepth          int
	Status            Status
	StartTime         time.Time
	EndTime           time.Time
	TotalURLsFound    int
	TargetURLsFound   int
	SeedURLsFound     int
	FailedURLs        int
	ReachedDepth      int
	TargetPatterns    []string
	SeedPattern       string
	ErrorMessage      string
	WarningMessages   []string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewRunLog starts a PENDING record for root, not yet RUNNING: the
// run controller moves it to RUNNING once the root entry is admitted
// to the frontier.
func NewRunLog(id string, root config.RootURLConfig, category string, now time.Time) RunLog {
	seed, _ := root.SeedPattern()
	rootURL := root.URL()
	return RunLog{
		ID:             id,
		URL:            rootURL.String(),
		Category:       category,
		UrlType:        root.UrlType(),
		MaxDepth:       root.MaxDepth(),
		Status:         StatusPending,
		TargetPatterns: root.TargetPatterns(),
		SeedPattern:    seed,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ProcessingDuration returns EndTime minus StartTime, or zero if the
// run hasn't finished.
func (r RunLog) ProcessingDuration() time.Duration {
	if r.EndTime.IsZero() || r.StartTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// Finalize picks the terminal status from counters the way the
// run controller reports it: FAILED if nothing succeeded and at
// least one URL failed, COMPLETED if nothing failed, and
// PARTIALLY_COMPLETED when both successes and failures occurred.
func Finalize(totalURLs, failedURLs int) Status {
	switch {
	case totalURLs > 0 && failedURLs == totalURLs:
		return StatusFailed
	case failedURLs == 0:
		return StatusCompleted
	default:
		return StatusPartiallyCompleted
	}
}
