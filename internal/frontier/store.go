package frontier

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a lookup by id or url finds nothing.
	ErrNotFound = errors.New("frontier entry not found")
	// ErrAlreadyAdmitted is returned by Admit when the canonical url is
	// already present anywhere in the frontier, making the admit a no-op from
	// the caller's perspective rather than a failure.
	ErrAlreadyAdmitted = errors.New("url already admitted")
	// ErrIllegalTransition guards the entry status state machine.
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Statistics counts one category's frontier entries by role (see
// Store.Statistics). The run controller does not derive a root's
// terminal status from it: it reads the run log's own counters and
// only reuses this struct to carry them.
type Statistics struct {
	TotalURLs    int
	TargetURLs   int
	SeedURLs     int
	FailedURLs   int
	ReachedDepth int
}

// Store is the persistence seam for the URL frontier (C2). A single
// implementation backs an entire run; callers never reach for SQL or
// an in-memory map directly, only through this interface, so a run
// can be driven against either a real database or a fake in tests.
//
// Grouping for TakePending/GetProcessedSeeds/Statistics is by
// category, per spec §4.2, not by MainDomain: a single category's
// traversal tree routinely spans several registrable hosts (a seed on
// one domain linking to a target on another), while MainDomain is now
// the admitting entry's own host, used solely by the rate limiter for
// per-domain politeness spacing.
type Store interface {
	// Admit inserts entry if its canonical URL is not already present
	// anywhere in the frontier. Returns ErrAlreadyAdmitted, not an
	// error, on a duplicate.
	Admit(ctx context.Context, entry Entry) (Entry, error)

	// GetByURL finds the admitted entry for a canonical URL string, if any.
	GetByURL(ctx context.Context, rawURL string) (Entry, error)

	// Exists reports whether rawURL has already been admitted.
	Exists(ctx context.Context, rawURL string) (bool, error)

	// SetStatus transitions entry id to status, recording errMessage
	// when status is StatusFailed. Returns ErrIllegalTransition if the
	// move is not legal from the entry's current state.
	SetStatus(ctx context.Context, id string, status Status, errMessage string) error

	// MarkTarget flips an existing entry's is_target flag to true. Used
	// by Type 0, where the entry verified as a target is the same
	// entry already admitted by the run controller, not a new child.
	MarkTarget(ctx context.Context, id string) error

	// TakePending claims up to n PENDING entries for category,
	// atomically marking them PROCESSING so two callers never claim the
	// same entry.
	TakePending(ctx context.Context, category string, n int) ([]Entry, error)

	// GetProcessedSeeds returns the seed-context entries (IsTarget
	// false, HasSeedPattern true) already PROCESSED for
	// category, so a replayed run can skip re-expanding them.
	GetProcessedSeeds(ctx context.Context, category string) ([]Entry, error)

	// Statistics aggregates counters for category for run-log reporting.
	Statistics(ctx context.Context, category string) (Statistics, error)
}
