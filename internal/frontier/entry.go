package frontier

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rohmanhakim/frontier-crawler/internal/config"
)

// Status is the FrontierEntry lifecycle state. An entry starts
// PENDING, moves to PROCESSING when a page session claims it, and
// ends at PROCESSED or FAILED. PENDING→SKIPPED is a legal edge, but no
// engine component takes it: a replay that finds a URL already in the
// frontier does not re-admit it, and the existing entry keeps its
// status.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusProcessed  Status = "PROCESSED"
	StatusFailed     Status = "FAILED"
	StatusSkipped    Status = "SKIPPED"
)

// CanTransitionTo reports whether moving from s to next is a legal
// edge in the frontier entry state machine.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusProcessing || next == StatusSkipped
	case StatusProcessing:
		return next == StatusProcessed || next == StatusFailed
	default:
		return false
	}
}

// Entry is one row of the URL frontier: a single URL discovered (or
// seeded) at a given depth, tagged with the category and pattern
// context its whole traversal tree shares.
type Entry struct {
	ID             string
	URL            url.URL
	Category       string
	UrlType        config.UrlType
	Depth          int
	MaxDepth       int
	MainDomain     string
	TargetPatterns []string
	SeedPattern    string
	HasSeedPattern bool
	IsTarget       bool
	ParentURL      string
	Status         Status
	ErrorMessage   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewRootEntry builds the Entry for a configured root URL: depth 0,
// no parent, PENDING.
func NewRootEntry(id string, root config.RootURLConfig, category string, now time.Time) Entry {
	seed, hasSeed := root.SeedPattern()
	u := root.URL()
	return Entry{
		ID:             id,
		URL:            u,
		Category:       category,
		UrlType:        root.UrlType(),
		Depth:          0,
		MaxDepth:       root.MaxDepth(),
		MainDomain:     u.Hostname(),
		TargetPatterns: root.TargetPatterns(),
		SeedPattern:    seed,
		HasSeedPattern: hasSeed,
		IsTarget:       false,
		ParentURL:      "",
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// NewChildEntry builds the Entry for a URL discovered while processing
// parent. The child inherits the parent's category, url_type, patterns
// and max_depth verbatim; depth, parent_url, url, is_target and
// main_domain (the child's own registrable host, not the parent's)
// vary.
func NewChildEntry(id string, parent Entry, childURL url.URL, isTarget bool, now time.Time) Entry {
	return Entry{
		ID:             id,
		URL:            childURL,
		Category:       parent.Category,
		UrlType:        parent.UrlType,
		Depth:          parent.Depth + 1,
		MaxDepth:       parent.MaxDepth,
		MainDomain:     childURL.Hostname(),
		TargetPatterns: parent.TargetPatterns,
		SeedPattern:    parent.SeedPattern,
		HasSeedPattern: parent.HasSeedPattern,
		IsTarget:       isTarget,
		ParentURL:      parent.URL.String(),
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// ValidateDepth reports whether the entry's depth respects its own
// max_depth budget. A strategy must never admit a child past this.
func (e Entry) ValidateDepth() error {
	if e.Depth > e.MaxDepth {
		return fmt.Errorf("depth %d exceeds max_depth %d for %s", e.Depth, e.MaxDepth, e.URL.String())
	}
	return nil
}
