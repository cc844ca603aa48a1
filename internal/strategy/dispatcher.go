// Package strategy implements the five depth-bounded traversal
// policies keyed by URL type: DIRECT_TARGET, SINGLE_PAGE, SEED_TARGET,
// COMPLEX_AI and FULL_AI. A Dispatcher processes one frontier entry at
// a time, recursing into newly admitted seed entries itself rather
// than handing them back to a worklist.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rohmanhakim/frontier-crawler/internal/classifier"
	"github.com/rohmanhakim/frontier-crawler/internal/config"
	"github.com/rohmanhakim/frontier-crawler/internal/extractor"
	"github.com/rohmanhakim/frontier-crawler/internal/frontier"
	"github.com/rohmanhakim/frontier-crawler/internal/logging"
	"github.com/rohmanhakim/frontier-crawler/internal/pagesession"
	"github.com/rohmanhakim/frontier-crawler/internal/ratelimit"
	"github.com/rohmanhakim/frontier-crawler/internal/robots"
	"github.com/rohmanhakim/frontier-crawler/internal/runlog"
	"github.com/rohmanhakim/frontier-crawler/internal/urlnorm"
)

// SessionFactory opens a fresh PageSession per URL. A Dispatcher never
// keeps a session across entries.
type SessionFactory func() pagesession.PageSession

// Dispatcher owns the dependencies every strategy needs: the frontier
// and run-log stores for admission and bookkeeping, a page-session
// factory for fetching, an optional classifier, the politeness
// limiter, the robots seam, and a logger.
type Dispatcher struct {
	frontierStore frontier.Store
	runLogStore   runlog.Store
	newSession    SessionFactory
	classifier    classifier.Classifier
	limiter       *ratelimit.Limiter
	robot         robots.Robot
	logger        logging.Logger
}

// New builds a Dispatcher. cls may be classifier.NewNoOp() when no
// credentials are configured.
func New(
	frontierStore frontier.Store,
	runLogStore runlog.Store,
	newSession SessionFactory,
	cls classifier.Classifier,
	limiter *ratelimit.Limiter,
	robot robots.Robot,
	logger logging.Logger,
) *Dispatcher {
	return &Dispatcher{
		frontierStore: frontierStore,
		runLogStore:   runLogStore,
		newSession:    newSession,
		classifier:    cls,
		limiter:       limiter,
		robot:         robot,
		logger:        logger,
	}
}

// bootstrapError marks a fault severe enough to abort the current
// root's traversal (e.g. the browser process died mid-run). Per-URL
// faults never produce one; they are absorbed as FAILED entries plus
// a run-log warning.
type bootstrapError struct {
	err error
}

func (e *bootstrapError) Error() string { return "strategy: bootstrap fault: " + e.err.Error() }
func (e *bootstrapError) Unwrap() error { return e.err }

// Process drives root through its configured strategy, recursing into
// every seed it admits along the way. It returns a non-nil error only
// for a bootstrap-level fault; every other fault is recorded against
// the entry and the run log and absorbed.
func (d *Dispatcher) Process(ctx context.Context, root frontier.Entry, runLogID string) error {
	return d.processEntry(ctx, root, runLogID, newVisitedSet())
}

// visitedSet is the per-root-call in-memory dedupe of seed URLs the
// classifier returns. Only Type 4 (processFullAI) consults it; Type 3
// relies on the frontier's own uniqueness check alone. Admissions land
// synchronously, so the frontier would also reject a repeated URL; the
// set lets processFullAI skip it before reaching Exists/Admit.
type visitedSet struct {
	seen map[string]struct{}
}

func newVisitedSet() *visitedSet {
	return &visitedSet{seen: make(map[string]struct{})}
}

func (v *visitedSet) markIfNew(key string) bool {
	if _, ok := v.seen[key]; ok {
		return false
	}
	v.seen[key] = struct{}{}
	return true
}

func (d *Dispatcher) processEntry(ctx context.Context, entry frontier.Entry, runLogID string, visited *visitedSet) error {
	if err := d.frontierStore.SetStatus(ctx, entry.ID, frontier.StatusProcessing, ""); err != nil {
		return &bootstrapError{err: fmt.Errorf("transition to processing: %w", err)}
	}

	d.warnInvalidPatterns(ctx, entry, runLogID)

	var procErr error
	var seeds []frontier.Entry

	switch entry.UrlType {
	case config.TypeDirectTarget:
		procErr = d.processDirectTarget(ctx, entry, runLogID)
	case config.TypeSinglePage:
		procErr = d.processSinglePage(ctx, entry, runLogID)
	case config.TypeSeedTarget:
		procErr = d.processSeedTarget(ctx, entry, runLogID)
	case config.TypeComplexAI:
		seeds, procErr = d.processComplexAI(ctx, entry, runLogID)
	case config.TypeFullAI:
		seeds, procErr = d.processFullAI(ctx, entry, runLogID, visited)
	default:
		procErr = fmt.Errorf("%w: %s", errUnknownURLType, entry.UrlType)
	}

	if procErr != nil {
		var boot *bootstrapError
		if errors.As(procErr, &boot) {
			return boot
		}
		d.finalizeFailed(ctx, entry, runLogID, procErr)
		return nil
	}

	if err := d.frontierStore.SetStatus(ctx, entry.ID, frontier.StatusProcessed, ""); err != nil {
		return &bootstrapError{err: fmt.Errorf("transition to processed: %w", err)}
	}

	for _, seed := range seeds {
		if err := d.processEntry(ctx, seed, runLogID, visited); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dispatcher) finalizeFailed(ctx context.Context, entry frontier.Entry, runLogID string, cause error) {
	_ = d.frontierStore.SetStatus(ctx, entry.ID, frontier.StatusFailed, cause.Error())
	_ = d.runLogStore.AddCounters(ctx, runLogID, 0, 0, 0, 1)
	_ = d.runLogStore.AddWarning(ctx, runLogID, fmt.Sprintf("%s: %v", entry.URL.String(), cause))
	d.logger.RecordError("strategy", "process_entry", logging.CauseNetwork, cause.Error(), map[string]string{"url": entry.URL.String()})
}

// fetchedPage bundles what every non-Type0 strategy needs out of one
// open-stabilize-extract cycle.
type fetchedPage struct {
	response pagesession.Response
	links    []string
	content  string
}

// fetchAndStabilize opens entry.URL, stabilizes the page, and extracts
// its links, all under the politeness limiter.
func (d *Dispatcher) fetchAndStabilize(ctx context.Context, entry frontier.Entry) (fetchedPage, error) {
	if !d.robot.Decide(entry.URL).Allowed {
		return fetchedPage{}, fmt.Errorf("%w: %s", errRobotsDisallowed, entry.URL.String())
	}

	if err := d.limiter.Acquire(ctx, entry.MainDomain); err != nil {
		return fetchedPage{}, fmt.Errorf("acquire rate limiter: %w", err)
	}
	defer d.limiter.Release()

	session := d.newSession()
	defer session.Close()

	start := time.Now()
	resp, err := session.Open(ctx, entry.URL)
	if err != nil {
		d.limiter.Backoff(entry.MainDomain)
		return fetchedPage{}, fmt.Errorf("open: %w", err)
	}

	if err := session.Stabilize(ctx); err != nil {
		d.limiter.Backoff(entry.MainDomain)
		return fetchedPage{}, fmt.Errorf("stabilize: %w", err)
	}

	links, err := session.ExtractLinks(ctx)
	if err != nil {
		d.limiter.Backoff(entry.MainDomain)
		return fetchedPage{}, fmt.Errorf("extract: %w", err)
	}
	d.limiter.ResetBackoff(entry.MainDomain)

	d.logger.RecordFetch(entry.URL.String(), resp.StatusCode, time.Since(start), resp.ContentType, entry.Depth)

	linkStrs := make([]string, 0, len(links))
	for _, l := range links {
		linkStrs = append(linkStrs, l.String())
	}

	return fetchedPage{response: resp, links: linkStrs, content: session.Content()}, nil
}

// admitTarget admits childURL as a target leaf of parent and
// immediately finalizes it PROCESSED: a regex/AI target match is
// taken as verified on its own, with no further fetch required.
// Self-reference is discarded, and a duplicate admission is a no-op
// rather than a failure (the core dedupes targets by canonical URL;
// it has no force-admit path for recording alternative provenance).
func (d *Dispatcher) admitTarget(ctx context.Context, parent frontier.Entry, childURL string, runLogID string) error {
	canonical, err := urlnorm.Canonicalize(childURL, &parent.URL)
	if err != nil {
		return nil
	}
	if canonical.String() == parent.URL.String() {
		return nil
	}

	child := frontier.NewChildEntry(uuid.NewString(), parent, canonical, true, time.Now())
	admitted, err := d.frontierStore.Admit(ctx, child)
	if err != nil {
		if err == frontier.ErrAlreadyAdmitted {
			d.logger.RecordAdmission(canonical.String(), parent.Category, child.Depth, true, false)
			return nil
		}
		return &bootstrapError{err: fmt.Errorf("admit target: %w", err)}
	}

	d.logger.RecordAdmission(canonical.String(), parent.Category, child.Depth, true, true)
	if err := d.frontierStore.SetStatus(ctx, admitted.ID, frontier.StatusProcessing, ""); err != nil {
		return &bootstrapError{err: fmt.Errorf("finalize target: %w", err)}
	}
	if err := d.frontierStore.SetStatus(ctx, admitted.ID, frontier.StatusProcessed, ""); err != nil {
		return &bootstrapError{err: fmt.Errorf("finalize target: %w", err)}
	}
	return d.runLogStore.AddCounters(ctx, runLogID, 1, 1, 0, 0)
}

// admitSeed admits childURL as a seed child of parent, skipping it
// when it is already present in the frontier (under any status) —
// the core's sole replay-safety rule. It returns the new entry and
// whether it was actually admitted.
func (d *Dispatcher) admitSeed(ctx context.Context, parent frontier.Entry, childURL string, runLogID string) (frontier.Entry, bool, error) {
	canonical, err := urlnorm.Canonicalize(childURL, &parent.URL)
	if err != nil {
		return frontier.Entry{}, false, nil
	}
	if canonical.String() == parent.URL.String() {
		return frontier.Entry{}, false, nil
	}

	exists, err := d.frontierStore.Exists(ctx, canonical.String())
	if err != nil {
		return frontier.Entry{}, false, &bootstrapError{err: fmt.Errorf("check existing seed: %w", err)}
	}
	if exists {
		d.logger.RecordAdmission(canonical.String(), parent.Category, parent.Depth+1, false, false)
		return frontier.Entry{}, false, nil
	}

	child := frontier.NewChildEntry(uuid.NewString(), parent, canonical, false, time.Now())
	admitted, err := d.frontierStore.Admit(ctx, child)
	if err != nil {
		if err == frontier.ErrAlreadyAdmitted {
			d.logger.RecordAdmission(canonical.String(), parent.Category, child.Depth, false, false)
			return frontier.Entry{}, false, nil
		}
		return frontier.Entry{}, false, &bootstrapError{err: fmt.Errorf("admit seed: %w", err)}
	}

	d.logger.RecordAdmission(canonical.String(), parent.Category, child.Depth, false, true)
	if err := d.runLogStore.AddCounters(ctx, runLogID, 1, 0, 1, 0); err != nil {
		return frontier.Entry{}, false, &bootstrapError{err: fmt.Errorf("count seed: %w", err)}
	}
	if err := d.runLogStore.SetReachedDepth(ctx, runLogID, admitted.Depth); err != nil {
		return frontier.Entry{}, false, &bootstrapError{err: fmt.Errorf("set reached depth: %w", err)}
	}
	return admitted, true, nil
}

// warnInvalidPatterns checks entry's inherited target_patterns and
// seed_pattern for regex validity once per entry and records a
// warning for each unusable pattern, per spec §4.1: an invalid regex
// is skipped at match time, not fatal, but the operator needs to see
// it. It never fails the entry.
func (d *Dispatcher) warnInvalidPatterns(ctx context.Context, entry frontier.Entry, runLogID string) {
	invalid := urlnorm.MatchesAny(entry.URL.String(), entry.TargetPatterns).InvalidPatterns
	if entry.HasSeedPattern && !urlnorm.IsValidPattern(entry.SeedPattern) {
		invalid = append(invalid, entry.SeedPattern)
	}
	for _, p := range invalid {
		d.logger.RecordWarning("urlnorm", "invalid pattern skipped", map[string]string{"pattern": p, "url": entry.URL.String()})
		_ = d.runLogStore.AddWarning(ctx, runLogID, fmt.Sprintf("invalid pattern %q at %s", p, entry.URL.String()))
	}
}

func classifierMetadata(entry frontier.Entry) map[string]string {
	return map[string]string{
		"category": entry.Category,
		"depth":    strconv.Itoa(entry.Depth),
	}
}

var (
	errUnknownURLType   = fmt.Errorf("unrecognized url type")
	errRobotsDisallowed = fmt.Errorf("robots policy disallows fetch")
)

// documentExtension reports whether rawPath carries a recognized
// document extension, reusing the extractor's file-typed pattern.
func documentExtension(rawPath string) bool {
	return extractor.IsFileTyped(rawPath)
}
