// Package runcontroller is the sole control-plane authority of a
// crawl: for every configured category and root URL it admits the
// root, opens its run log, drives it through the strategy dispatcher,
// and finalizes the log from the run log's own counters. Roots are
// processed one at a time; concurrency within a root is the strategy
// dispatcher's and rate limiter's concern, not this package's.
package runcontroller

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rohmanhakim/frontier-crawler/internal/config"
	"github.com/rohmanhakim/frontier-crawler/internal/frontier"
	"github.com/rohmanhakim/frontier-crawler/internal/logging"
	"github.com/rohmanhakim/frontier-crawler/internal/runlog"
	"github.com/rohmanhakim/frontier-crawler/internal/strategy"
)

// Controller drives every category's roots to completion, one root at
// a time. It owns no fetching or classification logic itself; those
// live behind the Dispatcher it is handed.
type Controller struct {
	frontierStore frontier.Store
	runLogStore   runlog.Store
	dispatcher    *strategy.Dispatcher
	logger        logging.Logger
}

// New builds a Controller from the stores and dispatcher a run needs.
func New(frontierStore frontier.Store, runLogStore runlog.Store, dispatcher *strategy.Dispatcher, logger logging.Logger) *Controller {
	return &Controller{
		frontierStore: frontierStore,
		runLogStore:   runLogStore,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// RootResult reports the outcome of one root's traversal, surfaced
// for the CLI to print a summary after the whole run.
type RootResult struct {
	Category string
	URL      string
	Status   runlog.Status
	Stats    frontier.Statistics
}

// Run drives every root of every category to completion in order and
// returns one RootResult per root. A root whose traversal stops on a
// bootstrap-level fault (a dispatcher fault, or a store error while
// admitting the root or opening, reading or finishing its run log) is
// reported FAILED in its RootResult, and Run continues on to the next
// root rather than aborting the whole run.
func (c *Controller) Run(ctx context.Context, categories []config.CategoryConfig) ([]RootResult, error) {
	var results []RootResult

	for _, category := range categories {
		for _, root := range category.Roots() {
			result, err := c.runRoot(ctx, category.Name(), root)
			if err != nil {
				rootURL := root.URL()
				c.logger.RecordError("runcontroller", "run_root", logging.CausePersistence, err.Error(),
					map[string]string{"category": category.Name(), "url": rootURL.String()})
				result = RootResult{Category: category.Name(), URL: rootURL.String(), Status: runlog.StatusFailed}
			}
			results = append(results, result)
		}
	}
	return results, nil
}

// runRoot implements spec §4.7 steps 1-4 for a single root: admit,
// start the run log, dispatch, then finalize from the run log's own
// counters rather than from values the dispatcher threads
// back by hand.
func (c *Controller) runRoot(ctx context.Context, category string, root config.RootURLConfig) (RootResult, error) {
	now := time.Now()

	rootEntry := frontier.NewRootEntry(uuid.NewString(), root, category, now)
	admitted, err := c.frontierStore.Admit(ctx, rootEntry)
	if err != nil {
		return RootResult{}, fmt.Errorf("admit root: %w", err)
	}

	log := runlog.NewRunLog(uuid.NewString(), root, category, now)
	createdLog, err := c.runLogStore.Create(ctx, log)
	if err != nil {
		return RootResult{}, fmt.Errorf("create run log: %w", err)
	}

	startTime := time.Now()
	if err := c.runLogStore.Start(ctx, createdLog.ID, startTime); err != nil {
		return RootResult{}, fmt.Errorf("start run log: %w", err)
	}

	c.logger.RecordRunStart(admitted.URL.String(), category)

	dispatchErr := c.dispatcher.Process(ctx, admitted, createdLog.ID)

	// Re-read the run log's own counters rather than the frontier
	// store's Statistics, which now aggregates by category (spec
	// §4.2) and so spans every root sharing this one's category, not
	// just this root's subtree.
	finishedLog, getErr := c.runLogStore.Get(ctx, createdLog.ID)
	if getErr != nil {
		return RootResult{}, fmt.Errorf("read run log counters: %w", getErr)
	}
	stats := frontier.Statistics{
		TotalURLs:    finishedLog.TotalURLsFound,
		TargetURLs:   finishedLog.TargetURLsFound,
		SeedURLs:     finishedLog.SeedURLsFound,
		FailedURLs:   finishedLog.FailedURLs,
		ReachedDepth: finishedLog.ReachedDepth,
	}

	endTime := time.Now()
	status := runlog.Finalize(stats.TotalURLs, stats.FailedURLs)
	errMessage := ""
	if dispatchErr != nil {
		status = runlog.StatusFailed
		errMessage = dispatchErr.Error()
	}

	if err := c.runLogStore.Finish(ctx, createdLog.ID, status, endTime, errMessage); err != nil {
		return RootResult{}, fmt.Errorf("finish run log: %w", err)
	}

	c.logger.RecordRunFinish(admitted.URL.String(), string(status), endTime.Sub(startTime), stats.TargetURLs, stats.SeedURLs, stats.FailedURLs)

	return RootResult{
		Category: category,
		URL:      admitted.URL.String(),
		Status:   status,
		Stats:    stats,
	}, nil
}
