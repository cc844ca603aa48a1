package strategy

import (
	"context"
	"fmt"

	"github.com/rohmanhakim/frontier-crawler/internal/frontier"
	"github.com/rohmanhakim/frontier-crawler/internal/pagesession"
	"github.com/rohmanhakim/frontier-crawler/internal/urlnorm"
)

// processDirectTarget implements Type 0: the entry's own URL is the
// candidate target. A pattern mismatch is a no-op, not a fault; a
// fetch that fails the document check is a fault.
func (d *Dispatcher) processDirectTarget(ctx context.Context, entry frontier.Entry, runLogID string) error {
	if !urlnorm.MatchesAny(entry.URL.String(), entry.TargetPatterns).Matched {
		return nil
	}

	if !d.robot.Decide(entry.URL).Allowed {
		return fmt.Errorf("%w: %s", errRobotsDisallowed, entry.URL.String())
	}

	if err := d.limiter.Acquire(ctx, entry.MainDomain); err != nil {
		return fmt.Errorf("acquire rate limiter: %w", err)
	}
	defer d.limiter.Release()

	session := d.newSession()
	defer session.Close()

	resp, err := session.Open(ctx, entry.URL)
	if err != nil {
		d.limiter.Backoff(entry.MainDomain)
		return fmt.Errorf("open: %w", err)
	}
	d.limiter.ResetBackoff(entry.MainDomain)
	d.logger.RecordFetch(entry.URL.String(), resp.StatusCode, 0, resp.ContentType, entry.Depth)

	documentish := pagesession.IsDocumentContentType(resp.ContentType) || documentExtension(entry.URL.Path)
	if resp.StatusCode != 200 || !documentish {
		return fmt.Errorf("%s: not a verifiable document (status=%d content_type=%q)", entry.URL.String(), resp.StatusCode, resp.ContentType)
	}

	if err := d.frontierStore.MarkTarget(ctx, entry.ID); err != nil {
		return &bootstrapError{err: fmt.Errorf("mark target: %w", err)}
	}
	return d.runLogStore.AddCounters(ctx, runLogID, 1, 1, 0, 0)
}
