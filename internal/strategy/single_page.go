package strategy

import (
	"context"

	"github.com/rohmanhakim/frontier-crawler/internal/frontier"
	"github.com/rohmanhakim/frontier-crawler/internal/urlnorm"
)

// processSinglePage implements Type 1: fetch the root once, keep the
// links matching target_patterns, and admit each as a finalized
// target leaf. No further traversal.
func (d *Dispatcher) processSinglePage(ctx context.Context, entry frontier.Entry, runLogID string) error {
	page, err := d.fetchAndStabilize(ctx, entry)
	if err != nil {
		return err
	}

	for _, link := range page.links {
		if !urlnorm.MatchesAny(link, entry.TargetPatterns).Matched {
			continue
		}
		if err := d.admitTarget(ctx, entry, link, runLogID); err != nil {
			return err
		}
	}
	return nil
}
