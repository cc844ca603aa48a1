package strategy

import (
	"context"

	"github.com/rohmanhakim/frontier-crawler/internal/frontier"
	"github.com/rohmanhakim/frontier-crawler/internal/urlnorm"
)

// processSeedTarget implements Type 2: partition the root's links into
// targets and seeds by regex, admit both, then fetch each seed once
// more to collect its own target matches. It never descends past that
// second level — max_depth=1 is enforced by construction, not by a
// depth check.
func (d *Dispatcher) processSeedTarget(ctx context.Context, entry frontier.Entry, runLogID string) error {
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

	var seeds []frontier.Entry
	for _, link := range page.links {
		if !entry.HasSeedPattern || !urlnorm.Matches(link, entry.SeedPattern) {
			continue
		}
		seed, admitted, err := d.admitSeed(ctx, entry, link, runLogID)
		if err != nil {
			return err
		}
		if admitted {
			seeds = append(seeds, seed)
		}
	}

	for _, seed := range seeds {
		if err := d.processSeedLeaf(ctx, seed, runLogID); err != nil {
			return err
		}
	}
	return nil
}

// processSeedLeaf fetches an already-admitted seed once, keeps only
// its target matches, and finalizes the seed's own status. A fetch
// fault here fails the seed entry and warns the run log, but never
// aborts the enclosing root.
func (d *Dispatcher) processSeedLeaf(ctx context.Context, seed frontier.Entry, runLogID string) error {
	if err := d.frontierStore.SetStatus(ctx, seed.ID, frontier.StatusProcessing, ""); err != nil {
		return &bootstrapError{err: err}
	}

	page, err := d.fetchAndStabilize(ctx, seed)
	if err != nil {
		d.finalizeFailed(ctx, seed, runLogID, err)
		return nil
	}

	for _, link := range page.links {
		if !urlnorm.MatchesAny(link, seed.TargetPatterns).Matched {
			continue
		}
		if err := d.admitTarget(ctx, seed, link, runLogID); err != nil {
			return err
		}
	}

	if err := d.frontierStore.SetStatus(ctx, seed.ID, frontier.StatusProcessed, ""); err != nil {
		return &bootstrapError{err: err}
	}
	return nil
}
