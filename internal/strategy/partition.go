package strategy

import (
	"context"

	"github.com/rohmanhakim/frontier-crawler/internal/frontier"
	"github.com/rohmanhakim/frontier-crawler/internal/urlnorm"
)

// regexPartition admits every target_patterns match as a finalized
// target leaf, then — when attemptSeeds is true and the child depth
// still fits the entry's max_depth budget — admits every seed_pattern
// match as a seed to recurse into. It is shared by Types 3 and 4 wherever
// their depth-specific rule calls for plain regex classification.
func (d *Dispatcher) regexPartition(ctx context.Context, entry frontier.Entry, page fetchedPage, runLogID string, attemptSeeds bool) ([]frontier.Entry, error) {
	for _, link := range page.links {
		if !urlnorm.MatchesAny(link, entry.TargetPatterns).Matched {
			continue
		}
		if err := d.admitTarget(ctx, entry, link, runLogID); err != nil {
			return nil, err
		}
	}

	var seeds []frontier.Entry
	if !attemptSeeds || !entry.HasSeedPattern || entry.Depth+1 > entry.MaxDepth {
		return seeds, nil
	}

	for _, link := range page.links {
		if !urlnorm.Matches(link, entry.SeedPattern) {
			continue
		}
		seed, admitted, err := d.admitSeed(ctx, entry, link, runLogID)
		if err != nil {
			return nil, err
		}
		if admitted {
			seeds = append(seeds, seed)
		}
	}
	return seeds, nil
}
