package strategy

import (
	"context"

	"github.com/rohmanhakim/frontier-crawler/internal/frontier"
	"github.com/rohmanhakim/frontier-crawler/internal/urlnorm"
)

// processFullAI implements Type 4: AI-driven classification at every
// depth below max_depth-1, regex-only target collection at the final
// depth. visited dedupes seed URLs the classifier re-surfaces within
// this root's traversal before the frontier's own admission check
// would catch them.
func (d *Dispatcher) processFullAI(ctx context.Context, entry frontier.Entry, runLogID string, visited *visitedSet) ([]frontier.Entry, error) {
	page, err := d.fetchAndStabilize(ctx, entry)
	if err != nil {
		return nil, err
	}

	if entry.Depth >= entry.MaxDepth-1 {
		return d.regexPartition(ctx, entry, page, runLogID, false)
	}

	result, err := d.classifier.Classify(ctx, entry.URL.String(), page.content, classifierMetadata(entry))
	if err != nil {
		d.logger.RecordWarning("strategy", "classifier failed, falling back to regex targets", map[string]string{"url": entry.URL.String()})
		_ = d.runLogStore.AddWarning(ctx, runLogID, "classifier unavailable at "+entry.URL.String()+", targets only")
		return d.regexPartition(ctx, entry, page, runLogID, false)
	}

	for _, t := range result.Targets {
		if err := d.admitTarget(ctx, entry, t, runLogID); err != nil {
			return nil, err
		}
	}

	var seeds []frontier.Entry
	for _, raw := range result.Seeds {
		canonical, ok := canonicalKey(entry, raw)
		if !ok || !visited.markIfNew(canonical) {
			continue
		}
		seed, admitted, err := d.admitSeed(ctx, entry, raw, runLogID)
		if err != nil {
			return nil, err
		}
		if admitted {
			seeds = append(seeds, seed)
		}
	}
	return seeds, nil
}

func canonicalKey(entry frontier.Entry, raw string) (string, bool) {
	canonical, err := urlnorm.Canonicalize(raw, &entry.URL)
	if err != nil {
		return "", false
	}
	return canonical.String(), true
}
