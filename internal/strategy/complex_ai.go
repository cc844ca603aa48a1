package strategy

import (
	"context"

	"github.com/rohmanhakim/frontier-crawler/internal/classifier"
	"github.com/rohmanhakim/frontier-crawler/internal/frontier"
)

// processComplexAI implements Type 3: a fixed three-level policy
// regardless of the generic recursion driving it — depth 0 and the
// final depth (== max_depth, always 2) use regex classification;
// the single depth in between uses the AI classifier.
func (d *Dispatcher) processComplexAI(ctx context.Context, entry frontier.Entry, runLogID string) ([]frontier.Entry, error) {
	page, err := d.fetchAndStabilize(ctx, entry)
	if err != nil {
		return nil, err
	}

	switch {
	case entry.Depth == 0:
		return d.regexPartition(ctx, entry, page, runLogID, true)
	case entry.Depth >= entry.MaxDepth:
		return d.regexPartition(ctx, entry, page, runLogID, false)
	default:
		result, err := d.classifier.Classify(ctx, entry.URL.String(), page.content, classifierMetadata(entry))
		if err != nil {
			d.logger.RecordWarning("strategy", "classifier failed, falling back to regex", map[string]string{"url": entry.URL.String()})
			_ = d.runLogStore.AddWarning(ctx, runLogID, "classifier unavailable at "+entry.URL.String()+", used regex fallback")
			return d.regexPartition(ctx, entry, page, runLogID, true)
		}
		return d.admitClassifierResult(ctx, entry, result, runLogID)
	}
}

// admitClassifierResult turns a classifier.Result into frontier
// admissions, gating seed admission the same way regexPartition does.
func (d *Dispatcher) admitClassifierResult(ctx context.Context, entry frontier.Entry, result classifier.Result, runLogID string) ([]frontier.Entry, error) {
	for _, t := range result.Targets {
		if err := d.admitTarget(ctx, entry, t, runLogID); err != nil {
			return nil, err
		}
	}

	var seeds []frontier.Entry
	if entry.Depth+1 > entry.MaxDepth {
		return seeds, nil
	}
	for _, s := range result.Seeds {
		seed, admitted, err := d.admitSeed(ctx, entry, s, runLogID)
		if err != nil {
			return nil, err
		}
		if admitted {
			seeds = append(seeds, seed)
		}
	}
	return seeds, nil
}
