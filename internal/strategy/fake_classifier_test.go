package strategy_test

import (
	"context"

	"github.com/rohmanhakim/frontier-crawler/internal/classifier"
)

// fakeClassifier returns a scripted classifier.Result keyed by the
// page URL it was asked to classify, so a single test can script a
// different answer per depth.
type fakeClassifier struct {
	results map[string]classifier.Result
	err     error
}

func (f *fakeClassifier) Classify(ctx context.Context, pageURL string, pageContent string, metadata map[string]string) (classifier.Result, error) {
	if f.err != nil {
		return classifier.Result{}, f.err
	}
	return f.results[pageURL], nil
}
