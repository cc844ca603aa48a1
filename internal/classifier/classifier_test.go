package classifier_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/frontier-crawler/internal/classifier"
)

func TestNoOp_AlwaysEmpty(t *testing.T) {
	c := classifier.NewNoOp()
	result, err := c.Classify(context.Background(), "https://example.org/a", "<html></html>", nil)
	require.NoError(t, err)
	assert.Empty(t, result.Targets)
	assert.Empty(t, result.Seeds)
}
