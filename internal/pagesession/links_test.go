package pagesession_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rohmanhakim/frontier-crawler/internal/extractor"
	"github.com/rohmanhakim/frontier-crawler/internal/pagesession"
)

func TestResolveLinks_CanonicalizesAndDedupes(t *testing.T) {
	base, err := url.Parse("https://example.org/docs/index")
	require.NoError(t, err)

	raw := extractor.RawLinks{
		Hrefs: []string{"/a.pdf", "https://EXAMPLE.ORG/a.pdf", "javascript:void(0)", "/b.html"},
	}

	got := pagesession.ResolveLinks(raw, *base)

	var strs []string
	for _, u := range got {
		strs = append(strs, u.String())
	}
	assert.ElementsMatch(t, []string{"https://example.org/a.pdf", "https://example.org/b.html"}, strs)
}

func TestResolveLinks_EmptyInput(t *testing.T) {
	base, err := url.Parse("https://example.org/")
	require.NoError(t, err)

	got := pagesession.ResolveLinks(extractor.RawLinks{}, *base)
	assert.Empty(t, got)
}
