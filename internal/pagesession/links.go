package pagesession

import (
	"net/url"

	"github.com/rohmanhakim/frontier-crawler/internal/extractor"
	"github.com/rohmanhakim/frontier-crawler/internal/urlnorm"
)

// ResolveLinks canonicalizes every raw link found on a page (anchors,
// onclick handlers, data-href/data-url attributes) against base, the
// page's own URL, dropping invalid-scheme links and de-duplicating by
// canonical form. It is the pure half of link extraction, split out so
// it is testable without a browser.
func ResolveLinks(raw extractor.RawLinks, base url.URL) []url.URL {
	seen := make(map[string]struct{})
	var resolved []url.URL

	for _, link := range raw.All() {
		canonical, err := urlnorm.Canonicalize(link, &base)
		if err != nil {
			continue
		}
		key := canonical.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		resolved = append(resolved, canonical)
	}

	return resolved
}
