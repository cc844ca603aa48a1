// Package extractor implements the DOM half of the page session's
// link discovery: anchors, onclick navigation handlers,
// data-href/data-url attributes, and file-typed download links. It is
// a pure function over an already rendered HTML document; it never
// drives navigation itself (that is internal/pagesession's job with
// chromedp) and never normalizes URLs (that is internal/urlnorm's
// job).
package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// fileExtensionPattern matches the document extensions this crawler
// treats as downloadable: pdf, doc(x), xls(x), txt, csv, zip, rar.
var fileExtensionPattern = regexp.MustCompile(`(?i)\.(pdf|docx?|xlsx?|txt|csv|zip|rar)$`)

// onclickLocationPattern matches `window.location[.href] = '<url>'` or
// the double-quoted equivalent inside an onclick handler.
var onclickLocationPattern = regexp.MustCompile(`window\.location(?:\.href)?\s*=\s*['"]([^'"]+)['"]`)

// onclickDownloadPattern scans onclick handlers for bare URL literals
// pointing at a downloadable file, used by the dedicated file-link
// scan alongside the explicit selector set.
var onclickDownloadPattern = regexp.MustCompile(`['"]([^'"]+\.(?:pdf|docx?|xlsx?|txt|csv|zip|rar))['"]`)

// RawLinks holds every link candidate extract_links discovered,
// still in whatever relative/absolute form the page carried it. The
// page session resolves and canonicalizes each one via urlnorm before
// admission.
type RawLinks struct {
	// Hrefs covers (a) <a href> and file URLs quoted inside onclick
	// download handlers.
	Hrefs []string
	// OnclickLocations covers (b) onclick navigation handlers.
	OnclickLocations []string
	// DataAttributes covers (c) data-href / data-url and (d) file-typed
	// data-file / data-download values.
	DataAttributes []string
}

// All returns the deduplicated union of every discovered candidate,
// in discovery order: anchors first, then onclick, then data
// attributes.
func (r RawLinks) All() []string {
	seen := make(map[string]struct{})
	var all []string
	for _, group := range [][]string{r.Hrefs, r.OnclickLocations, r.DataAttributes} {
		for _, v := range group {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			all = append(all, v)
		}
	}
	return all
}

// ExtractLinks scans a fully stabilized page's HTML source for link
// candidates. html is the page's outer HTML, as captured by the page
// session after stabilization (cookie dismissal, load-more exhaustion,
// modal harvesting).
func ExtractLinks(html string) (RawLinks, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return RawLinks{}, err
	}

	var result RawLinks

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			result.Hrefs = append(result.Hrefs, href)
		}
	})

	doc.Find("[onclick]").Each(func(_ int, s *goquery.Selection) {
		onclick, _ := s.Attr("onclick")
		if m := onclickLocationPattern.FindStringSubmatch(onclick); m != nil {
			result.OnclickLocations = append(result.OnclickLocations, m[1])
		}
		if m := onclickDownloadPattern.FindStringSubmatch(onclick); m != nil {
			result.Hrefs = append(result.Hrefs, m[1])
		}
	})

	doc.Find("[data-href]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("data-href"); ok {
			result.DataAttributes = append(result.DataAttributes, v)
		}
	})
	doc.Find("[data-url]").Each(func(_ int, s *goquery.Selection) {
		if v, ok := s.Attr("data-url"); ok {
			result.DataAttributes = append(result.DataAttributes, v)
		}
	})

	// Dedicated file-typed selector scan: anchors whose href already
	// looked like a file are in result.Hrefs above; this additionally
	// keeps elements whose visible download affordance lives outside a
	// plain <a href>, e.g. a <button data-file="...">.
	doc.Find("[data-file], [data-download]").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"data-file", "data-download"} {
			if v, ok := s.Attr(attr); ok && fileExtensionPattern.MatchString(v) {
				result.DataAttributes = append(result.DataAttributes, v)
			}
		}
	})

	return result, nil
}

// IsFileTyped reports whether a discovered URL carries one of the
// recognized document extensions.
func IsFileTyped(rawURL string) bool {
	return fileExtensionPattern.MatchString(rawURL)
}
