package pagesession

// Response is what Open returns after a navigation completes: enough
// of the HTTP-ish response shape for a strategy to apply a
// content-type check, without exposing chromedp's own types to the
// rest of the engine.
type Response struct {
	StatusCode  int
	ContentType string
}

// documentContentTypes are the content-type substrings accepted as
// document-ish rather than an HTML page.
var documentContentTypes = []string{
	"pdf",
	"msword",
	"openxmlformats",
	"ms-excel",
}

// IsDocumentContentType reports whether contentType looks like a
// downloadable office/PDF document rather than an HTML page.
func IsDocumentContentType(contentType string) bool {
	for _, want := range documentContentTypes {
		if containsFold(contentType, want) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	h, n := []rune(haystack), []rune(needle)
	if len(n) == 0 || len(n) > len(h) {
		return len(n) == 0
	}
	lower := func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}
	for i := 0; i+len(n) <= len(h); i++ {
		match := true
		for j := range n {
			if lower(h[i+j]) != lower(n[j]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
