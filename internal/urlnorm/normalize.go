// Package urlnorm implements the URL normalizer and target/seed pattern
// matcher. It is a pure, stateless leaf: no network calls, no
// frontier awareness, just deterministic string transforms.
//
// Canonicalization lowercases scheme and host, keeps query parameters
// sorted by key, and drops the trailing slash when the final path
// segment looks like a file (has an extension), adding one otherwise.
package urlnorm

import (
	"errors"
	"net/url"
	"sort"
	"strings"
)

var (
	ErrUnsupportedScheme = errors.New("unsupported URL scheme")
	ErrMissingHost       = errors.New("URL has no host")
)

// blockedSchemePrefixes are rejected outright.
var blockedSchemePrefixes = []string{"javascript:", "mailto:", "tel:"}

// Canonicalize resolves raw against base (the current page URL, may be
// the zero value for an already-absolute URL) and produces the
// canonical admission key. It is idempotent:
// Canonicalize(Canonicalize(u).String(), zero) == Canonicalize(u).
func Canonicalize(raw string, base *url.URL) (url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	lowerPrefix := strings.ToLower(trimmed)
	for _, scheme := range blockedSchemePrefixes {
		if strings.HasPrefix(lowerPrefix, scheme) {
			return url.URL{}, ErrUnsupportedScheme
		}
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return url.URL{}, err
	}

	resolved := parsed
	if base != nil && !parsed.IsAbs() {
		resolved = base.ResolveReference(parsed)
	}

	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return url.URL{}, ErrUnsupportedScheme
	}

	if resolved.Host == "" || strings.HasPrefix(resolved.Host, ".") {
		return url.URL{}, ErrMissingHost
	}

	canonical := *resolved

	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)
	stripDefaultPort(&canonical)

	canonical.Fragment = ""
	canonical.RawFragment = ""

	sortQuery(&canonical)

	normalizeTrailingSlash(&canonical)

	return canonical, nil
}

// stripDefaultPort removes :80 on http and :443 on https.
func stripDefaultPort(u *url.URL) {
	host, port := u.Hostname(), u.Port()
	if port == "" {
		return
	}
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		u.Host = host
	}
}

// sortQuery preserves the query string but sorts parameters
// lexicographically by key, so two URLs differing only in
// query-parameter order canonicalize identically.
func sortQuery(u *url.URL) {
	if u.RawQuery == "" {
		return
	}
	values := u.Query()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		for j, v := range values[k] {
			if i > 0 || j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	u.RawQuery = b.String()
}

// normalizeTrailingSlash makes trailing-slash presence agree with
// whether the final path segment carries a file extension. A segment
// with no '.' is treated as a directory and gets a trailing slash;
// one with a '.' is treated as a file and loses it.
func normalizeTrailingSlash(u *url.URL) {
	if u.Path == "" {
		u.Path = "/"
		return
	}

	lastSlash := strings.LastIndexByte(u.Path, '/')
	lastSegment := u.Path[lastSlash+1:]

	hasExtension := strings.Contains(lastSegment, ".")

	switch {
	case hasExtension:
		// trim any trailing slash(es); a file URL never ends in '/'
		for len(u.Path) > 1 && strings.HasSuffix(u.Path, "/") {
			u.Path = u.Path[:len(u.Path)-1]
		}
	case !strings.HasSuffix(u.Path, "/"):
		u.Path += "/"
	}
}

func lowerASCII(s string) string {
	needsLower := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}
