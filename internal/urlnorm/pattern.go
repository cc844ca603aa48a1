package urlnorm

import "regexp"

// MatchResult reports which patterns were usable and which were
// skipped, so callers can emit an "invalid regex" warning without
// failing the admission batch.
type MatchResult struct {
	Matched        bool
	InvalidPatterns []string
}

// MatchesAny reports whether u matches at least one element of
// patterns. Case-insensitive, `search` semantics (unanchored). An
// invalid pattern is skipped, not fatal.
func MatchesAny(u string, patterns []string) MatchResult {
	result := MatchResult{}
	for _, p := range patterns {
		re, err := compile(p)
		if err != nil {
			result.InvalidPatterns = append(result.InvalidPatterns, p)
			continue
		}
		if re.MatchString(u) {
			result.Matched = true
		}
	}
	return result
}

// Matches reports whether u matches the single pattern p. An invalid
// regex is treated as a non-match, not an error.
func Matches(u string, p string) bool {
	re, err := compile(p)
	if err != nil {
		return false
	}
	return re.MatchString(u)
}

// IsValidPattern reports whether p compiles as a pattern, so callers
// validating a lone seed_pattern can emit the same "invalid regex"
// warning MatchesAny produces for a target_patterns list.
func IsValidPattern(p string) bool {
	_, err := compile(p)
	return err == nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + pattern)
}
