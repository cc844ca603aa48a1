package config

import (
	"fmt"
	"net/url"
)

// UrlType is the strategy key a RootURLConfig is dispatched under:
// one of DIRECT_TARGET, SINGLE_PAGE, SEED_TARGET, COMPLEX_AI, FULL_AI.
type UrlType int

const (
	TypeDirectTarget UrlType = iota
	TypeSinglePage
	TypeSeedTarget
	TypeComplexAI
	TypeFullAI
)

func (t UrlType) String() string {
	switch t {
	case TypeDirectTarget:
		return "DIRECT_TARGET"
	case TypeSinglePage:
		return "SINGLE_PAGE"
	case TypeSeedTarget:
		return "SEED_TARGET"
	case TypeComplexAI:
		return "COMPLEX_AI"
	case TypeFullAI:
		return "FULL_AI"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int(t))
	}
}

// ParseUrlType maps the raw integer read from configuration (0..4) to a UrlType.
func ParseUrlType(raw int) (UrlType, error) {
	if raw < int(TypeDirectTarget) || raw > int(TypeFullAI) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidUrlType, raw)
	}
	return UrlType(raw), nil
}

// RootURLConfig is one operator-configured root URL, as read from the
// configuration document. It is immutable once constructed and is the
// value every FrontierEntry in its traversal tree inherits verbatim.
type RootURLConfig struct {
	url            url.URL
	urlType        UrlType
	targetPatterns []string
	seedPattern    string
	hasSeedPattern bool
	maxDepth       int
}

func NewRootURLConfig(
	rootURL url.URL,
	urlType UrlType,
	targetPatterns []string,
	seedPattern string,
	hasSeedPattern bool,
	maxDepth int,
) (RootURLConfig, error) {
	cfg := RootURLConfig{
		url:            rootURL,
		urlType:        urlType,
		targetPatterns: targetPatterns,
		seedPattern:    seedPattern,
		hasSeedPattern: hasSeedPattern,
		maxDepth:       maxDepth,
	}
	if err := cfg.validate(); err != nil {
		return RootURLConfig{}, err
	}
	return cfg, nil
}

// validate enforces the per-type max_depth and pattern constraints.
// A violation here is a config failure the caller should refuse to
// admit, not silently coerce.
func (c RootURLConfig) validate() error {
	switch c.urlType {
	case TypeDirectTarget, TypeSinglePage:
		if c.maxDepth != 0 {
			return fmt.Errorf("%w: type %s requires max_depth=0, got %d", ErrInvalidMaxDepth, c.urlType, c.maxDepth)
		}
		if len(c.targetPatterns) == 0 {
			return fmt.Errorf("%w: type %s requires target_patterns", ErrMissingPatterns, c.urlType)
		}
	case TypeSeedTarget:
		if c.maxDepth != 1 {
			return fmt.Errorf("%w: type %s requires max_depth=1, got %d", ErrInvalidMaxDepth, c.urlType, c.maxDepth)
		}
		if len(c.targetPatterns) == 0 || !c.hasSeedPattern {
			return fmt.Errorf("%w: type %s requires target_patterns and seed_pattern", ErrMissingPatterns, c.urlType)
		}
	case TypeComplexAI:
		if c.maxDepth != 2 {
			return fmt.Errorf("%w: type %s requires max_depth=2, got %d", ErrInvalidMaxDepth, c.urlType, c.maxDepth)
		}
		if len(c.targetPatterns) == 0 || !c.hasSeedPattern {
			return fmt.Errorf("%w: type %s requires target_patterns and seed_pattern", ErrMissingPatterns, c.urlType)
		}
	case TypeFullAI:
		if c.maxDepth < 2 {
			return fmt.Errorf("%w: type %s requires max_depth>=2, got %d", ErrInvalidMaxDepth, c.urlType, c.maxDepth)
		}
		if len(c.targetPatterns) == 0 {
			return fmt.Errorf("%w: type %s requires target_patterns", ErrMissingPatterns, c.urlType)
		}
	default:
		return fmt.Errorf("%w: %d", ErrInvalidUrlType, int(c.urlType))
	}
	return nil
}

func (c RootURLConfig) URL() url.URL              { return c.url }
func (c RootURLConfig) UrlType() UrlType           { return c.urlType }
func (c RootURLConfig) TargetPatterns() []string   { return c.targetPatterns }
func (c RootURLConfig) SeedPattern() (string, bool) {
	return c.seedPattern, c.hasSeedPattern
}
func (c RootURLConfig) MaxDepth() int { return c.maxDepth }

// CategoryConfig groups root URLs under an operator-defined label that
// every descendant FrontierEntry inherits as its category.
type CategoryConfig struct {
	name  string
	roots []RootURLConfig
}

func NewCategoryConfig(name string, roots []RootURLConfig) CategoryConfig {
	return CategoryConfig{name: name, roots: roots}
}

func (c CategoryConfig) Name() string            { return c.name }
func (c CategoryConfig) Roots() []RootURLConfig { return c.roots }
