package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EngineSettings holds the politeness, fetch and retry knobs of the
// core. Unlike CategoryConfig, these are not per-root; they apply
// uniformly across a run.
type EngineSettings struct {
	// MaxConcurrentPages bounds global in-flight page sessions (default 5).
	maxConcurrentPages int
	// MinDomainSpacing is the minimum time between two fetches of the same
	// registrable domain (default 2s).
	minDomainSpacing time.Duration
	jitter           time.Duration
	randomSeed       int64
	maxAttempt       int
	backoffInitial   time.Duration
	backoffMultiplier float64
	backoffMax       time.Duration
	// NavigationTimeout is the per-navigation budget (default 30s).
	navigationTimeout time.Duration
	userAgent         string
}

func DefaultEngineSettings() EngineSettings {
	return EngineSettings{
		maxConcurrentPages: 5,
		minDomainSpacing:   2 * time.Second,
		jitter:             200 * time.Millisecond,
		randomSeed:         time.Now().UnixNano(),
		maxAttempt:         3,
		backoffInitial:     500 * time.Millisecond,
		backoffMultiplier:  2.0,
		backoffMax:         10 * time.Second,
		navigationTimeout:  30 * time.Second,
		userAgent:          "frontier-crawler/1.0",
	}
}

func (e EngineSettings) MaxConcurrentPages() int        { return e.maxConcurrentPages }
func (e EngineSettings) MinDomainSpacing() time.Duration { return e.minDomainSpacing }
func (e EngineSettings) Jitter() time.Duration           { return e.jitter }
func (e EngineSettings) RandomSeed() int64               { return e.randomSeed }
func (e EngineSettings) MaxAttempt() int                 { return e.maxAttempt }
func (e EngineSettings) BackoffInitial() time.Duration   { return e.backoffInitial }
func (e EngineSettings) BackoffMultiplier() float64      { return e.backoffMultiplier }
func (e EngineSettings) BackoffMax() time.Duration       { return e.backoffMax }
func (e EngineSettings) NavigationTimeout() time.Duration { return e.navigationTimeout }
func (e EngineSettings) UserAgent() string               { return e.userAgent }

func (e *EngineSettings) WithMaxConcurrentPages(n int) *EngineSettings {
	e.maxConcurrentPages = n
	return e
}

func (e *EngineSettings) WithMinDomainSpacing(d time.Duration) *EngineSettings {
	e.minDomainSpacing = d
	return e
}

func (e *EngineSettings) WithUserAgent(ua string) *EngineSettings {
	e.userAgent = ua
	return e
}

// ---------------------------------------------------------------------
// On-disk document
// ---------------------------------------------------------------------

type rootURLDTO struct {
	URL            string   `yaml:"url"`
	Type           int      `yaml:"type"`
	TargetPatterns []string `yaml:"target_patterns"`
	SeedPattern    *string  `yaml:"seed_pattern"`
	MaxDepth       int      `yaml:"max_depth"`
}

type categoryDTO struct {
	Name  string       `yaml:"name"`
	Roots []rootURLDTO `yaml:"roots"`
}

type documentDTO struct {
	Categories []categoryDTO `yaml:"categories"`
}

// LoadCategories reads and validates the YAML configuration document
// at path, materializing the []CategoryConfig the run controller
// consumes. The core never writes this document back.
func LoadCategories(path string) ([]CategoryConfig, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}

	var doc documentDTO
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	if len(doc.Categories) == 0 {
		return nil, ErrNoCategories
	}

	categories := make([]CategoryConfig, 0, len(doc.Categories))
	for _, catDTO := range doc.Categories {
		roots := make([]RootURLConfig, 0, len(catDTO.Roots))
		for _, rootDTO := range catDTO.Roots {
			parsed, err := url.Parse(rootDTO.URL)
			if err != nil {
				return nil, fmt.Errorf("%w: root url %q: %s", ErrInvalidConfig, rootDTO.URL, err.Error())
			}

			urlType, err := ParseUrlType(rootDTO.Type)
			if err != nil {
				return nil, fmt.Errorf("%w: root %q", err, rootDTO.URL)
			}

			seedPattern := ""
			hasSeedPattern := false
			if rootDTO.SeedPattern != nil {
				seedPattern = *rootDTO.SeedPattern
				hasSeedPattern = true
			}

			rootCfg, err := NewRootURLConfig(*parsed, urlType, rootDTO.TargetPatterns, seedPattern, hasSeedPattern, rootDTO.MaxDepth)
			if err != nil {
				return nil, fmt.Errorf("%w: root %q", err, rootDTO.URL)
			}
			roots = append(roots, rootCfg)
		}
		categories = append(categories, NewCategoryConfig(catDTO.Name, roots))
	}

	return categories, nil
}
