package robots

import (
	"net/url"
	"time"
)

// DecisionReason documents why a Decide call resolved the way it did.
// Only EnforcementDisabled is reachable from AlwaysAllow; the rest
// describe what an enforcing Robot would report, preserved so the
// wire shape doesn't change if enforcement is ever switched on.
type DecisionReason string

const (
	AllowedByRobots      DecisionReason = "allowed_by_robots"
	DisallowedByRobots   DecisionReason = "disallowed_by_robots"
	UserAgentNotMatched  DecisionReason = "user_agent_not_matched"
	EmptyRuleSet         DecisionReason = "empty_rule_set"
	NoMatchingRules      DecisionReason = "no_matching_rules"
	EnforcementDisabled  DecisionReason = "robots_enforcement_disabled"
)

type Decision struct {
	Url url.URL

	Allowed bool

	// Why this decision was made (for logging/debugging)
	Reason DecisionReason

	// Optional delay override (robots crawl-delay); always nil while
	// enforcement is disabled.
	CrawlDelay *time.Duration
}
