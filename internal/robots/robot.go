// Package robots is an unenforced seam for robots.txt policy. Robot
// exists so the strategy dispatcher has a single call site to route
// through if enforcement is ever turned on, but the shipped
// implementation always allows.
package robots

import "net/url"

// Robot decides whether a URL may be fetched. The frontier engine's
// only implementation, AlwaysAllow, never consults an actual
// robots.txt; a future enforcing implementation would satisfy the
// same interface without the strategy dispatcher changing at all.
type Robot interface {
	Decide(target url.URL) Decision
}

// AlwaysAllow is the core's shipped Robot: every URL is allowed, with
// a Reason that makes the seam's presence visible in logs rather than
// silently absent.
type AlwaysAllow struct{}

func NewAlwaysAllow() AlwaysAllow { return AlwaysAllow{} }

func (AlwaysAllow) Decide(target url.URL) Decision {
	return Decision{Url: target, Allowed: true, Reason: EnforcementDisabled}
}
