// Package ratelimit provides a bounded global concurrency semaphore
// plus a per-domain minimum-spacing politeness policy, built on top of
// pkg/limiter.RateLimiter.
package ratelimit

import (
	"context"
	"time"

	"github.com/rohmanhakim/frontier-crawler/internal/config"
	"github.com/rohmanhakim/frontier-crawler/pkg/limiter"
)

// Limiter bounds two things at once: at most MaxConcurrentPages page
// sessions active across the whole run (the semaphore), and at least
// MinDomainSpacing between two fetches of the same registrable domain
// (the wrapped limiter.RateLimiter).
type Limiter struct {
	sem  chan struct{}
	rate limiter.RateLimiter
}

// New builds a Limiter from the engine's politeness settings.
func New(settings config.EngineSettings) *Limiter {
	rl := limiter.NewConcurrentRateLimiter()
	rl.SetBaseDelay(settings.MinDomainSpacing())
	rl.SetJitter(settings.Jitter())
	rl.SetRandomSeed(settings.RandomSeed())

	return &Limiter{
		sem:  make(chan struct{}, settings.MaxConcurrentPages()),
		rate: rl,
	}
}

// Acquire blocks until both the global concurrency budget has a free
// slot and mainDomain's minimum spacing has elapsed, or ctx is
// cancelled. On success the caller MUST call Release exactly once.
func (l *Limiter) Acquire(ctx context.Context, mainDomain string) error {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := l.wait(ctx, mainDomain); err != nil {
		<-l.sem
		return err
	}

	l.rate.MarkLastFetchAsNow(mainDomain)
	return nil
}

// Release frees the concurrency slot Acquire claimed.
func (l *Limiter) Release() {
	<-l.sem
}

// Backoff registers a politeness failure for mainDomain (e.g. a 429 or
// 503 response), increasing the delay ResolveDelay reports for its
// next fetch.
func (l *Limiter) Backoff(mainDomain string) {
	l.rate.Backoff(mainDomain)
}

// ResetBackoff clears mainDomain's backoff state after a successful fetch.
func (l *Limiter) ResetBackoff(mainDomain string) {
	l.rate.ResetBackoff(mainDomain)
}

func (l *Limiter) wait(ctx context.Context, mainDomain string) error {
	delay := l.rate.ResolveDelay(mainDomain)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
