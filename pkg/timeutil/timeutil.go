package timeutil

import (
	"math"
	"math/rand"
	"time"
)

// DurationPtr is a helper function to create a pointer to a time.Duration
func DurationPtr(d time.Duration) *time.Duration {
	return &d
}

// MaxDuration returns the largest duration in durations, or zero for an
// empty slice. It does not mutate its input.
func MaxDuration(durations []time.Duration) time.Duration {
	var max time.Duration
	for i, d := range durations {
		if i == 0 || d > max {
			max = d
		}
	}
	return max
}

// ComputeJitter returns a pseudo-random duration in [0, max). A
// non-positive max always yields 0.
func ComputeJitter(max time.Duration, rng rand.Rand) time.Duration {
	if max <= 0 {
		return 0
	}
	return time.Duration(rng.Int63n(int64(max)))
}

// ExponentialBackoffDelay computes the delay for the given backoff
// attempt count (1-indexed): initialDuration * multiplier^(count-1),
// capped at maxDuration, plus up to jitter of additional random delay.
// Non-positive counts are treated as the first attempt.
func ExponentialBackoffDelay(backoffCount int, jitter time.Duration, rng rand.Rand, param BackoffParam) time.Duration {
	exponent := backoffCount - 1
	if exponent < 0 {
		exponent = 0
	}

	delay := time.Duration(float64(param.InitialDuration()) * math.Pow(param.Multiplier(), float64(exponent)))
	if max := param.MaxDuration(); max > 0 && delay > max {
		delay = max
	}

	return delay + ComputeJitter(jitter, rng)
}
