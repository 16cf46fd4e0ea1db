package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum delay between outbound calls per source key.
// Acquire blocks until the interval since the last granted acquisition for
// that key has elapsed. The mutex-guarded token buckets make the
// one-call-at-a-time discipline an enforced invariant rather than a caller
// convention, so concurrent enrichment goroutines can share one limiter.
type Limiter struct {
	mu              sync.Mutex
	limiters        map[string]*rate.Limiter
	intervals       map[string]time.Duration
	defaultInterval time.Duration
}

// New creates a limiter with per-key intervals. Keys without an explicit
// interval fall back to defaultInterval.
func New(defaultInterval time.Duration, intervals map[string]time.Duration) *Limiter {
	if defaultInterval <= 0 {
		defaultInterval = time.Second
	}
	l := &Limiter{
		limiters:        make(map[string]*rate.Limiter),
		intervals:       make(map[string]time.Duration, len(intervals)),
		defaultInterval: defaultInterval,
	}
	for k, v := range intervals {
		if v > 0 {
			l.intervals[k] = v
		}
	}
	return l
}

// Acquire blocks until a call to sourceKey is allowed or ctx is done.
func (l *Limiter) Acquire(ctx context.Context, sourceKey string) error {
	return l.limiterFor(sourceKey).Wait(ctx)
}

func (l *Limiter) limiterFor(sourceKey string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if lim, ok := l.limiters[sourceKey]; ok {
		return lim
	}
	interval := l.defaultInterval
	if v, ok := l.intervals[sourceKey]; ok {
		interval = v
	}
	lim := rate.NewLimiter(rate.Every(interval), 1)
	l.limiters[sourceKey] = lim
	return lim
}
