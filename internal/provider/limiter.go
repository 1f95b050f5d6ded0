package provider

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// LimiterConfig bounds global in-flight provider calls.
type LimiterConfig struct {
	// MaxConcurrent is the number of provider calls allowed in flight
	// across all sessions.
	MaxConcurrent int64

	// FailFast rejects calls over the limit with ErrCapacityExceeded
	// instead of queueing them.
	FailFast bool
}

// limiterProvider applies admission control in front of the provider.
// Waiters queue in FIFO order; a call whose context expires while queued
// or in flight releases its slot immediately.
type limiterProvider struct {
	inner Provider
	sem   *semaphore.Weighted
	cfg   LimiterConfig
}

// WithLimiter wraps a Provider with a global concurrency limit.
func WithLimiter(p Provider, cfg LimiterConfig) Provider {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &limiterProvider{
		inner: p,
		sem:   semaphore.NewWeighted(cfg.MaxConcurrent),
		cfg:   cfg,
	}
}

func (l *limiterProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if l.cfg.FailFast {
		if !l.sem.TryAcquire(1) {
			return nil, &ErrCapacityExceeded{Limit: l.cfg.MaxConcurrent}
		}
	} else {
		// Acquire respects the context deadline, so a queued call never
		// waits past its own timeout.
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	}
	defer l.sem.Release(1)

	return l.inner.Generate(ctx, req)
}

func (l *limiterProvider) ModelID() string {
	return l.inner.ModelID()
}
