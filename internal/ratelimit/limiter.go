package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a rate limit check.
type Decision struct {
	Allowed bool
	// Remaining is the number of requests left in the current window after
	// this one, 0 when denied.
	Remaining int64
}

// Limiter defines the interface for rate limiting.
type Limiter interface {
	// Allow records a request from the given key and decides whether it
	// should proceed.
	Allow(ctx context.Context, key string) (Decision, error)
}

// SlidingWindowLimiter implements rate limiting using a sliding window
// over a Store of request timestamps.
type SlidingWindowLimiter struct {
	store  Store
	limit  int64
	window time.Duration
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(store Store, limit int64, window time.Duration) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		store:  store,
		limit:  limit,
		window: window,
	}
}

func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	count, err := l.store.Record(ctx, key, l.window)
	if err != nil {
		return Decision{}, err
	}

	if count > l.limit {
		return Decision{}, nil
	}

	return Decision{Allowed: true, Remaining: l.limit - count}, nil
}
