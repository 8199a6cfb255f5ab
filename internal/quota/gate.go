package quota

import (
	"context"
	"fmt"
	"time"
)

// CounterStore defines the interface for the expiring keyed counter backing
// the quota gate.
type CounterStore interface {
	// Get returns the current count at key, 0 when the key is absent or
	// expired.
	Get(ctx context.Context, key string) (int64, error)

	// Increment atomically increments the counter at key by 1. The ttl is
	// attached only when the key has no expiry yet, i.e. on the first
	// increment of a month.
	Increment(ctx context.Context, key string, ttl time.Duration) error
}

// CheckResult is the outcome of a quota check.
type CheckResult struct {
	Allowed bool
	// Remaining is the number of creations left after the pending one when
	// allowed, 0 when not.
	Remaining int
	Limit     int
}

// ExceededError is returned when a user's monthly limit is reached. It
// carries the limit so the client can prompt an upgrade.
type ExceededError struct {
	Limit int
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("monthly link limit of %d reached", e.Limit)
}

// Gate tracks and limits new-link creations per user per calendar month.
//
// Check and Increment are two separate calls and are deliberately not
// atomic together: under a concurrent burst from one user both requests can
// pass Check before either Increments, overshooting the limit by at most
// the number of in-flight requests. This is a soft quota by design; the
// single-key increment itself is atomic.
type Gate struct {
	store CounterStore
	now   func() time.Time
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock overrides the gate's clock. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

// NewGate creates a quota gate on top of a counter store.
func NewGate(store CounterStore, opts ...Option) *Gate {
	g := &Gate{
		store: store,
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Check reports whether the user may create one more link this month under
// the given plan. It is a pure read: calling Check twice without an
// intervening Increment returns the same result, subject to concurrent
// increments.
func (g *Gate) Check(ctx context.Context, userID string, plan Plan) (CheckResult, error) {
	count, err := g.store.Get(ctx, MonthKey(userID, g.now()))
	if err != nil {
		return CheckResult{}, err
	}

	limit := plan.Limit()

	if count >= int64(limit) {
		return CheckResult{Allowed: false, Remaining: 0, Limit: limit}, nil
	}

	return CheckResult{
		Allowed:   true,
		Remaining: limit - int(count) - 1,
		Limit:     limit,
	}, nil
}

// Increment charges one link creation to the user's counter for the current
// month. The first increment of a month attaches a TTL expiring the key at
// the first instant of the next calendar month.
func (g *Gate) Increment(ctx context.Context, userID string) error {
	now := g.now()

	return g.store.Increment(ctx, MonthKey(userID, now), UntilNextMonth(now))
}

// Usage returns the number of links the user created in the current month.
func (g *Gate) Usage(ctx context.Context, userID string) (int64, error) {
	return g.store.Get(ctx, MonthKey(userID, g.now()))
}
