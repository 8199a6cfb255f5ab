package ratelimit

import (
	"context"
	"time"
)

// Store defines the interface for rate limit data storage.
type Store interface {
	// Record registers a request under key and returns how many requests
	// fall inside the current window, expired entries excluded.
	Record(ctx context.Context, key string, window time.Duration) (count int64, err error)
}
