package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linkrift/linkrift/internal/links"
	"github.com/linkrift/linkrift/internal/quota"
	"github.com/redis/go-redis/v9"
)

// RedisQuotaStore is a Redis implementation of quota.CounterStore.
type RedisQuotaStore struct {
	client *redis.Client
}

// NewRedisQuotaStore creates a new Redis-backed quota counter store.
func NewRedisQuotaStore(client *redis.Client) *RedisQuotaStore {
	return &RedisQuotaStore{client: client}
}

func (s *RedisQuotaStore) Get(ctx context.Context, key string) (int64, error) {
	count, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}

		return 0, fmt.Errorf("%w: %v", links.ErrStorageUnavailable, err)
	}

	return count, nil
}

// Increment atomically increments the counter. ExpireNX attaches the TTL
// only when the key has none yet, so later increments within a month never
// shorten the window.
func (s *RedisQuotaStore) Increment(ctx context.Context, key string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", links.ErrStorageUnavailable, err)
	}

	return nil
}

// Compile-time check.
var _ quota.CounterStore = (*RedisQuotaStore)(nil)
