package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"driver-license-portal/internal/infrastructure/cache"
)

// FailureCounter counts failed attempts per identifier in a fixed window.
type FailureCounter struct {
	rdb    *redis.Client
	scope  string
	limit  int
	window time.Duration
}

func NewFailureCounter(rdb *redis.Client, scope string, limit int, window time.Duration) *FailureCounter {
	return &FailureCounter{rdb: rdb, scope: scope, limit: limit, window: window}
}

func (f *FailureCounter) key(id string) string { return cache.Key("ratelimit", f.scope, id) }

// Blocked reports whether id has used up its failures. The remaining
// block time is returned when it has.
func (f *FailureCounter) Blocked(ctx context.Context, id string) (bool, time.Duration, error) {
	n, err := f.rdb.Get(ctx, f.key(id)).Int()
	if err == redis.Nil {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	if n < f.limit {
		return false, 0, nil
	}
	ttl, err := f.rdb.TTL(ctx, f.key(id)).Result()
	if err != nil {
		return true, f.window, nil
	}
	return true, ttl, nil
}

// Fail records one failure; the window starts at the first failure.
func (f *FailureCounter) Fail(ctx context.Context, id string) (int, error) {
	k := f.key(id)
	n, err := f.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := f.rdb.Expire(ctx, k, f.window).Err(); err != nil {
			return int(n), err
		}
	}
	return int(n), nil
}

func (f *FailureCounter) Reset(ctx context.Context, id string) error {
	return f.rdb.Del(ctx, f.key(id)).Err()
}
