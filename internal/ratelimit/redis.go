package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "reservoir:ratelimit:"

// RedisLimiter is a fixed-window limiter backed by Redis INCR with key
// expiry. Counters are shared across instances, so the quota holds under
// horizontal scaling.
type RedisLimiter struct {
	client *redis.Client
	quota  int
	window time.Duration
}

// NewRedisLimiter creates a Redis-backed fixed-window limiter.
func NewRedisLimiter(client *redis.Client, quota int, window time.Duration) *RedisLimiter {
	if quota <= 0 {
		quota = DefaultQuota
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLimiter{client: client, quota: quota, window: window}
}

// Allow reports whether the request is within quota.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := redisKeyPrefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("increment rate counter: %w", err)
	}
	if count == 1 {
		// First hit in a window starts its expiry clock.
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("set rate window expiry: %w", err)
		}
	}
	return count <= int64(l.quota), nil
}

var _ Limiter = (*RedisLimiter)(nil)
