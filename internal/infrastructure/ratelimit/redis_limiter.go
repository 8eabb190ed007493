package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements domain.RateLimiter with a fixed window counter per
// key: INCR, and an expiry stamped on the first hit of each window.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	window time.Duration
	max    int
}

// NewRedisLimiter creates a new fixed-window limiter.
func NewRedisLimiter(client *redis.Client, window time.Duration, max int) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: "rl:",
		window: window,
		max:    max,
	}
}

// Allow implements domain.RateLimiter. A denied request mutates nothing beyond
// the counter itself.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.prefix + key

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment limiter counter: %w", err)
	}

	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set limiter window: %w", err)
		}
	}

	return count <= int64(l.max), nil
}
