// Package ratelimit provides a fixed-window per-key mutation throttle backed
// by Redis. Counters carry a TTL, so the state is shared across processes and
// resets when the window expires or Redis restarts.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter decides whether a keyed operation may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RedisLimiter counts operations per key within a fixed window.
type RedisLimiter struct {
	client *redis.Client
	logger *zap.Logger
	limit  int
	window time.Duration
}

// NewRedisLimiter builds a limiter allowing limit operations per window.
func NewRedisLimiter(client *redis.Client, logger *zap.Logger, limit int, window time.Duration) *RedisLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &RedisLimiter{client: client, logger: logger, limit: limit, window: window}
}

// Allow increments the window counter for key and reports whether the caller
// is still under the limit. The limiter fails open when Redis is unreachable:
// throttling is a safeguard, not a correctness requirement.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := fmt.Sprintf("throttle:%s", key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logger.Warn("throttle counter unavailable", zap.String("key", redisKey), zap.Error(err))
		return true, nil
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			l.logger.Warn("throttle expire failed", zap.String("key", redisKey), zap.Error(err))
		}
	}

	return count <= int64(l.limit), nil
}

// noopLimiter always allows; used when throttling is disabled.
type noopLimiter struct{}

// NewNoop returns a limiter that never throttles.
func NewNoop() Limiter {
	return noopLimiter{}
}

func (noopLimiter) Allow(context.Context, string) (bool, error) {
	return true, nil
}
