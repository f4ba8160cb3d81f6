package httpx

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window counter shared by every replica that
// talks to the same Redis. Each window gets its own key, which expires
// with the window.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRedisLimiter returns a limiter admitting config.RequestsPerWindow
// requests per key per config.Window. Keys are namespaced under prefix.
func NewRedisLimiter(client redis.UniversalClient, prefix string, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(config.RequestsPerWindow),
		window: config.Window,
		now:    time.Now,
	}
}

// RedisLimiterFactory builds a RedisLimiter per route under prefix.
func RedisLimiterFactory(client redis.UniversalClient, prefix string) LimiterFactory {
	return func(scope string, config RateLimitConfig) Limiter {
		return NewRedisLimiter(client, prefix+":"+scope, config)
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := l.now()
	slot := now.UnixMilli() / l.window.Milliseconds()
	k := fmt.Sprintf("%s:%s:%d", l.prefix, key, slot)

	var count *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.Incr(ctx, k)
		pipe.PExpire(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("redis limiter: %w", err)
	}

	if count.Val() > l.limit {
		elapsed := time.Duration(now.UnixMilli()%l.window.Milliseconds()) * time.Millisecond
		return false, l.window - elapsed, nil
	}
	return true, 0, nil
}
