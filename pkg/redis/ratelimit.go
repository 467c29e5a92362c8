package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter is a fixed-window counter kept in Redis.
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow counts a hit for key and reports whether it is still within the limit.
// The window starts with the first hit.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	fullKey := l.prefix + key
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		pipe.ExpireNX(ctx, fullKey, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to count rate limit hit: %w", err)
	}
	return incr.Val() <= int64(l.limit), nil
}
