package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRateLimitStore keeps fixed-window counters in Redis so limits hold across bot replicas
type RedisRateLimitStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisRateLimitStore creates a store whose keys live under prefix, e.g. "ratelimit"
func NewRedisRateLimitStore(client redis.UniversalClient, prefix string) *RedisRateLimitStore {
	if client == nil {
		panic("redis client is required")
	}
	if prefix == "" {
		prefix = "ratelimit"
	}

	return &RedisRateLimitStore{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisRateLimitStore) key(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

// Increment bumps the window counter; the window starts with the first request
func (s *RedisRateLimitStore) Increment(ctx context.Context, key string, window time.Duration) (int, error) {
	redisKey := s.key(key)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.ExpireNX(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	return int(incr.Val()), nil
}

// Reset clears the counter for a key
func (s *RedisRateLimitStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	return nil
}
