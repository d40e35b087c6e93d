package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/solepos/backend/internal/application/report"
)

const defaultReportKeyPrefix = "pos:report:"

// RedisReportCache implements the report Cache on Redis, so every API
// instance sees the same generation and cached reports.
type RedisReportCache struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisReportCache creates a cache over a shared client.
// The caller retains ownership of the client.
func NewRedisReportCache(client *redis.Client, keyPrefix string) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = defaultReportKeyPrefix
	}
	return &RedisReportCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisReportCache) generationKey() string {
	return c.keyPrefix + "generation"
}

// Get returns the cached report bytes
func (c *RedisReportCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get report from cache: %w", err)
	}
	return data, true, nil
}

// Set stores report bytes with a TTL
func (c *RedisReportCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.keyPrefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set report in cache: %w", err)
	}
	return nil
}

// Generation reads the current generation counter
func (c *RedisReportCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read report generation: %w", err)
	}
	return gen, nil
}

// BumpGeneration increments the generation counter atomically
func (c *RedisReportCache) BumpGeneration(ctx context.Context) (int64, error) {
	gen, err := c.client.Incr(ctx, c.generationKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to bump report generation: %w", err)
	}
	return gen, nil
}

// Ensure RedisReportCache implements report.Cache
var _ report.Cache = (*RedisReportCache)(nil)
