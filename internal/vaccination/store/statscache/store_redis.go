package statscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"zoopito/internal/vaccination/models"
	"zoopito/pkg/platform/sentinel"
)

// DefaultTTL is how long dashboard stats stay cached.
const DefaultTTL = 60 * time.Second

const statsKey = "zoopito:vaccination:stats"

// RedisCache caches the dashboard stats in Redis so every instance shares one copy.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached stats, or sentinel.ErrNotFound when absent or expired.
func (c *RedisCache) Get(ctx context.Context) (*models.Stats, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read cached stats: %w", err)
	}
	var stats models.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode cached stats: %w", err)
	}
	return &stats, nil
}

func (c *RedisCache) Set(ctx context.Context, stats models.Stats) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return c.client.Set(ctx, statsKey, raw, c.ttl).Err()
}

func (c *RedisCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsKey).Err()
}
