package statscache

import (
	"context"
	"sync"
	"time"

	"zoopito/internal/vaccination/models"
	"zoopito/pkg/platform/sentinel"
)

// InMemoryCache holds the dashboard stats for a single process.
type InMemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	stats   *models.Stats
	expires time.Time
}

func NewInMemory(ttl time.Duration) *InMemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &InMemoryCache{ttl: ttl, now: time.Now}
}

func (c *InMemoryCache) Get(_ context.Context) (*models.Stats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stats == nil || !c.now().Before(c.expires) {
		return nil, sentinel.ErrNotFound
	}
	out := *c.stats
	return &out, nil
}

func (c *InMemoryCache) Set(_ context.Context, stats models.Stats) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = &stats
	c.expires = c.now().Add(c.ttl)
	return nil
}

func (c *InMemoryCache) Invalidate(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = nil
	return nil
}
