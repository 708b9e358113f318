package statscache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoopito/internal/vaccination/models"
	"zoopito/pkg/platform/sentinel"
)

func TestInMemoryCacheExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	cache := NewInMemory(time.Minute)
	cache.now = func() time.Time { return now }

	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)

	require.NoError(t, cache.Set(ctx, models.Stats{TotalAnimals: 4}))
	got, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalAnimals)

	now = now.Add(time.Minute)
	_, err = cache.Get(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestInMemoryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	cache := NewInMemory(0)
	require.NoError(t, cache.Set(ctx, models.Stats{Overdue: 2}))
	require.NoError(t, cache.Invalidate(ctx))

	_, err := cache.Get(ctx)
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}
