package storage

import (
	"context"
	"testing"
	"time"

	"food-ordering/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, time.Minute), mr
}

func TestRedisCache_MenuRoundTrip(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	_, ok, err := cache.GetMenu(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	dishes := []domain.Dish{{ID: 1, Name: "Pierogi", NetPrice: decimal.RequireFromString("25.00"), OrderCount: 4}}
	require.NoError(t, cache.SetMenu(ctx, dishes))
	assert.Equal(t, time.Minute, mr.TTL(menuKey))

	cached, ok, err := cache.GetMenu(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, cached, 1)
	assert.Equal(t, "Pierogi", cached[0].Name)
	assert.Equal(t, 4, cached[0].OrderCount)
	assert.True(t, dishes[0].NetPrice.Equal(cached[0].NetPrice))

	require.NoError(t, cache.InvalidateMenu(ctx))
	assert.False(t, mr.Exists(menuKey))
}

func TestRedisCache_CorruptMenuIsError(t *testing.T) {
	cache, mr := setupCache(t)
	require.NoError(t, mr.Set(menuKey, "{not json"))

	_, ok, err := cache.GetMenu(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Popularity(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()
	day := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, cache.IncrementPopularity(ctx, day, 1, 2))
	require.NoError(t, cache.IncrementPopularity(ctx, day, 2, 5))
	require.NoError(t, cache.IncrementPopularity(ctx, day, 1, 1))

	key := cache.PopularityKey(day)
	assert.Equal(t, "popular:daily:2024-05-01", key)
	assert.Equal(t, popularityRetained, mr.TTL(key))

	top, err := cache.TopPopular(ctx, day, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, domain.PopularDish{DishID: 2, Count: 5}, top[0])
	assert.Equal(t, domain.PopularDish{DishID: 1, Count: 3}, top[1])

	limited, err := cache.TopPopular(ctx, day, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	other, err := cache.TopPopular(ctx, day.AddDate(0, 0, 1), 5)
	require.NoError(t, err)
	assert.Empty(t, other)
}
