package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"food-ordering/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	menuKey            = "menu:dishes"
	popularityRetained = 7 * 24 * time.Hour
)

type RedisCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{Client: client, TTL: ttl}
}

// GetMenu reports ok=false on a cache miss.
func (c *RedisCache) GetMenu(ctx context.Context) ([]domain.Dish, bool, error) {
	raw, err := c.Client.Get(ctx, menuKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var dishes []domain.Dish
	if err := json.Unmarshal(raw, &dishes); err != nil {
		return nil, false, err
	}
	return dishes, true, nil
}

func (c *RedisCache) SetMenu(ctx context.Context, dishes []domain.Dish) error {
	payload, err := json.Marshal(dishes)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, menuKey, payload, c.TTL).Err()
}

func (c *RedisCache) InvalidateMenu(ctx context.Context) error {
	return c.Client.Del(ctx, menuKey).Err()
}

func (c *RedisCache) PopularityKey(day time.Time) string {
	return "popular:daily:" + day.Format("2006-01-02")
}

func (c *RedisCache) IncrementPopularity(ctx context.Context, day time.Time, dishID, count int) error {
	key := c.PopularityKey(day)
	if err := c.Client.ZIncrBy(ctx, key, float64(count), strconv.Itoa(dishID)).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, popularityRetained).Err()
}

// TopPopular returns up to limit dishes with the highest counts for day.
// Names are left empty; callers resolve them against the menu.
func (c *RedisCache) TopPopular(ctx context.Context, day time.Time, limit int) ([]domain.PopularDish, error) {
	result, err := c.Client.ZRevRangeWithScores(ctx, c.PopularityKey(day), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	top := make([]domain.PopularDish, 0, len(result))
	for _, member := range result {
		name, _ := member.Member.(string)
		dishID, err := strconv.Atoi(name)
		if err != nil {
			continue
		}
		top = append(top, domain.PopularDish{DishID: dishID, Count: int(member.Score)})
	}
	return top, nil
}
