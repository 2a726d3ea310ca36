package cache

import (
	"context"
	"encoding/json"
	"time"

	"eventify/internal/model"

	"github.com/redis/go-redis/v9"
)

const (
	statsKey = "events:stats"
	statsTTL = 30 * time.Second
)

// EventStatsCache 活動統計的 Redis 快取。
// 統計查詢要掃整張 events 表，用短 TTL 快取擋掉重複計算。
type EventStatsCache interface {
	Get(ctx context.Context) (*model.EventStats, error)
	Set(ctx context.Context, stats *model.EventStats) error
	Invalidate(ctx context.Context) error
}

type EventStatsCacheImpl struct {
	client *redis.Client
}

func NewEventStatsCache(client *redis.Client) EventStatsCache {
	return &EventStatsCacheImpl{
		client: client,
	}
}

// Get 回傳快取的統計；cache miss 回傳 (nil, nil)
func (c *EventStatsCacheImpl) Get(ctx context.Context) (*model.EventStats, error) {
	val, err := c.client.Get(ctx, statsKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var stats model.EventStats
	if err := json.Unmarshal([]byte(val), &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

func (c *EventStatsCacheImpl) Set(ctx context.Context, stats *model.EventStats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, statsKey, data, statsTTL).Err()
}

func (c *EventStatsCacheImpl) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsKey).Err()
}
