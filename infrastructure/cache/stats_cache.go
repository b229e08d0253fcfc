package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"channel-insights/domain/model"

	"github.com/redis/go-redis/v9"
)

const statsKeyPrefix = "channel-insights:stats:"

// kv is the subset of *redis.Client the stats cache uses
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// StatsCache stores per-video statistics in Redis as JSON
type StatsCache struct {
	client kv
}

func NewStatsCache(client kv) *StatsCache {
	return &StatsCache{client: client}
}

func statsKey(videoID string) string {
	return statsKeyPrefix + videoID
}

// Get returns nil, nil when the key is missing or no client is configured
func (c *StatsCache) Get(ctx context.Context, videoID string) (*model.Stats, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	raw, err := c.client.Get(ctx, statsKey(videoID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", videoID, err)
	}

	var stats model.Stats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, fmt.Errorf("decode cached stats %s: %w", videoID, err)
	}
	return &stats, nil
}

func (c *StatsCache) Set(ctx context.Context, videoID string, stats *model.Stats, ttl time.Duration) error {
	if c == nil || c.client == nil || stats == nil {
		return nil
	}
	payload, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, statsKey(videoID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", videoID, err)
	}
	return nil
}
