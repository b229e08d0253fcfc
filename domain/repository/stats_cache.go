package repository

import (
	"context"
	"time"

	"channel-insights/domain/model"
)

// IStatsCache caches statistics lookups between runs
type IStatsCache interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, videoID string) (*model.Stats, error)
	Set(ctx context.Context, videoID string, stats *model.Stats, ttl time.Duration) error
}
