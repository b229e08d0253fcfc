package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"channel-insights/domain/model"
	"channel-insights/domain/repository"
	"channel-insights/infrastructure/logger"
	"channel-insights/infrastructure/throttle"
)

// ItemFailurePolicy decides what happens when a statistics lookup fails
type ItemFailurePolicy string

const (
	SkipItem ItemFailurePolicy = "skip-item"
	SkipPage ItemFailurePolicy = "skip-page"
	Abort    ItemFailurePolicy = "abort"
)

// ParseItemFailurePolicy maps a configuration value to a policy. Empty means SkipItem.
func ParseItemFailurePolicy(v string) (ItemFailurePolicy, error) {
	switch p := ItemFailurePolicy(strings.ToLower(strings.TrimSpace(v))); p {
	case "":
		return SkipItem, nil
	case SkipItem, SkipPage, Abort:
		return p, nil
	default:
		return "", fmt.Errorf("unknown item failure policy %q", v)
	}
}

// DefaultMaxPages bounds pagination when the config leaves it unset
const DefaultMaxPages = 1000

// CollectorConfig configures a Collector
type CollectorConfig struct {
	ChannelID  string
	MaxPages   int
	ItemPolicy ItemFailurePolicy
	// StatsTTL is how long cached statistics stay valid
	StatsTTL time.Duration
	Now      func() time.Time
}

// PageError means a listing page could not be fetched. The table returned
// next to it holds every row collected before the failure.
type PageError struct {
	Page      int
	PageToken string
	Err       error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("fetch listing page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

// ItemError means a statistics lookup failed under the abort policy
type ItemError struct {
	Page    int
	VideoID string
	Err     error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("fetch statistics for video %s on page %d: %v", e.VideoID, e.Page, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// CollectRun counts what happened during the latest Collect call
type CollectRun struct {
	Pages      int `json:"pages"`
	Rows       int `json:"rows"`
	Skipped    int `json:"skipped"`
	Duplicates int `json:"duplicates"`
	CacheHits  int `json:"cache_hits"`
}

// Collector pages through a channel listing and enriches each video with its statistics
type Collector struct {
	cfg      CollectorConfig
	youtube  repository.IYouTube
	throttle throttle.Throttle
	cache    repository.IStatsCache // optional
	last     CollectRun
}

// NewCollector creates a collector. A nil throttle disables pacing.
func NewCollector(cfg CollectorConfig, youtube repository.IYouTube, t throttle.Throttle) *Collector {
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.ItemPolicy == "" {
		cfg.ItemPolicy = SkipItem
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if t == nil {
		t = throttle.NewInterval(0)
	}
	return &Collector{cfg: cfg, youtube: youtube, throttle: t}
}

// WithCache enables the statistics cache (fluent)
func (c *Collector) WithCache(cache repository.IStatsCache) *Collector {
	c.cache = cache
	return c
}

// LastRun returns the counters of the latest Collect call
func (c *Collector) LastRun() CollectRun {
	return c.last
}

// Collect fetches every listing page and returns the accumulated table.
// The table is returned even when err is non-nil; err is then a *PageError
// or an *ItemError.
func (c *Collector) Collect(ctx context.Context) (*model.RawVideoTable, error) {
	log := logger.GetLogger().WithField("channelId", c.cfg.ChannelID)

	c.last = CollectRun{}
	table := &model.RawVideoTable{
		TableMeta: model.TableMeta{ChannelID: c.cfg.ChannelID, CollectedAt: c.cfg.Now().UTC()},
		Rows:      []model.RawVideoRecord{},
	}
	seen := make(map[string]struct{})
	token := ""

	for page := 1; ; page++ {
		if page > c.cfg.MaxPages {
			log.WithField("maxPages", c.cfg.MaxPages).Warn("Page limit reached, stopping collection")
			break
		}
		if err := ctx.Err(); err != nil {
			return c.finish(table), &PageError{Page: page, PageToken: token, Err: err}
		}
		// every listing request takes a token, the first one included
		if err := c.throttle.Wait(ctx); err != nil {
			return c.finish(table), &PageError{Page: page, PageToken: token, Err: err}
		}

		listing, err := c.youtube.ListVideosPage(ctx, token)
		if err != nil {
			log.WithFields(map[string]interface{}{"page": page, "error": err}).Error("Failed to fetch listing page")
			return c.finish(table), &PageError{Page: page, PageToken: token, Err: err}
		}
		c.last.Pages++

		for _, item := range listing.Items {
			if !item.IsVideo() {
				continue
			}
			if _, dup := seen[item.VideoID]; dup {
				c.last.Duplicates++
				log.WithField("videoId", item.VideoID).Warn("Duplicate video in listing, dropped")
				continue
			}

			stats, err := c.fetchStats(ctx, item.VideoID)
			if err != nil {
				fields := map[string]interface{}{"page": page, "videoId": item.VideoID, "policy": c.cfg.ItemPolicy, "error": err}
				if c.cfg.ItemPolicy == Abort {
					log.WithFields(fields).Error("Failed to fetch statistics, aborting collection")
					return c.finish(table), &ItemError{Page: page, VideoID: item.VideoID, Err: err}
				}
				c.last.Skipped++
				log.WithFields(fields).Warn("Failed to fetch statistics, skipping")
				if c.cfg.ItemPolicy == SkipPage {
					break
				}
				continue
			}

			seen[item.VideoID] = struct{}{}
			table.Rows = append(table.Rows, model.RawVideoRecord{
				VideoID:       item.VideoID,
				Title:         item.Title,
				PublishedDate: publishedDay(item.PublishedAt),
				ViewsCount:    orZero(stats.ViewCount),
				LikeCount:     orZero(stats.LikeCount),
				CommentsCount: orZero(stats.CommentCount),
			})
		}

		next := listing.NextPageToken
		if next == "" {
			break
		}
		if next == token {
			log.WithField("pageToken", next).Warn("Listing returned the same page token twice, stopping collection")
			break
		}
		token = next
	}

	c.finish(table)
	log.WithFields(map[string]interface{}{
		"pages":   c.last.Pages,
		"rows":    c.last.Rows,
		"skipped": c.last.Skipped,
	}).Info("Collection finished")
	return table, nil
}

func (c *Collector) finish(table *model.RawVideoTable) *model.RawVideoTable {
	c.last.Rows = table.Len()
	return table
}

// fetchStats reads through the cache when one is configured. Cache failures
// only cost a remote call.
func (c *Collector) fetchStats(ctx context.Context, videoID string) (*model.Stats, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, videoID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Stats cache read failed")
		} else if cached != nil {
			c.last.CacheHits++
			return cached, nil
		}
	}

	stats, err := c.youtube.FetchStats(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &model.Stats{}
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, videoID, stats, c.cfg.StatsTTL); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Stats cache write failed")
		}
	}
	return stats, nil
}

// publishedDay keeps the YYYY-MM-DD part of an RFC 3339 timestamp
func publishedDay(ts string) string {
	day, _, _ := strings.Cut(ts, "T")
	return day
}

func orZero(v string) string {
	if v == "" {
		return "0"
	}
	return v
}
