package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"channel-insights/domain/dto"
	"channel-insights/domain/model"
	"channel-insights/domain/repository"
	"channel-insights/infrastructure/logger"

	"github.com/dustin/go-humanize"
)

// Recency buckets, ordered from newest to oldest
const (
	BucketLast3Months = "<=3 months"
	BucketLast6Months = "<=6 months"
	BucketOlder       = ">6 months"
)

// Buckets lists every recency bucket in display order
var Buckets = []string{BucketLast3Months, BucketLast6Months, BucketOlder}

const (
	DefaultSampleSize     = 5
	DefaultEngagementSize = 10
)

// IDashboardUsecase serves aggregates over a loaded dataset
type IDashboardUsecase interface {
	Sample(n int) []dto.DashboardSampleRow
	Summary() dto.DashboardSummary
	MonthlyViews() []dto.MonthlyViews
	TopEngagement(n int) []dto.EngagementEntry
	TopByViewsInBucket(bucket string, n int) ([]dto.RecencyVideo, error)
	Scatter() []dto.ScatterPoint
}

// DashboardUsecase reads a table that never changes after load, so it is
// safe for concurrent handlers without locking.
type DashboardUsecase struct {
	table       *model.VideoTable
	channelName string
	now         func() time.Time
}

// NewDashboardUsecase wraps an already loaded table. A nil clock means time.Now.
func NewDashboardUsecase(table *model.VideoTable, channelName string, now func() time.Time) *DashboardUsecase {
	if table == nil {
		table = &model.VideoTable{}
	}
	if now == nil {
		now = time.Now
	}
	return &DashboardUsecase{table: table, channelName: channelName, now: now}
}

// LoadDashboard reads the dataset once and builds the use case on top of it
func LoadDashboard(ctx context.Context, store repository.IDatasetStore, channelName string) (*DashboardUsecase, error) {
	table, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"path":      store.Path(),
		"rows":      table.Len(),
		"runId":     table.RunID,
		"channelId": table.ChannelID,
	}).Info("Dataset loaded for dashboard")
	return NewDashboardUsecase(table, channelName, nil), nil
}

// Table returns the loaded dataset
func (u *DashboardUsecase) Table() *model.VideoTable {
	return u.table
}

// Sample returns the n most viewed videos, ties in listing order
func (u *DashboardUsecase) Sample(n int) []dto.DashboardSampleRow {
	if n <= 0 {
		n = DefaultSampleSize
	}
	rows := u.byViews(u.table.Rows)
	out := make([]dto.DashboardSampleRow, 0, min(n, len(rows)))
	for _, r := range head(rows, n) {
		out = append(out, dto.DashboardSampleRow{
			VideoID:       r.VideoID,
			Title:         r.Title,
			PublishedDate: r.PublishedDate.Format(model.DateLayout),
			Views:         r.ViewsCount,
			Likes:         r.LikeCount,
			Comments:      r.CommentsCount,
		})
	}
	return out
}

// Summary totals the channel. Sums are int64 since int32 counts overflow quickly.
func (u *DashboardUsecase) Summary() dto.DashboardSummary {
	s := dto.DashboardSummary{
		ChannelID:   u.table.ChannelID,
		ChannelName: u.channelName,
		TotalVideos: int64(u.table.Len()),
	}
	for _, r := range u.table.Rows {
		s.TotalViews += int64(r.ViewsCount)
		s.TotalLikes += int64(r.LikeCount)
		s.TotalComments += int64(r.CommentsCount)
	}
	s.TotalVideosText = humanize.Comma(s.TotalVideos)
	s.TotalViewsText = humanize.Comma(s.TotalViews)
	s.TotalLikesText = humanize.Comma(s.TotalLikes)
	s.TotalCommentsText = humanize.Comma(s.TotalComments)
	return s
}

// MonthlyViews sums views per publish month, oldest month first
func (u *DashboardUsecase) MonthlyViews() []dto.MonthlyViews {
	sums := make(map[string]int64)
	for _, r := range u.table.Rows {
		d := r.PublishedDate.UTC()
		month := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC).Format(model.DateLayout)
		sums[month] += int64(r.ViewsCount)
	}
	out := make([]dto.MonthlyViews, 0, len(sums))
	for month, views := range sums {
		out = append(out, dto.MonthlyViews{Month: month, Views: views})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// EngagementRatio is (likes + comments) / views, 0 for unseen videos
func EngagementRatio(r model.VideoRecord) float64 {
	if r.ViewsCount == 0 {
		return 0
	}
	return float64(int64(r.LikeCount)+int64(r.CommentsCount)) / float64(r.ViewsCount)
}

// TopEngagement ranks videos by engagement ratio, ties in listing order
func (u *DashboardUsecase) TopEngagement(n int) []dto.EngagementEntry {
	if n <= 0 {
		n = DefaultEngagementSize
	}
	entries := make([]dto.EngagementEntry, 0, u.table.Len())
	for _, r := range u.table.Rows {
		ratio := EngagementRatio(r)
		entries = append(entries, dto.EngagementEntry{
			VideoID: r.VideoID,
			Title:   r.Title,
			Ratio:   ratio,
			Label:   fmt.Sprintf("%.2f", ratio),
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Ratio > entries[j].Ratio })
	return head(entries, n)
}

// RecencyBucket labels a video by its age at now. Boundaries are inclusive and
// compared at day granularity.
func RecencyBucket(r model.VideoRecord, now time.Time) string {
	today := now.UTC().Truncate(24 * time.Hour)
	published := r.PublishedDate.UTC()
	switch {
	case !published.Before(today.AddDate(0, -3, 0)):
		return BucketLast3Months
	case !published.Before(today.AddDate(0, -6, 0)):
		return BucketLast6Months
	default:
		return BucketOlder
	}
}

// TopByViewsInBucket returns the n most viewed videos of one recency bucket
func (u *DashboardUsecase) TopByViewsInBucket(bucket string, n int) ([]dto.RecencyVideo, error) {
	if !validBucket(bucket) {
		return nil, fmt.Errorf("unknown recency bucket %q", bucket)
	}
	if n <= 0 {
		n = DefaultEngagementSize
	}
	now := u.now()
	var in []model.VideoRecord
	for _, r := range u.table.Rows {
		if RecencyBucket(r, now) == bucket {
			in = append(in, r)
		}
	}

	out := make([]dto.RecencyVideo, 0, min(n, len(in)))
	for _, r := range head(u.byViews(in), n) {
		out = append(out, dto.RecencyVideo{
			VideoID:       r.VideoID,
			Title:         r.Title,
			PublishedDate: r.PublishedDate.Format(model.DateLayout),
			Bucket:        bucket,
			Views:         r.ViewsCount,
		})
	}
	return out, nil
}

// Scatter returns one point per video in listing order
func (u *DashboardUsecase) Scatter() []dto.ScatterPoint {
	out := make([]dto.ScatterPoint, 0, u.table.Len())
	for _, r := range u.table.Rows {
		out = append(out, dto.ScatterPoint{
			VideoID:  r.VideoID,
			Title:    r.Title,
			Views:    r.ViewsCount,
			Likes:    r.LikeCount,
			Comments: r.CommentsCount,
		})
	}
	return out
}

// byViews returns a copy sorted by views descending, stable on ties
func (u *DashboardUsecase) byViews(rows []model.VideoRecord) []model.VideoRecord {
	sorted := make([]model.VideoRecord, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ViewsCount > sorted[j].ViewsCount })
	return sorted
}

func validBucket(bucket string) bool {
	for _, b := range Buckets {
		if b == bucket {
			return true
		}
	}
	return false
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
