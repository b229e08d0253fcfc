package usecase_test

import (
	"context"
	"time"

	"channel-insights/domain/dto"
	"channel-insights/domain/model"
	"channel-insights/usecase"

	"github.com/stretchr/testify/mock"
)

// Mock implementations
type MockYouTube struct {
	mock.Mock
}

func (m *MockYouTube) ListVideosPage(ctx context.Context, pageToken string) (*model.ListingPage, error) {
	args := m.Called(ctx, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListingPage), args.Error(1)
}

func (m *MockYouTube) FetchStats(ctx context.Context, videoID string) (*model.Stats, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}

type MockStatsCache struct {
	mock.Mock
}

func (m *MockStatsCache) Get(ctx context.Context, videoID string) (*model.Stats, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stats), args.Error(1)
}

func (m *MockStatsCache) Set(ctx context.Context, videoID string, stats *model.Stats, ttl time.Duration) error {
	args := m.Called(ctx, videoID, stats, ttl)
	return args.Error(0)
}

type MockDatasetStore struct {
	mock.Mock
}

func (m *MockDatasetStore) Save(ctx context.Context, table *model.VideoTable) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

func (m *MockDatasetStore) Load(ctx context.Context) (*model.VideoTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoTable), args.Error(1)
}

func (m *MockDatasetStore) Path() string {
	return "data/videos_stats.bson"
}

type MockVideoSink struct {
	mock.Mock
}

func (m *MockVideoSink) Name() string {
	return "mock-sink"
}

func (m *MockVideoSink) Export(ctx context.Context, table *model.VideoTable) (int, error) {
	args := m.Called(ctx, table)
	return args.Int(0), args.Error(1)
}

type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Name() string {
	return "mock-publisher"
}

func (m *MockEventPublisher) Publish(ctx context.Context, event *dto.DatasetPublishedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// fixtures

func videoItem(id, title, publishedAt string) model.ListingItem {
	return model.ListingItem{Kind: model.KindVideo, VideoID: id, Title: title, PublishedAt: publishedAt}
}

func stats(views, likes, comments string) *model.Stats {
	return &model.Stats{ViewCount: views, LikeCount: likes, CommentCount: comments}
}

type MockCollector struct {
	mock.Mock
}

func (m *MockCollector) Collect(ctx context.Context) (*model.RawVideoTable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RawVideoTable), args.Error(1)
}

func (m *MockCollector) LastRun() usecase.CollectRun {
	args := m.Called()
	return args.Get(0).(usecase.CollectRun)
}
