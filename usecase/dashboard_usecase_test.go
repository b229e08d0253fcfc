package usecase_test

import (
	"context"
	"testing"
	"time"

	"channel-insights/domain/dto"
	"channel-insights/domain/model"
	"channel-insights/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func video(id string, published time.Time, views, likes, comments int32) model.VideoRecord {
	return model.VideoRecord{VideoID: id, Title: "title " + id, PublishedDate: published, ViewsCount: views, LikeCount: likes, CommentsCount: comments}
}

// now is 2024-06-01 12:00 UTC
func dashboardFixture() *usecase.DashboardUsecase {
	table := &model.VideoTable{
		TableMeta: model.TableMeta{ChannelID: "UC-test"},
		Rows: []model.VideoRecord{
			video("A", day(2024, 5, 20), 100, 10, 5),    // 0.15, <=3 months
			video("B", day(2024, 3, 1), 2000, 100, 0),   // 0.05, <=3 months (boundary)
			video("C", day(2024, 2, 29), 2000, 20, 20),  // 0.02, <=6 months
			video("D", day(2023, 12, 1), 0, 0, 0),       // 0, <=6 months (boundary)
			video("E", day(2023, 11, 30), 500, 50, 25),  // 0.15, >6 months
			video("F", day(2023, 11, 2), 1500000, 0, 0), // 0, >6 months
		},
	}
	return usecase.NewDashboardUsecase(table, "Test Channel", func() time.Time { return fixedNow })
}

func TestEngagementRatio(t *testing.T) {
	assert.InDelta(t, 0.15, usecase.EngagementRatio(video("A", day(2024, 1, 1), 100, 10, 5)), 1e-12)
	assert.Equal(t, 0.0, usecase.EngagementRatio(video("Z", day(2024, 1, 1), 0, 10, 5)))
}

func TestDashboard_TopEngagement(t *testing.T) {
	top := dashboardFixture().TopEngagement(10)

	require.Len(t, top, 6)
	ids := make([]string, 0, len(top))
	for _, e := range top {
		ids = append(ids, e.VideoID)
	}
	// A and E tie at 0.15, D and F tie at 0: listing order wins
	assert.Equal(t, []string{"A", "E", "B", "C", "D", "F"}, ids)
	assert.Equal(t, "0.15", top[0].Label)
	assert.Equal(t, "0.02", top[3].Label)

	assert.Len(t, dashboardFixture().TopEngagement(2), 2)
}

func TestDashboard_Sample(t *testing.T) {
	sample := dashboardFixture().Sample(0)

	require.Len(t, sample, usecase.DefaultSampleSize)
	assert.Equal(t, "F", sample[0].VideoID)
	// B and C tie on views
	assert.Equal(t, "B", sample[1].VideoID)
	assert.Equal(t, "C", sample[2].VideoID)
	assert.Equal(t, dto.DashboardSampleRow{
		VideoID: "E", Title: "title E", PublishedDate: "2023-11-30", Views: 500, Likes: 50, Comments: 25,
	}, sample[3])
}

func TestDashboard_Summary(t *testing.T) {
	s := dashboardFixture().Summary()

	assert.Equal(t, int64(6), s.TotalVideos)
	assert.Equal(t, int64(1504600), s.TotalViews)
	assert.Equal(t, int64(180), s.TotalLikes)
	assert.Equal(t, int64(50), s.TotalComments)
	assert.Equal(t, "1,504,600", s.TotalViewsText)
	assert.Equal(t, "6", s.TotalVideosText)
	assert.Equal(t, "Test Channel", s.ChannelName)
	assert.Equal(t, "UC-test", s.ChannelID)
}

func TestDashboard_SummaryDoesNotOverflow(t *testing.T) {
	table := &model.VideoTable{Rows: []model.VideoRecord{
		video("A", day(2024, 1, 1), 2147483647, 0, 0),
		video("B", day(2024, 1, 2), 2147483647, 0, 0),
	}}
	s := usecase.NewDashboardUsecase(table, "", nil).Summary()
	assert.Equal(t, int64(4294967294), s.TotalViews)
	assert.Equal(t, "4,294,967,294", s.TotalViewsText)
}

func TestDashboard_MonthlyViews(t *testing.T) {
	monthly := dashboardFixture().MonthlyViews()

	assert.Equal(t, []dto.MonthlyViews{
		{Month: "2023-11-01", Views: 1500500},
		{Month: "2023-12-01", Views: 0},
		{Month: "2024-02-01", Views: 2000},
		{Month: "2024-03-01", Views: 2000},
		{Month: "2024-05-01", Views: 100},
	}, monthly)
}

func TestRecencyBucket(t *testing.T) {
	tests := []struct {
		published time.Time
		want      string
	}{
		{day(2024, 6, 1), usecase.BucketLast3Months},
		{day(2024, 3, 1), usecase.BucketLast3Months},
		{day(2024, 2, 29), usecase.BucketLast6Months},
		{day(2023, 12, 1), usecase.BucketLast6Months},
		{day(2023, 11, 30), usecase.BucketOlder},
		{day(2019, 1, 1), usecase.BucketOlder},
	}
	for _, tt := range tests {
		t.Run(tt.published.Format(model.DateLayout), func(t *testing.T) {
			assert.Equal(t, tt.want, usecase.RecencyBucket(video("X", tt.published, 0, 0, 0), fixedNow))
		})
	}
}

func TestDashboard_TopByViewsInBucket(t *testing.T) {
	u := dashboardFixture()

	recent, err := u.TopByViewsInBucket(usecase.BucketLast3Months, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "B", recent[0].VideoID)
	assert.Equal(t, "A", recent[1].VideoID)
	assert.Equal(t, usecase.BucketLast3Months, recent[0].Bucket)

	older, err := u.TopByViewsInBucket(usecase.BucketOlder, 1)
	require.NoError(t, err)
	require.Len(t, older, 1)
	assert.Equal(t, "F", older[0].VideoID)

	_, err = u.TopByViewsInBucket("last week", 10)
	assert.Error(t, err)
}

func TestDashboard_Scatter(t *testing.T) {
	points := dashboardFixture().Scatter()

	require.Len(t, points, 6)
	assert.Equal(t, dto.ScatterPoint{VideoID: "A", Title: "title A", Views: 100, Likes: 10, Comments: 5}, points[0])
}

func TestDashboard_EmptyTable(t *testing.T) {
	u := usecase.NewDashboardUsecase(nil, "", nil)

	assert.Empty(t, u.Sample(5))
	assert.Empty(t, u.TopEngagement(10))
	assert.Empty(t, u.MonthlyViews())
	assert.Equal(t, "0", u.Summary().TotalViewsText)
}

func TestLoadDashboard(t *testing.T) {
	store := new(MockDatasetStore)
	store.On("Load", mock.Anything).Return(&model.VideoTable{Rows: []model.VideoRecord{video("A", day(2024, 1, 1), 1, 0, 0)}}, nil).Once()

	u, err := usecase.LoadDashboard(context.Background(), store, "name")
	require.NoError(t, err)
	assert.Equal(t, 1, u.Table().Len())

	failing := new(MockDatasetStore)
	failing.On("Load", mock.Anything).Return(nil, &model.PersistenceError{Path: "x", Op: "read", Err: assert.AnError}).Once()
	_, err = usecase.LoadDashboard(context.Background(), failing, "name")
	assert.ErrorIs(t, err, assert.AnError)
}
