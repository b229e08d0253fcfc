package usecase_test

import (
	"errors"
	"testing"
	"time"

	"channel-insights/domain/model"
	"channel-insights/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawFixture() *model.RawVideoTable {
	return &model.RawVideoTable{
		TableMeta: model.TableMeta{RunID: "run-1", ChannelID: "UC-test", CollectedAt: fixedNow},
		Rows: []model.RawVideoRecord{
			{VideoID: "A", Title: "a", PublishedDate: "2024-05-01", ViewsCount: "100", LikeCount: "10", CommentsCount: "5"},
			{VideoID: "B", Title: "b", PublishedDate: "2023-12-31", ViewsCount: "0", LikeCount: "0", CommentsCount: "0"},
		},
	}
}

func TestTransform(t *testing.T) {
	table, err := usecase.Transform(rawFixture())

	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "run-1", table.RunID)
	assert.Equal(t, model.VideoRecord{
		VideoID:       "A",
		Title:         "a",
		PublishedDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		ViewsCount:    100,
		LikeCount:     10,
		CommentsCount: 5,
	}, table.Rows[0])
}

func TestTransform_AcceptsTimestamp(t *testing.T) {
	raw := rawFixture()
	raw.Rows[0].PublishedDate = "2024-05-01T23:30:00Z"

	table, err := usecase.Transform(raw)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), table.Rows[0].PublishedDate)
}

func TestTransform_Idempotent(t *testing.T) {
	first, err := usecase.Transform(rawFixture())
	require.NoError(t, err)

	second, err := usecase.Transform(first.Raw())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, rawFixture(), first.Raw())
}

func TestTransform_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.RawVideoRecord)
		column string
	}{
		{"non numeric views", func(r *model.RawVideoRecord) { r.ViewsCount = "12abc" }, "views_count"},
		{"overflow likes", func(r *model.RawVideoRecord) { r.LikeCount = "3000000000" }, "like_count"},
		{"negative comments", func(r *model.RawVideoRecord) { r.CommentsCount = "-1" }, "comments_count"},
		{"bad date", func(r *model.RawVideoRecord) { r.PublishedDate = "2024-13-01" }, "published_date"},
		{"empty date", func(r *model.RawVideoRecord) { r.PublishedDate = "" }, "published_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := rawFixture()
			tt.mutate(&raw.Rows[1])

			table, err := usecase.Transform(raw)

			require.Error(t, err)
			assert.Nil(t, table)
			var convErr *model.TypeConversionError
			require.True(t, errors.As(err, &convErr))
			assert.Equal(t, tt.column, convErr.Column)
			assert.Equal(t, 1, convErr.Row)
			assert.Equal(t, "B", convErr.VideoID)
		})
	}
}

func TestTransform_Empty(t *testing.T) {
	table, err := usecase.Transform(&model.RawVideoTable{})
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())

	table, err = usecase.Transform(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}
