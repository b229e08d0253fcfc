package usecase

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"channel-insights/domain/model"
)

var errNegativeCount = errors.New("negative count")

// Transform converts the collected text columns into typed values.
// It is all-or-nothing: the first bad cell aborts with a *model.TypeConversionError.
func Transform(raw *model.RawVideoTable) (*model.VideoTable, error) {
	if raw == nil {
		return &model.VideoTable{Rows: []model.VideoRecord{}}, nil
	}

	table := &model.VideoTable{
		TableMeta: raw.TableMeta,
		Rows:      make([]model.VideoRecord, 0, len(raw.Rows)),
	}
	for i, r := range raw.Rows {
		published, err := parseDay(r.PublishedDate)
		if err != nil {
			return nil, conversionError("published_date", i, r.VideoID, r.PublishedDate, err)
		}
		views, err := parseCount(r.ViewsCount)
		if err != nil {
			return nil, conversionError("views_count", i, r.VideoID, r.ViewsCount, err)
		}
		likes, err := parseCount(r.LikeCount)
		if err != nil {
			return nil, conversionError("like_count", i, r.VideoID, r.LikeCount, err)
		}
		comments, err := parseCount(r.CommentsCount)
		if err != nil {
			return nil, conversionError("comments_count", i, r.VideoID, r.CommentsCount, err)
		}

		table.Rows = append(table.Rows, model.VideoRecord{
			VideoID:       r.VideoID,
			Title:         r.Title,
			PublishedDate: published,
			ViewsCount:    views,
			LikeCount:     likes,
			CommentsCount: comments,
		})
	}
	return table, nil
}

func conversionError(column string, row int, videoID, value string, err error) error {
	return &model.TypeConversionError{Column: column, Row: row, VideoID: videoID, Value: value, Err: err}
}

func parseCount(v string) (int32, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 32)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errNegativeCount
	}
	return int32(n), nil
}

// parseDay accepts YYYY-MM-DD or a full RFC 3339 timestamp and returns UTC midnight
func parseDay(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "T") {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, err
		}
		v = ts.UTC().Format(model.DateLayout)
	}
	return time.ParseInLocation(model.DateLayout, v, time.UTC)
}
