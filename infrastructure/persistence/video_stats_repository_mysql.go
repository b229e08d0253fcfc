package persistence

import (
	"context"
	"time"

	"channel-insights/domain/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoStat is the gorm row of the video_stats table
type VideoStat struct {
	VideoID       string    `gorm:"column:video_id;primaryKey;size:64"`
	ChannelID     string    `gorm:"column:channel_id;size:64;index:idx_video_stats_channel"`
	Title         string    `gorm:"column:title;size:512"`
	PublishedDate time.Time `gorm:"column:published_date;type:date"`
	ViewsCount    int32     `gorm:"column:views_count"`
	LikeCount     int32     `gorm:"column:like_count"`
	CommentsCount int32     `gorm:"column:comments_count"`
	RunID         string    `gorm:"column:run_id;size:64"`
	CollectedAt   time.Time `gorm:"column:collected_at"`
}

func (VideoStat) TableName() string {
	return "video_stats"
}

// EnsureVideoStatsSchemaMySQL migrates the video_stats table
func EnsureVideoStatsSchemaMySQL(db *gorm.DB) error {
	return db.AutoMigrate(&VideoStat{})
}

// VideoStatsRepositoryMySQL mirrors the dataset into MySQL through gorm
type VideoStatsRepositoryMySQL struct {
	db *gorm.DB
}

func NewVideoStatsRepositoryMySQL(db *gorm.DB) *VideoStatsRepositoryMySQL {
	return &VideoStatsRepositoryMySQL{db: db}
}

func (r *VideoStatsRepositoryMySQL) Name() string { return "mysql" }

func (r *VideoStatsRepositoryMySQL) Export(ctx context.Context, table *model.VideoTable) (int, error) {
	if r.db == nil || table.Len() == 0 {
		return 0, nil
	}
	rows := make([]VideoStat, 0, table.Len())
	for _, v := range table.Rows {
		rows = append(rows, VideoStat{
			VideoID:       v.VideoID,
			ChannelID:     table.ChannelID,
			Title:         v.Title,
			PublishedDate: v.PublishedDate,
			ViewsCount:    v.ViewsCount,
			LikeCount:     v.LikeCount,
			CommentsCount: v.CommentsCount,
			RunID:         table.RunID,
			CollectedAt:   table.CollectedAt.UTC(),
		})
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return len(rows), nil
}
