package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/logger"
)

// EnsureVideoStatsSchema creates the video_stats table on PostgreSQL if not exists
func EnsureVideoStatsSchema(db *sql.DB) error {
	ddl := `CREATE TABLE IF NOT EXISTS video_stats (
        video_id TEXT PRIMARY KEY,
        channel_id TEXT NOT NULL,
        title TEXT NOT NULL,
        published_date DATE NOT NULL,
        views_count INTEGER NOT NULL,
        like_count INTEGER NOT NULL,
        comments_count INTEGER NOT NULL,
        run_id TEXT NOT NULL,
        collected_at TIMESTAMPTZ NOT NULL
    )`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create video_stats table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_video_stats_channel_published ON video_stats(channel_id, published_date DESC)`); err != nil {
		logger.GetLogger().WithField("error", err).Warn("failed creating idx_video_stats_channel_published")
	}
	return nil
}

const upsertVideoStatsPostgres = `INSERT INTO video_stats(video_id, channel_id, title, published_date, views_count, like_count, comments_count, run_id, collected_at)
          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
          ON CONFLICT (video_id) DO UPDATE SET channel_id=EXCLUDED.channel_id, title=EXCLUDED.title, published_date=EXCLUDED.published_date, views_count=EXCLUDED.views_count, like_count=EXCLUDED.like_count, comments_count=EXCLUDED.comments_count, run_id=EXCLUDED.run_id, collected_at=EXCLUDED.collected_at`

// VideoStatsRepository mirrors the dataset into a PostgreSQL table
type VideoStatsRepository struct{ db *sql.DB }

func NewVideoStatsRepository(db *sql.DB) *VideoStatsRepository {
	return &VideoStatsRepository{db: db}
}

func (r *VideoStatsRepository) Name() string { return "postgres" }

// Export upserts every row in one transaction and returns the number written
func (r *VideoStatsRepository) Export(ctx context.Context, table *model.VideoTable) (int, error) {
	return exportRows(ctx, r.db, upsertVideoStatsPostgres, table)
}

// exportRows runs a prepared upsert per row inside a transaction
func exportRows(ctx context.Context, db *sql.DB, query string, table *model.VideoTable) (n int, err error) {
	if db == nil || table.Len() == 0 {
		return 0, nil
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	collectedAt := table.CollectedAt.UTC()
	for _, v := range table.Rows {
		if _, err = stmt.ExecContext(ctx,
			v.VideoID, table.ChannelID, v.Title, v.PublishedDate,
			v.ViewsCount, v.LikeCount, v.CommentsCount,
			table.RunID, collectedAt,
		); err != nil {
			return 0, fmt.Errorf("upsert video %s: %w", v.VideoID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return table.Len(), nil
}
