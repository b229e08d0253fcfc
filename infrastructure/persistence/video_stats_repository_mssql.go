package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"channel-insights/domain/model"
)

// EnsureVideoStatsSchemaMSSQL creates the video_stats table on MSSQL if not exists
func EnsureVideoStatsSchemaMSSQL(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("db is nil")
	}
	ddl := `IF NOT EXISTS (SELECT * FROM sys.objects WHERE object_id = OBJECT_ID(N'dbo.video_stats') AND type in (N'U'))
BEGIN
    CREATE TABLE dbo.video_stats (
        video_id NVARCHAR(64) NOT NULL PRIMARY KEY,
        channel_id NVARCHAR(64) NOT NULL,
        title NVARCHAR(512) NOT NULL,
        published_date DATE NOT NULL,
        views_count INT NOT NULL,
        like_count INT NOT NULL,
        comments_count INT NOT NULL,
        run_id NVARCHAR(64) NOT NULL,
        collected_at DATETIMEOFFSET NOT NULL
    );
END`
	if _, err := db.Exec(ddl); err != nil {
		return fmt.Errorf("create video_stats table (mssql): %w", err)
	}
	return nil
}

const upsertVideoStatsMSSQL = `MERGE dbo.video_stats AS target
USING (SELECT @p1 AS video_id, @p2 AS channel_id, @p3 AS title, @p4 AS published_date, @p5 AS views_count, @p6 AS like_count, @p7 AS comments_count, @p8 AS run_id, @p9 AS collected_at) AS source
ON target.video_id = source.video_id
WHEN MATCHED THEN UPDATE SET channel_id=source.channel_id, title=source.title, published_date=source.published_date, views_count=source.views_count, like_count=source.like_count, comments_count=source.comments_count, run_id=source.run_id, collected_at=source.collected_at
WHEN NOT MATCHED THEN INSERT (video_id, channel_id, title, published_date, views_count, like_count, comments_count, run_id, collected_at)
VALUES (source.video_id, source.channel_id, source.title, source.published_date, source.views_count, source.like_count, source.comments_count, source.run_id, source.collected_at);`

// VideoStatsRepositoryMSSQL mirrors the dataset into an MSSQL table
type VideoStatsRepositoryMSSQL struct {
	db *sql.DB
}

func NewVideoStatsRepositoryMSSQL(db *sql.DB) *VideoStatsRepositoryMSSQL {
	return &VideoStatsRepositoryMSSQL{db: db}
}

func (r *VideoStatsRepositoryMSSQL) Name() string { return "mssql" }

func (r *VideoStatsRepositoryMSSQL) Export(ctx context.Context, table *model.VideoTable) (int, error) {
	return exportRows(ctx, r.db, upsertVideoStatsMSSQL, table)
}
