package filecsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/logger"
	"channel-insights/infrastructure/storage"
)

// Header is the column order of exported files
var Header = []string{"video_id", "title", "published_date", "views_count", "like_count", "comments_count"}

// VideoCSV writes the typed table as a CSV file, replacing it atomically
type VideoCSV struct {
	path string
}

func NewVideoCSV(path string) *VideoCSV {
	return &VideoCSV{path: path}
}

func (c *VideoCSV) Name() string { return "csv" }

func (c *VideoCSV) Export(ctx context.Context, table *model.VideoTable) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	raw := table.Raw()
	err := storage.ReplaceFile(c.path, storage.FileMode, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(Header); err != nil {
			return err
		}
		for _, r := range raw.Rows {
			if err := cw.Write([]string{r.VideoID, r.Title, r.PublishedDate, r.ViewsCount, r.LikeCount, r.CommentsCount}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	})
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{"path": c.path, "error": err}).Error("Error while writing csv export")
		return 0, fmt.Errorf("write %s: %w", c.path, err)
	}
	return table.Len(), nil
}
