package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/logger"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// SchemaVersion is written into every dataset file
const SchemaVersion = 1

type datasetDocument struct {
	SchemaVersion int             `bson:"schema_version"`
	RunID         string          `bson:"run_id"`
	ChannelID     string          `bson:"channel_id"`
	CollectedAt   time.Time       `bson:"collected_at"`
	Rows          []videoDocument `bson:"rows"`
}

type videoDocument struct {
	VideoID       string    `bson:"video_id"`
	Title         string    `bson:"title"`
	PublishedDate time.Time `bson:"published_date"`
	ViewsCount    int32     `bson:"views_count"`
	LikeCount     int32     `bson:"like_count"`
	CommentsCount int32     `bson:"comments_count"`
}

// DatasetFileStore keeps the typed table in a single BSON document on disk
type DatasetFileStore struct {
	path string
}

func NewDatasetFileStore(path string) *DatasetFileStore {
	return &DatasetFileStore{path: path}
}

func (s *DatasetFileStore) Path() string {
	return s.path
}

// Save encodes the table and replaces the file atomically. On failure the
// previous file, if any, is left untouched.
func (s *DatasetFileStore) Save(ctx context.Context, table *model.VideoTable) error {
	if err := ctx.Err(); err != nil {
		return &model.PersistenceError{Path: s.path, Op: "write", Err: err}
	}

	data, err := bson.Marshal(toDocument(table))
	if err != nil {
		return &model.PersistenceError{Path: s.path, Op: "encode", Err: err}
	}

	written := false
	err = ReplaceFile(s.path, FileMode, func(w io.Writer) error {
		if _, err := w.Write(data); err != nil {
			return err
		}
		written = true
		return nil
	})
	if err != nil {
		op := "write"
		if written {
			op = "commit"
		}
		return &model.PersistenceError{Path: s.path, Op: op, Err: err}
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"path":  s.path,
		"rows":  table.Len(),
		"bytes": len(data),
		"runId": table.RunID,
	}).Info("Dataset saved")
	return nil
}

// Load reads the dataset written by Save
func (s *DatasetFileStore) Load(ctx context.Context) (*model.VideoTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.PersistenceError{Path: s.path, Op: "read", Err: err}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, &model.PersistenceError{Path: s.path, Op: "read", Err: err}
	}

	var doc datasetDocument
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, &model.PersistenceError{Path: s.path, Op: "decode", Err: err}
	}
	if doc.SchemaVersion != SchemaVersion {
		return nil, &model.PersistenceError{
			Path: s.path,
			Op:   "decode",
			Err:  fmt.Errorf("unsupported schema version %d", doc.SchemaVersion),
		}
	}
	return fromDocument(&doc), nil
}

func toDocument(table *model.VideoTable) *datasetDocument {
	doc := &datasetDocument{SchemaVersion: SchemaVersion, Rows: make([]videoDocument, 0, table.Len())}
	if table == nil {
		return doc
	}
	doc.RunID = table.RunID
	doc.ChannelID = table.ChannelID
	// BSON datetimes carry milliseconds
	doc.CollectedAt = table.CollectedAt.UTC().Truncate(time.Millisecond)
	for _, r := range table.Rows {
		doc.Rows = append(doc.Rows, videoDocument{
			VideoID:       r.VideoID,
			Title:         r.Title,
			PublishedDate: r.PublishedDate.UTC(),
			ViewsCount:    r.ViewsCount,
			LikeCount:     r.LikeCount,
			CommentsCount: r.CommentsCount,
		})
	}
	return doc
}

func fromDocument(doc *datasetDocument) *model.VideoTable {
	table := &model.VideoTable{
		TableMeta: model.TableMeta{
			RunID:       doc.RunID,
			ChannelID:   doc.ChannelID,
			CollectedAt: doc.CollectedAt.UTC(),
		},
		Rows: make([]model.VideoRecord, 0, len(doc.Rows)),
	}
	for _, r := range doc.Rows {
		table.Rows = append(table.Rows, model.VideoRecord{
			VideoID:       r.VideoID,
			Title:         r.Title,
			PublishedDate: r.PublishedDate.UTC(),
			ViewsCount:    r.ViewsCount,
			LikeCount:     r.LikeCount,
			CommentsCount: r.CommentsCount,
		})
	}
	return table
}
