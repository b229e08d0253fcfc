package repository

import (
	"context"

	"channel-insights/domain/dto"
	"channel-insights/domain/model"
)

// IDatasetStore persists the typed table
type IDatasetStore interface {
	Save(ctx context.Context, table *model.VideoTable) error
	Load(ctx context.Context) (*model.VideoTable, error)
	Path() string
}

// IVideoSink receives a copy of the typed table, e.g. a SQL table or a CSV file
type IVideoSink interface {
	Name() string
	Export(ctx context.Context, table *model.VideoTable) (int, error)
}

// IEventPublisher announces a freshly persisted dataset
type IEventPublisher interface {
	Name() string
	Publish(ctx context.Context, event *dto.DatasetPublishedEvent) error
}
