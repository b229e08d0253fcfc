package repository

import (
	"context"

	"channel-insights/domain/model"
)

// IYouTube defines the remote calls the collector needs
type IYouTube interface {
	// ListVideosPage fetches one page of the channel listing. An empty pageToken
	// requests the first page.
	ListVideosPage(ctx context.Context, pageToken string) (*model.ListingPage, error)
	// FetchStats fetches the engagement counters of a single video
	FetchStats(ctx context.Context, videoID string) (*model.Stats, error)
}
