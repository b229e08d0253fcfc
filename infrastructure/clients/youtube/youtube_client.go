package youtube

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"channel-insights/domain/model"
	"channel-insights/infrastructure/logger"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// PageSize is the largest page the search endpoint serves
const PageSize = 50

// Client represents YouTube API client
type Client struct {
	service   *youtube.Service
	channelID string
	timeout   time.Duration
}

// Config represents YouTube API configuration
type Config struct {
	APIKey         string        `json:"api_key"`
	ChannelID      string        `json:"channel_id"`
	Endpoint       string        `json:"endpoint,omitempty"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// NewYouTubeClient creates a read-only Data API client authenticated with an API key.
// Extra options are appended last, which lets tests point the client at a fake server.
func NewYouTubeClient(ctx context.Context, config *Config, extra ...option.ClientOption) (*Client, error) {
	if config == nil || config.APIKey == "" || config.ChannelID == "" {
		return nil, fmt.Errorf("youtube client requires an API key and a channel ID")
	}
	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}
	opts = append(opts, extra...)

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service with API key: %w", err)
	}
	return &Client{
		service:   service,
		channelID: config.ChannelID,
		timeout:   config.RequestTimeout,
	}, nil
}

// ListVideosPage fetches one page of the channel's search listing, newest first
func (c *Client) ListVideosPage(ctx context.Context, pageToken string) (*model.ListingPage, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	call := c.service.Search.List([]string{"snippet", "id"}).
		ChannelId(c.channelID).
		Order("date").
		MaxResults(PageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, remoteError("search", err)
	}

	page := &model.ListingPage{
		Items:         make([]model.ListingItem, 0, len(response.Items)),
		NextPageToken: response.NextPageToken,
	}
	for _, item := range response.Items {
		page.Items = append(page.Items, convertSearchResult(item))
	}
	logger.GetLogger().WithFields(map[string]interface{}{
		"channelId": c.channelID,
		"items":     len(page.Items),
		"hasNext":   page.NextPageToken != "",
	}).Debug("Fetched listing page")
	return page, nil
}

// FetchStats retrieves view, like and comment counters for one video.
// Counters the API leaves out come back as "0".
func (c *Client) FetchStats(ctx context.Context, videoID string) (*model.Stats, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	response, err := c.service.Videos.List([]string{"statistics"}).
		Id(videoID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, remoteError("videos", err)
	}
	if len(response.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrVideoNotFound, videoID)
	}
	return convertStatistics(response.Items[0].Statistics), nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// convertSearchResult flattens a search result into a listing item
func convertSearchResult(item *youtube.SearchResult) model.ListingItem {
	var out model.ListingItem
	if item == nil {
		return out
	}
	if item.Id != nil {
		out.Kind = item.Id.Kind
		out.VideoID = item.Id.VideoId
	}
	if item.Snippet != nil {
		out.Title = item.Snippet.Title
		out.PublishedAt = item.Snippet.PublishedAt
	}
	return out
}

func convertStatistics(s *youtube.VideoStatistics) *model.Stats {
	if s == nil {
		return &model.Stats{ViewCount: "0", LikeCount: "0", CommentCount: "0"}
	}
	return &model.Stats{
		ViewCount:    strconv.FormatUint(s.ViewCount, 10),
		LikeCount:    strconv.FormatUint(s.LikeCount, 10),
		CommentCount: strconv.FormatUint(s.CommentCount, 10),
	}
}

// remoteError turns a googleapi.Error into a *model.RemoteAPIError; transport
// failures are wrapped unchanged.
func remoteError(endpoint string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &model.RemoteAPIError{
			Endpoint:   endpoint,
			StatusCode: gerr.Code,
			Message:    gerr.Message,
		}
	}
	return fmt.Errorf("youtube %s request: %w", endpoint, err)
}
