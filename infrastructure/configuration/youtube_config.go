package configuration

import (
	"time"

	"channel-insights/domain/model"
)

// YouTubeConfig represents the credentials and endpoint of the Data API
type YouTubeConfig struct {
	APIKey         string
	ChannelID      string
	Endpoint       string
	RequestTimeout time.Duration
}

// GetYouTubeConfig returns the YouTube configuration or a *model.ConfigurationError
// naming every required value that is missing.
func GetYouTubeConfig() (*YouTubeConfig, error) {
	return youTubeConfigFrom(&C)
}

func youTubeConfigFrom(c *Config) (*YouTubeConfig, error) {
	var missing []string
	if c.YouTube.APIKey == "" {
		missing = append(missing, "YOUTUBE_API_KEY")
	}
	if c.YouTube.ChannelID == "" {
		missing = append(missing, "YOUTUBE_CHANNEL_ID")
	}
	if len(missing) > 0 {
		return nil, &model.ConfigurationError{Missing: missing}
	}
	return &YouTubeConfig{
		APIKey:         c.YouTube.APIKey,
		ChannelID:      c.YouTube.ChannelID,
		Endpoint:       c.YouTube.Endpoint,
		RequestTimeout: time.Duration(c.YouTube.RequestTimeoutSeconds) * time.Second,
	}, nil
}

// PageInterval is the minimum delay between two listing page requests
func (c Collector) PageInterval() time.Duration {
	return time.Duration(c.PageIntervalMs) * time.Millisecond
}

// StatsTTL is how long cached statistics stay valid
func (r RedisClient) StatsTTL() time.Duration {
	return time.Duration(r.TTLMinutes) * time.Minute
}
