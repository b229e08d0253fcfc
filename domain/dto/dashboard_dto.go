package dto

// DashboardSampleRow is one row of the top-by-views sample table
type DashboardSampleRow struct {
	VideoID       string `json:"video_id"`
	Title         string `json:"title"`
	PublishedDate string `json:"published_date"`
	Views         int32  `json:"views"`
	Likes         int32  `json:"likes"`
	Comments      int32  `json:"comments"`
}

// DashboardSummary aggregates the channel-wide metrics
type DashboardSummary struct {
	ChannelID     string `json:"channel_id"`
	ChannelName   string `json:"channel_name,omitempty"`
	TotalVideos   int64  `json:"total_videos"`
	TotalViews    int64  `json:"total_views"`
	TotalLikes    int64  `json:"total_likes"`
	TotalComments int64  `json:"total_comments"`
	// Humanized values, e.g. "12,345"
	TotalVideosText   string `json:"total_videos_text"`
	TotalViewsText    string `json:"total_views_text"`
	TotalLikesText    string `json:"total_likes_text"`
	TotalCommentsText string `json:"total_comments_text"`
}

// MonthlyViews represents views summed per publish month (YYYY-MM-01)
type MonthlyViews struct {
	Month string `json:"month"`
	Views int64  `json:"views"`
}

// EngagementEntry is a video ranked by (likes + comments) / views
type EngagementEntry struct {
	VideoID string  `json:"video_id"`
	Title   string  `json:"title"`
	Ratio   float64 `json:"engagement_ratio"`
	Label   string  `json:"label"`
}

// RecencyVideo is a video inside a recency bucket
type RecencyVideo struct {
	VideoID       string `json:"video_id"`
	Title         string `json:"title"`
	PublishedDate string `json:"published_date"`
	Bucket        string `json:"bucket"`
	Views         int32  `json:"views"`
}

// ScatterPoint plots views against likes, sized by comments
type ScatterPoint struct {
	VideoID  string `json:"video_id"`
	Title    string `json:"title"`
	Views    int32  `json:"views"`
	Likes    int32  `json:"likes"`
	Comments int32  `json:"comments"`
}
