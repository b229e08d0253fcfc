package model

import (
	"strconv"
	"time"
)

// KindVideo is the id.kind value of search results that point to a video.
// Playlist and channel results carry other kinds and are dropped.
const KindVideo = "youtube#video"

// ListingItem is one entry of a search listing page
type ListingItem struct {
	Kind        string `json:"kind"`
	VideoID     string `json:"video_id,omitempty"`
	Title       string `json:"title"`
	PublishedAt string `json:"published_at"`
}

// IsVideo reports whether the item points to a video
func (i ListingItem) IsVideo() bool {
	return i.Kind == KindVideo
}

// ListingPage is one page of the channel listing ordered by publish date descending.
// An empty NextPageToken marks the last page.
type ListingPage struct {
	Items         []ListingItem `json:"items"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// Stats holds the engagement counters of a single video as decimal strings,
// the way the statistics endpoint delivers them.
type Stats struct {
	ViewCount    string `json:"view_count"`
	LikeCount    string `json:"like_count"`
	CommentCount string `json:"comment_count"`
}

// RawVideoRecord is a collected row before type conversion
type RawVideoRecord struct {
	VideoID       string `json:"video_id"`
	Title         string `json:"title"`
	PublishedDate string `json:"published_date"` // YYYY-MM-DD
	ViewsCount    string `json:"views_count"`
	LikeCount     string `json:"like_count"`
	CommentsCount string `json:"comments_count"`
}

// VideoRecord is an analysis-ready row
type VideoRecord struct {
	VideoID       string    `json:"video_id"`
	Title         string    `json:"title"`
	PublishedDate time.Time `json:"published_date"`
	ViewsCount    int32     `json:"views_count"`
	LikeCount     int32     `json:"like_count"`
	CommentsCount int32     `json:"comments_count"`
}

// TableMeta identifies a collection run
type TableMeta struct {
	RunID       string    `json:"run_id"`
	ChannelID   string    `json:"channel_id"`
	CollectedAt time.Time `json:"collected_at"`
}

// RawVideoTable is the Collector's output. Rows keep listing order.
type RawVideoTable struct {
	TableMeta
	Rows []RawVideoRecord `json:"rows"`
}

// Len returns the number of rows
func (t *RawVideoTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// VideoTable is the typed dataset persisted to disk and read by the dashboard
type VideoTable struct {
	TableMeta
	Rows []VideoRecord `json:"rows"`
}

// Len returns the number of rows
func (t *VideoTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// DateLayout is the textual form of published_date
const DateLayout = "2006-01-02"

// Raw renders the table back to its text columns
func (t *VideoTable) Raw() *RawVideoTable {
	raw := &RawVideoTable{TableMeta: t.TableMeta, Rows: make([]RawVideoRecord, 0, len(t.Rows))}
	for _, r := range t.Rows {
		raw.Rows = append(raw.Rows, r.Raw())
	}
	return raw
}

// Raw renders a typed record as text columns
func (r VideoRecord) Raw() RawVideoRecord {
	return RawVideoRecord{
		VideoID:       r.VideoID,
		Title:         r.Title,
		PublishedDate: r.PublishedDate.UTC().Format(DateLayout),
		ViewsCount:    itoa32(r.ViewsCount),
		LikeCount:     itoa32(r.LikeCount),
		CommentsCount: itoa32(r.CommentsCount),
	}
}

func itoa32(v int32) string {
	return strconv.FormatInt(int64(v), 10)
}
