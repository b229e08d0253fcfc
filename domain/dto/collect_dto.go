package dto

import "time"

// DatasetPublishedEvent is sent after a dataset file has been written
type DatasetPublishedEvent struct {
	RunID       string    `json:"run_id"`
	ChannelID   string    `json:"channel_id"`
	Path        string    `json:"path"`
	Rows        int       `json:"rows"`
	Partial     bool      `json:"partial"`
	CollectedAt time.Time `json:"collected_at"`
	PersistedAt time.Time `json:"persisted_at"`
}

// CollectReport summarizes one ETL run
type CollectReport struct {
	RunID     string `json:"run_id"`
	Pages     int    `json:"pages"`
	Rows      int    `json:"rows"`
	Skipped   int    `json:"skipped"`
	Partial   bool   `json:"partial"`
	Path      string `json:"path"`
	Exported  int    `json:"exported"`
	Published bool   `json:"published"`
}
