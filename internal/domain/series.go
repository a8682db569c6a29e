package domain

import "time"

// Series represents a watchable title with a single genre tag.
type Series struct {
	ID           int64
	Title        string
	Genre        string
	EpisodeCount int
	// Note is a legacy cached score kept for older clients. It is never
	// read by the trending or recommendation engines.
	Note      float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
