package domain

// TrendingEntry is a derived ranking row produced by the trending engine.
// It is recomputed on every call and never persisted.
type TrendingEntry struct {
	SeriesID    int64
	Title       string
	RecentViews int64
	AvgRating   float64
	Score       float64
}
