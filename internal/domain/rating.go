package domain

import "time"

// Rating is a 1-5 integer score a person assigns to either a series or a
// single episode. SeriesID is always populated: for episode ratings it is
// denormalized from the episode's owning series. EpisodeID is nil for
// series-level ratings.
type Rating struct {
	ID        int64
	PersonID  int64
	SeriesID  int64
	EpisodeID *int64
	Score     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TargetsSeries reports whether the rating was created against the series
// itself rather than one of its episodes.
func (r Rating) TargetsSeries() bool {
	return r.EpisodeID == nil
}
