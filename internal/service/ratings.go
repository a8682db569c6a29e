package service

import (
	"context"

	"github.com/serietrack/serietrack/internal/domain"
)

// SeriesStore is the series lookup surface the services need.
type SeriesStore interface {
	GetByID(ctx context.Context, id int64) (domain.Series, error)
}

// EpisodeStore is the episode lookup surface the ratings service needs.
type EpisodeStore interface {
	GetByID(ctx context.Context, id int64) (domain.Episode, error)
}

// PersonStore is the person lookup surface the services need.
type PersonStore interface {
	GetByID(ctx context.Context, id int64) (domain.Person, error)
}

// RatingStore persists ratings and answers aggregate queries.
type RatingStore interface {
	UpsertSeriesRating(ctx context.Context, personID, seriesID int64, score int) (domain.Rating, bool, error)
	UpsertEpisodeRating(ctx context.Context, personID int64, episode domain.Episode, score int) (domain.Rating, bool, error)
	AverageForSeries(ctx context.Context, seriesID int64) (float64, error)
	AverageForEpisode(ctx context.Context, episodeID int64) (float64, error)
}

// RatingsService enforces the one-rating-per-(person, target) invariant and
// exposes average-score queries.
type RatingsService struct {
	series   SeriesStore
	episodes EpisodeStore
	persons  PersonStore
	ratings  RatingStore
}

// NewRatingsService wires the ratings service to its stores.
func NewRatingsService(series SeriesStore, episodes EpisodeStore, persons PersonStore, ratings RatingStore) *RatingsService {
	return &RatingsService{series: series, episodes: episodes, persons: persons, ratings: ratings}
}

// RateSeries records or overwrites a person's score for a series. The boolean
// result reports whether the rating was newly created.
func (s *RatingsService) RateSeries(ctx context.Context, seriesID, personID int64, score int) (domain.Rating, bool, error) {
	if score < 1 || score > 5 {
		return domain.Rating{}, false, ErrInvalidScore
	}
	if _, err := s.series.GetByID(ctx, seriesID); err != nil {
		return domain.Rating{}, false, mapStoreErr(err)
	}
	if _, err := s.persons.GetByID(ctx, personID); err != nil {
		return domain.Rating{}, false, mapStoreErr(err)
	}
	return s.ratings.UpsertSeriesRating(ctx, personID, seriesID, score)
}

// RateEpisode records or overwrites a person's score for an episode. The
// owning series is denormalized onto the stored rating.
func (s *RatingsService) RateEpisode(ctx context.Context, episodeID, personID int64, score int) (domain.Rating, bool, error) {
	if score < 1 || score > 5 {
		return domain.Rating{}, false, ErrInvalidScore
	}
	episode, err := s.episodes.GetByID(ctx, episodeID)
	if err != nil {
		return domain.Rating{}, false, mapStoreErr(err)
	}
	if _, err := s.persons.GetByID(ctx, personID); err != nil {
		return domain.Rating{}, false, mapStoreErr(err)
	}
	return s.ratings.UpsertEpisodeRating(ctx, personID, episode, score)
}

// AverageForSeries returns the mean of the ratings targeting the series
// directly, 0.0 when it has none. Episode-level ratings are not rolled up.
func (s *RatingsService) AverageForSeries(ctx context.Context, seriesID int64) (float64, error) {
	if _, err := s.series.GetByID(ctx, seriesID); err != nil {
		return 0, mapStoreErr(err)
	}
	return s.ratings.AverageForSeries(ctx, seriesID)
}

// AverageForEpisode returns the mean of the ratings targeting the episode,
// 0.0 when it has none.
func (s *RatingsService) AverageForEpisode(ctx context.Context, episodeID int64) (float64, error) {
	if _, err := s.episodes.GetByID(ctx, episodeID); err != nil {
		return 0, mapStoreErr(err)
	}
	return s.ratings.AverageForEpisode(ctx, episodeID)
}
