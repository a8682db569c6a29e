package service

import (
	"context"
	"sort"

	"github.com/serietrack/serietrack/internal/domain"
)

// HistoryStore resolves persons and their watched-series history.
type HistoryStore interface {
	GetByID(ctx context.Context, id int64) (domain.Person, error)
	HistorySeries(ctx context.Context, personID int64) ([]domain.Series, error)
}

// RecommendConfig caps how many genres are inferred from history and how
// many unseen series are proposed per genre.
type RecommendConfig struct {
	MaxGenres   int
	MaxPerGenre int
}

// DefaultRecommendConfig returns the standard 3-genres, 3-per-genre caps.
func DefaultRecommendConfig() RecommendConfig {
	return RecommendConfig{MaxGenres: 3, MaxPerGenre: 3}
}

// RecommendationService proposes unseen series matching the genres a person
// watches most.
type RecommendationService struct {
	cfg     RecommendConfig
	persons HistoryStore
	series  SeriesLister
}

// NewRecommendationService wires the recommendation engine to its stores.
func NewRecommendationService(cfg RecommendConfig, persons HistoryStore, series SeriesLister) *RecommendationService {
	return &RecommendationService{cfg: cfg, persons: persons, series: series}
}

// Recommend returns up to MaxGenres*MaxPerGenre unseen series for a person,
// grouped by their most-watched genres. An empty history yields an empty
// list; an unknown person yields ErrNotFound.
func (s *RecommendationService) Recommend(ctx context.Context, personID int64) ([]domain.Series, error) {
	if _, err := s.persons.GetByID(ctx, personID); err != nil {
		return nil, mapStoreErr(err)
	}

	history, err := s.persons.HistorySeries(ctx, personID)
	if err != nil {
		return nil, err
	}

	recommendations := make([]domain.Series, 0)
	if len(history) == 0 {
		return recommendations, nil
	}

	genreCount := make(map[string]int)
	watched := make(map[int64]bool, len(history))
	for _, sr := range history {
		genreCount[sr.Genre]++
		watched[sr.ID] = true
	}

	topGenres := topGenres(genreCount, s.cfg.MaxGenres)

	allSeries, err := s.series.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, genre := range topGenres {
		found := 0
		for _, sr := range allSeries {
			if sr.Genre != genre || watched[sr.ID] {
				continue
			}
			recommendations = append(recommendations, sr)
			found++
			if found == s.cfg.MaxPerGenre {
				break
			}
		}
	}
	return recommendations, nil
}

// topGenres picks up to limit genres by watch count descending. Ties order
// lexicographically so results do not depend on map iteration order.
func topGenres(counts map[string]int, limit int) []string {
	genres := make([]string, 0, len(counts))
	for genre := range counts {
		genres = append(genres, genre)
	}
	sort.Slice(genres, func(i, j int) bool {
		if counts[genres[i]] != counts[genres[j]] {
			return counts[genres[i]] > counts[genres[j]]
		}
		return genres[i] < genres[j]
	})
	if len(genres) > limit {
		genres = genres[:limit]
	}
	return genres
}
