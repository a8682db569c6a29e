package service

import (
	"context"
	"errors"
	"testing"

	"github.com/serietrack/serietrack/internal/domain"
)

func newRatingsFixture() (*RatingsService, *fakeRatings) {
	catalog := &fakeCatalog{series: []domain.Series{
		{ID: 1, Title: "Dark Harbor", Genre: "Drama"},
	}}
	episodes := &fakeEpisodes{episodes: []domain.Episode{
		{ID: 10, SeriesID: 1, Title: "Pilot", Number: 1},
	}}
	persons := &fakePersons{persons: []domain.Person{
		{ID: 7, Name: "Ana"},
	}}
	ratings := &fakeRatings{}
	return NewRatingsService(catalog, episodes, persons, ratings), ratings
}

func TestRateSeriesInvalidScore(t *testing.T) {
	svc, store := newRatingsFixture()

	for _, score := range []int{-1, 0, 6, 100} {
		_, _, err := svc.RateSeries(context.Background(), 1, 7, score)
		if !errors.Is(err, ErrInvalidScore) {
			t.Fatalf("RateSeries(score=%d) error = %v, want ErrInvalidScore", score, err)
		}
	}
	if len(store.ratings) != 0 {
		t.Fatalf("invalid scores persisted %d ratings, want 0", len(store.ratings))
	}
}

func TestRateEpisodeInvalidScore(t *testing.T) {
	svc, store := newRatingsFixture()

	_, _, err := svc.RateEpisode(context.Background(), 10, 7, 0)
	if !errors.Is(err, ErrInvalidScore) {
		t.Fatalf("RateEpisode error = %v, want ErrInvalidScore", err)
	}
	if len(store.ratings) != 0 {
		t.Fatalf("invalid score persisted a rating")
	}
}

func TestRateSeriesUnknownTargets(t *testing.T) {
	svc, _ := newRatingsFixture()

	if _, _, err := svc.RateSeries(context.Background(), 999, 7, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown series error = %v, want ErrNotFound", err)
	}
	if _, _, err := svc.RateSeries(context.Background(), 1, 999, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown person error = %v, want ErrNotFound", err)
	}
	if _, _, err := svc.RateEpisode(context.Background(), 999, 7, 3); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown episode error = %v, want ErrNotFound", err)
	}
}

func TestRateSeriesUpsertOverwrites(t *testing.T) {
	svc, store := newRatingsFixture()
	ctx := context.Background()

	first, inserted, err := svc.RateSeries(ctx, 1, 7, 3)
	if err != nil {
		t.Fatalf("first rate: %v", err)
	}
	if !inserted {
		t.Fatalf("first rate should insert")
	}
	if first.Score != 3 {
		t.Fatalf("first score = %d, want 3", first.Score)
	}

	second, inserted, err := svc.RateSeries(ctx, 1, 7, 5)
	if err != nil {
		t.Fatalf("second rate: %v", err)
	}
	if inserted {
		t.Fatalf("second rate should update, not insert")
	}
	if second.Score != 5 {
		t.Fatalf("second score = %d, want 5", second.Score)
	}
	if len(store.ratings) != 1 {
		t.Fatalf("ratings stored = %d, want exactly 1", len(store.ratings))
	}

	avg, err := svc.AverageForSeries(ctx, 1)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg != 5.0 {
		t.Fatalf("average = %v, want 5.0", avg)
	}
}

func TestRateEpisodeDenormalizesSeries(t *testing.T) {
	svc, _ := newRatingsFixture()

	rating, inserted, err := svc.RateEpisode(context.Background(), 10, 7, 4)
	if err != nil {
		t.Fatalf("rate episode: %v", err)
	}
	if !inserted {
		t.Fatalf("expected insert")
	}
	if rating.EpisodeID == nil || *rating.EpisodeID != 10 {
		t.Fatalf("EpisodeID = %v, want 10", rating.EpisodeID)
	}
	if rating.SeriesID != 1 {
		t.Fatalf("SeriesID = %d, want owning series 1", rating.SeriesID)
	}
}

func TestAverageForSeriesEmpty(t *testing.T) {
	svc, _ := newRatingsFixture()

	avg, err := svc.AverageForSeries(context.Background(), 1)
	if err != nil {
		t.Fatalf("average with no ratings: %v", err)
	}
	if avg != 0.0 {
		t.Fatalf("average = %v, want 0.0", avg)
	}
}

func TestAverageForSeriesExcludesEpisodeRatings(t *testing.T) {
	svc, _ := newRatingsFixture()
	ctx := context.Background()

	if _, _, err := svc.RateSeries(ctx, 1, 7, 4); err != nil {
		t.Fatalf("rate series: %v", err)
	}
	if _, _, err := svc.RateEpisode(ctx, 10, 7, 1); err != nil {
		t.Fatalf("rate episode: %v", err)
	}

	avg, err := svc.AverageForSeries(ctx, 1)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg != 4.0 {
		t.Fatalf("series average = %v, want 4.0 (episode rating must not roll up)", avg)
	}

	epAvg, err := svc.AverageForEpisode(ctx, 10)
	if err != nil {
		t.Fatalf("episode average: %v", err)
	}
	if epAvg != 1.0 {
		t.Fatalf("episode average = %v, want 1.0", epAvg)
	}
}

func TestAverageUnknownTargets(t *testing.T) {
	svc, _ := newRatingsFixture()

	if _, err := svc.AverageForSeries(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown series average error = %v, want ErrNotFound", err)
	}
	if _, err := svc.AverageForEpisode(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown episode average error = %v, want ErrNotFound", err)
	}
}
