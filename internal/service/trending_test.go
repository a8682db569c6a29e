package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/serietrack/serietrack/internal/domain"
)

var trendingToday = time.Date(2026, time.August, 31, 15, 30, 0, 0, time.UTC)

func newTrendingFixture(series []domain.Series, ratings []domain.Rating, views []domain.ViewRecord) *TrendingService {
	svc := NewTrendingService(
		TrendingConfig{WindowDays: 7, ViewWeight: 1.0, RatingWeight: 10.0, TopLimit: 10},
		&fakeCatalog{series: series},
		&fakeRatings{ratings: ratings},
		&fakeViews{views: views},
	)
	svc.now = func() time.Time { return trendingToday }
	return svc
}

func daysAgo(n int) time.Time {
	return trendingToday.AddDate(0, 0, -n)
}

func TestTrendingWeighting(t *testing.T) {
	series := []domain.Series{
		{ID: 1, Title: "A"},
		{ID: 2, Title: "B"},
	}
	ratings := []domain.Rating{
		{ID: 1, PersonID: 1, SeriesID: 1, Score: 4},
		{ID: 2, PersonID: 1, SeriesID: 2, Score: 5},
	}
	views := make([]domain.ViewRecord, 0, 5)
	for i := 0; i < 5; i++ {
		views = append(views, domain.ViewRecord{ID: int64(i + 1), PersonID: 1, SeriesID: 1, WatchedOn: daysAgo(1)})
	}

	entries, err := newTrendingFixture(series, ratings, views).Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	// B: 0*1.0 + 5.0*10.0 = 50.0 outranks A: 5*1.0 + 4.0*10.0 = 45.0.
	if entries[0].SeriesID != 2 || entries[0].Score != 50.0 {
		t.Fatalf("first entry = %+v, want series 2 with score 50.0", entries[0])
	}
	if entries[1].SeriesID != 1 || entries[1].Score != 45.0 {
		t.Fatalf("second entry = %+v, want series 1 with score 45.0", entries[1])
	}
	if entries[1].RecentViews != 5 || entries[1].AvgRating != 4.0 {
		t.Fatalf("series 1 views/avg = %d/%v, want 5/4.0", entries[1].RecentViews, entries[1].AvgRating)
	}
}

func TestTrendingWindowBoundary(t *testing.T) {
	series := []domain.Series{{ID: 1, Title: "A"}}
	views := []domain.ViewRecord{
		{ID: 1, SeriesID: 1, WatchedOn: daysAgo(8)}, // before cutoff, dropped
		{ID: 2, SeriesID: 1, WatchedOn: daysAgo(7)}, // cutoff day counts
		{ID: 3, SeriesID: 1, WatchedOn: daysAgo(6)},
		{ID: 4, SeriesID: 1},                        // zero date, dropped
	}

	entries, err := newTrendingFixture(series, nil, views).Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if entries[0].RecentViews != 2 {
		t.Fatalf("RecentViews = %d, want 2 (cutoff day included, older dropped)", entries[0].RecentViews)
	}
}

func TestTrendingZeroActivitySeriesListed(t *testing.T) {
	series := []domain.Series{{ID: 1, Title: "Quiet"}}

	entries, err := newTrendingFixture(series, nil, nil).Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0].Score != 0.0 || entries[0].AvgRating != 0.0 || entries[0].RecentViews != 0 {
		t.Fatalf("zero-activity entry = %+v, want all zeros", entries[0])
	}
}

func TestTrendingCapAndOrder(t *testing.T) {
	series := make([]domain.Series, 0, 15)
	views := make([]domain.ViewRecord, 0)
	var viewID int64
	for i := 1; i <= 15; i++ {
		series = append(series, domain.Series{ID: int64(i), Title: fmt.Sprintf("S%d", i)})
		for v := 0; v < i; v++ {
			viewID++
			views = append(views, domain.ViewRecord{ID: viewID, SeriesID: int64(i), WatchedOn: daysAgo(2)})
		}
	}

	entries, err := newTrendingFixture(series, nil, views).Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if len(entries) != 10 {
		t.Fatalf("entries = %d, want capped at 10", len(entries))
	}
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Score < entries[i].Score {
			t.Fatalf("entries not in descending score order: %v before %v", entries[i-1].Score, entries[i].Score)
		}
	}
	if entries[0].SeriesID != 15 {
		t.Fatalf("top series = %d, want 15", entries[0].SeriesID)
	}
}

func TestTrendingTieBreakBySeriesID(t *testing.T) {
	series := []domain.Series{
		{ID: 4, Title: "D"},
		{ID: 2, Title: "B"},
		{ID: 9, Title: "I"},
	}

	entries, err := newTrendingFixture(series, nil, nil).Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	want := []int64{2, 4, 9}
	for i, id := range want {
		if entries[i].SeriesID != id {
			t.Fatalf("tie order[%d] = %d, want %d", i, entries[i].SeriesID, id)
		}
	}
}

func TestTrendingExcludesEpisodeRatings(t *testing.T) {
	episodeID := int64(10)
	series := []domain.Series{{ID: 1, Title: "A"}}
	ratings := []domain.Rating{
		{ID: 1, PersonID: 1, SeriesID: 1, Score: 4},
		{ID: 2, PersonID: 2, SeriesID: 1, EpisodeID: &episodeID, Score: 1},
	}

	entries, err := newTrendingFixture(series, ratings, nil).Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	if entries[0].AvgRating != 4.0 {
		t.Fatalf("AvgRating = %v, want 4.0 (episode rating excluded)", entries[0].AvgRating)
	}
}

func TestTrendingRoundsToTwoDecimals(t *testing.T) {
	series := []domain.Series{{ID: 1, Title: "A"}}
	ratings := []domain.Rating{
		{ID: 1, PersonID: 1, SeriesID: 1, Score: 1},
		{ID: 2, PersonID: 2, SeriesID: 1, Score: 2},
		{ID: 3, PersonID: 3, SeriesID: 1, Score: 4},
	}

	entries, err := newTrendingFixture(series, ratings, nil).Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending: %v", err)
	}
	// 7/3 = 2.333... -> 2.33; score = 2.33*10 = 23.3
	if entries[0].AvgRating != 2.33 {
		t.Fatalf("AvgRating = %v, want 2.33", entries[0].AvgRating)
	}
	if entries[0].Score != 23.3 {
		t.Fatalf("Score = %v, want 23.3", entries[0].Score)
	}
}

func TestTrendingEmptyCatalog(t *testing.T) {
	entries, err := newTrendingFixture(nil, nil, nil).Trending(context.Background())
	if err != nil {
		t.Fatalf("Trending on empty data: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %d, want 0", len(entries))
	}
}

func BenchmarkTrending(b *testing.B) {
	series := make([]domain.Series, 0, 200)
	ratings := make([]domain.Rating, 0, 2000)
	views := make([]domain.ViewRecord, 0, 5000)
	var id int64
	for i := 1; i <= 200; i++ {
		series = append(series, domain.Series{ID: int64(i), Title: fmt.Sprintf("S%d", i)})
		for j := 0; j < 10; j++ {
			id++
			ratings = append(ratings, domain.Rating{ID: id, PersonID: int64(j + 1), SeriesID: int64(i), Score: j%5 + 1})
		}
		for j := 0; j < 25; j++ {
			id++
			views = append(views, domain.ViewRecord{ID: id, SeriesID: int64(i), WatchedOn: daysAgo(j % 14)})
		}
	}
	svc := newTrendingFixture(series, ratings, views)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := svc.Trending(context.Background()); err != nil {
			b.Fatalf("Trending: %v", err)
		}
	}
}
