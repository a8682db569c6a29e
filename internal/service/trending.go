package service

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/serietrack/serietrack/internal/domain"
)

// SeriesLister returns the full series catalog in system (id) order.
type SeriesLister interface {
	ListAll(ctx context.Context) ([]domain.Series, error)
}

// RatingLister returns every stored rating.
type RatingLister interface {
	ListAll(ctx context.Context) ([]domain.Rating, error)
}

// ViewLister returns every stored view record.
type ViewLister interface {
	ListAll(ctx context.Context) ([]domain.ViewRecord, error)
}

// TrendingConfig carries the tuning knobs of the trending engine. The weights
// and window are injected at construction so the engine stays pure and
// testable with varied parameters.
type TrendingConfig struct {
	WindowDays   int
	ViewWeight   float64
	RatingWeight float64
	TopLimit     int
}

// TrendingService ranks all series by a windowed popularity score:
//
//	score = recentViews*ViewWeight + avgRating*RatingWeight
//
// Everything is recomputed from a full scan on each call; there is no
// incremental state or cache.
type TrendingService struct {
	cfg     TrendingConfig
	series  SeriesLister
	ratings RatingLister
	views   ViewLister
	now     func() time.Time
}

// NewTrendingService wires the trending engine to its stores.
func NewTrendingService(cfg TrendingConfig, series SeriesLister, ratings RatingLister, views ViewLister) *TrendingService {
	return &TrendingService{
		cfg:     cfg,
		series:  series,
		ratings: ratings,
		views:   views,
		now:     time.Now,
	}
}

// Trending returns up to TopLimit entries ordered by composite score
// descending. Every series gets an entry, zero-activity ones score 0.0.
// Equal scores order by series id ascending.
func (s *TrendingService) Trending(ctx context.Context) ([]domain.TrendingEntry, error) {
	allSeries, err := s.series.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	allRatings, err := s.ratings.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	allViews, err := s.views.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	// A view counts iff its date is set and not strictly before the cutoff,
	// so the boundary day itself is inside the window.
	cutoff := dateOnly(s.now()).AddDate(0, 0, -s.cfg.WindowDays)
	viewsBySeries := make(map[int64]int64)
	for _, v := range allViews {
		if v.WatchedOn.IsZero() || dateOnly(v.WatchedOn).Before(cutoff) {
			continue
		}
		viewsBySeries[v.SeriesID]++
	}

	// Averages consider ratings targeting the series itself; episode-level
	// ratings stay scoped to their episode.
	sumBySeries := make(map[int64]int)
	countBySeries := make(map[int64]int)
	for _, r := range allRatings {
		if !r.TargetsSeries() {
			continue
		}
		sumBySeries[r.SeriesID] += r.Score
		countBySeries[r.SeriesID]++
	}

	entries := make([]domain.TrendingEntry, 0, len(allSeries))
	for _, sr := range allSeries {
		var avg float64
		if count := countBySeries[sr.ID]; count > 0 {
			avg = round2(float64(sumBySeries[sr.ID]) / float64(count))
		}
		views := viewsBySeries[sr.ID]
		score := round2(float64(views)*s.cfg.ViewWeight + avg*s.cfg.RatingWeight)
		entries = append(entries, domain.TrendingEntry{
			SeriesID:    sr.ID,
			Title:       sr.Title,
			RecentViews: views,
			AvgRating:   avg,
			Score:       score,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].SeriesID < entries[j].SeriesID
	})

	if len(entries) > s.cfg.TopLimit {
		entries = entries[:s.cfg.TopLimit]
	}
	return entries, nil
}

// round2 rounds half-up at the second decimal.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// dateOnly truncates a timestamp to its calendar day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
