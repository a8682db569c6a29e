package service

import (
	"context"

	"github.com/serietrack/serietrack/internal/domain"
	"github.com/serietrack/serietrack/internal/repository"
)

// In-memory store fakes so engine tests run without a database. Repository
// behaviour under real Postgres is covered by the repository package tests.

type fakeCatalog struct {
	series []domain.Series
}

func (f *fakeCatalog) GetByID(_ context.Context, id int64) (domain.Series, error) {
	for _, s := range f.series {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Series{}, repository.ErrNotFound
}

func (f *fakeCatalog) ListAll(_ context.Context) ([]domain.Series, error) {
	return f.series, nil
}

type fakeEpisodes struct {
	episodes []domain.Episode
}

func (f *fakeEpisodes) GetByID(_ context.Context, id int64) (domain.Episode, error) {
	for _, ep := range f.episodes {
		if ep.ID == id {
			return ep, nil
		}
	}
	return domain.Episode{}, repository.ErrNotFound
}

type fakePersons struct {
	persons []domain.Person
	history map[int64][]domain.Series
}

func (f *fakePersons) GetByID(_ context.Context, id int64) (domain.Person, error) {
	for _, p := range f.persons {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Person{}, repository.ErrNotFound
}

func (f *fakePersons) HistorySeries(_ context.Context, personID int64) ([]domain.Series, error) {
	return f.history[personID], nil
}

type fakeRatings struct {
	ratings []domain.Rating
	nextID  int64
}

func (f *fakeRatings) UpsertSeriesRating(_ context.Context, personID, seriesID int64, score int) (domain.Rating, bool, error) {
	for i, r := range f.ratings {
		if r.PersonID == personID && r.SeriesID == seriesID && r.EpisodeID == nil {
			f.ratings[i].Score = score
			return f.ratings[i], false, nil
		}
	}
	f.nextID++
	rating := domain.Rating{ID: f.nextID, PersonID: personID, SeriesID: seriesID, Score: score}
	f.ratings = append(f.ratings, rating)
	return rating, true, nil
}

func (f *fakeRatings) UpsertEpisodeRating(_ context.Context, personID int64, episode domain.Episode, score int) (domain.Rating, bool, error) {
	for i, r := range f.ratings {
		if r.PersonID == personID && r.EpisodeID != nil && *r.EpisodeID == episode.ID {
			f.ratings[i].Score = score
			return f.ratings[i], false, nil
		}
	}
	f.nextID++
	episodeID := episode.ID
	rating := domain.Rating{ID: f.nextID, PersonID: personID, SeriesID: episode.SeriesID, EpisodeID: &episodeID, Score: score}
	f.ratings = append(f.ratings, rating)
	return rating, true, nil
}

func (f *fakeRatings) AverageForSeries(_ context.Context, seriesID int64) (float64, error) {
	sum, count := 0, 0
	for _, r := range f.ratings {
		if r.SeriesID == seriesID && r.EpisodeID == nil {
			sum += r.Score
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

func (f *fakeRatings) AverageForEpisode(_ context.Context, episodeID int64) (float64, error) {
	sum, count := 0, 0
	for _, r := range f.ratings {
		if r.EpisodeID != nil && *r.EpisodeID == episodeID {
			sum += r.Score
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	return float64(sum) / float64(count), nil
}

func (f *fakeRatings) ListAll(_ context.Context) ([]domain.Rating, error) {
	return f.ratings, nil
}

type fakeViews struct {
	views []domain.ViewRecord
}

func (f *fakeViews) ListAll(_ context.Context) ([]domain.ViewRecord, error) {
	return f.views, nil
}
