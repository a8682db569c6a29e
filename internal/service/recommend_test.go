package service

import (
	"context"
	"errors"
	"testing"

	"github.com/serietrack/serietrack/internal/domain"
)

func newRecommendFixture(catalog []domain.Series, history []domain.Series) *RecommendationService {
	persons := &fakePersons{
		persons: []domain.Person{{ID: 7, Name: "Ana"}},
		history: map[int64][]domain.Series{7: history},
	}
	return NewRecommendationService(DefaultRecommendConfig(), persons, &fakeCatalog{series: catalog})
}

func TestRecommendSuggestsUnseenInTopGenre(t *testing.T) {
	seriesX := domain.Series{ID: 1, Title: "X", Genre: "Drama"}
	seriesY := domain.Series{ID: 2, Title: "Y", Genre: "Drama"}
	seriesZ := domain.Series{ID: 3, Title: "Z", Genre: "Comedy"}
	seriesW := domain.Series{ID: 4, Title: "W", Genre: "Drama"}
	catalog := []domain.Series{seriesX, seriesY, seriesZ, seriesW}

	got, err := newRecommendFixture(catalog, []domain.Series{seriesX, seriesY, seriesZ}).Recommend(context.Background(), 7)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	foundW := false
	for _, s := range got {
		if s.ID == seriesW.ID {
			foundW = true
		}
		if s.ID == seriesX.ID || s.ID == seriesY.ID || s.ID == seriesZ.ID {
			t.Fatalf("watched series %q must never be recommended", s.Title)
		}
	}
	if !foundW {
		t.Fatalf("expected unseen drama series W in recommendations, got %+v", got)
	}
}

func TestRecommendEmptyHistory(t *testing.T) {
	catalog := []domain.Series{{ID: 1, Title: "X", Genre: "Drama"}}

	got, err := newRecommendFixture(catalog, nil).Recommend(context.Background(), 7)
	if err != nil {
		t.Fatalf("Recommend with empty history: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("recommendations = %d, want 0 for empty history", len(got))
	}
}

func TestRecommendUnknownPerson(t *testing.T) {
	svc := newRecommendFixture(nil, nil)

	if _, err := svc.Recommend(context.Background(), 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Recommend(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestRecommendPerGenreCap(t *testing.T) {
	watched := domain.Series{ID: 1, Title: "Seen", Genre: "Drama"}
	catalog := []domain.Series{watched}
	for i := int64(2); i <= 7; i++ {
		catalog = append(catalog, domain.Series{ID: i, Genre: "Drama"})
	}

	got, err := newRecommendFixture(catalog, []domain.Series{watched}).Recommend(context.Background(), 7)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("recommendations = %d, want capped at 3 per genre", len(got))
	}
	// Candidates are collected in catalog (id) order.
	for i, wantID := range []int64{2, 3, 4} {
		if got[i].ID != wantID {
			t.Fatalf("recommendation[%d].ID = %d, want %d", i, got[i].ID, wantID)
		}
	}
}

func TestRecommendTopGenreSelection(t *testing.T) {
	// History: 2x Drama, 2x Comedy, 1x Horror, 1x Sci-Fi. Only three genres
	// survive; the Drama/Comedy tie orders lexicographically, so the expected
	// genre order is Comedy, Drama, then Horror (Horror beats Sci-Fi on the
	// one-count tie alphabetically).
	history := []domain.Series{
		{ID: 1, Genre: "Drama"},
		{ID: 2, Genre: "Drama"},
		{ID: 3, Genre: "Comedy"},
		{ID: 4, Genre: "Comedy"},
		{ID: 5, Genre: "Horror"},
		{ID: 6, Genre: "Sci-Fi"},
	}
	catalog := append([]domain.Series{}, history...)
	catalog = append(catalog,
		domain.Series{ID: 10, Genre: "Drama"},
		domain.Series{ID: 11, Genre: "Comedy"},
		domain.Series{ID: 12, Genre: "Horror"},
		domain.Series{ID: 13, Genre: "Sci-Fi"},
	)

	got, err := newRecommendFixture(catalog, history).Recommend(context.Background(), 7)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}

	wantIDs := []int64{11, 10, 12}
	if len(got) != len(wantIDs) {
		t.Fatalf("recommendations = %d entries, want %d (%+v)", len(got), len(wantIDs), got)
	}
	for i, wantID := range wantIDs {
		if got[i].ID != wantID {
			t.Fatalf("recommendation[%d].ID = %d, want %d", i, got[i].ID, wantID)
		}
	}
}

func TestTopGenresDeterministicTieBreak(t *testing.T) {
	counts := map[string]int{"Drama": 2, "Comedy": 2, "Action": 2, "Horror": 1}

	got := topGenres(counts, 3)
	want := []string{"Action", "Comedy", "Drama"}
	if len(got) != len(want) {
		t.Fatalf("topGenres = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topGenres[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
