// Command seed loads sample catalog data into the database: persons and
// series from CSV files, plus generated episodes, ratings, and view history
// so the trending and recommendation endpoints return something useful on a
// fresh install.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/serietrack/serietrack/internal/auth"
	"github.com/serietrack/serietrack/internal/config"
	"github.com/serietrack/serietrack/internal/domain"
	"github.com/serietrack/serietrack/internal/repository"
	"github.com/serietrack/serietrack/internal/store"
)

func main() {
	dataDir := flag.String("data", "db/seed", "directory containing persons.csv and series.csv")
	flag.Parse()

	logger := logrus.New()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("config error")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	st, err := store.New(ctx, cfg.DBURL, store.Options{MaxConns: 4, Logger: logger})
	if err != nil {
		logger.WithError(err).Fatal("connect database")
	}
	defer st.Close()

	repo := repository.New(st)
	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTExpiry, cfg.BcryptCost)

	persons, err := seedPersons(ctx, repo, tokens, filepath.Join(*dataDir, "persons.csv"))
	if err != nil {
		logger.WithError(err).Fatal("seed persons")
	}
	series, err := seedSeries(ctx, repo, filepath.Join(*dataDir, "series.csv"))
	if err != nil {
		logger.WithError(err).Fatal("seed series")
	}

	if err := seedActivity(ctx, repo, persons, series); err != nil {
		logger.WithError(err).Fatal("seed activity")
	}

	logger.WithFields(logrus.Fields{
		"persons": len(persons),
		"series":  len(series),
	}).Info("seed complete")
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s has no data rows", path)
	}
	return rows[1:], nil
}

// seedPersons loads persons.csv (name,email,gender,age,password).
func seedPersons(ctx context.Context, repo *repository.Repository, tokens *auth.Manager, path string) ([]domain.Person, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	persons := make([]domain.Person, 0, len(rows))
	for i, row := range rows {
		if len(row) != 5 {
			return nil, fmt.Errorf("persons.csv row %d: want 5 columns, got %d", i+2, len(row))
		}
		age, err := strconv.Atoi(row[3])
		if err != nil {
			return nil, fmt.Errorf("persons.csv row %d: bad age %q", i+2, row[3])
		}
		hash, err := tokens.HashPassword(row[4])
		if err != nil {
			return nil, err
		}
		person, err := repo.Persons.Create(ctx, repository.PersonCreateParams{
			Name:         row[0],
			Email:        row[1],
			Gender:       row[2],
			Age:          age,
			PasswordHash: hash,
		})
		if err != nil {
			return nil, fmt.Errorf("create person %q: %w", row[0], err)
		}
		persons = append(persons, person)
	}
	return persons, nil
}

// seedSeries loads series.csv (title,genre,episode_count,note) and creates
// one episode row per counted episode.
func seedSeries(ctx context.Context, repo *repository.Repository, path string) ([]domain.Series, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	series := make([]domain.Series, 0, len(rows))
	for i, row := range rows {
		if len(row) != 4 {
			return nil, fmt.Errorf("series.csv row %d: want 4 columns, got %d", i+2, len(row))
		}
		count, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("series.csv row %d: bad episode_count %q", i+2, row[2])
		}
		note, err := strconv.ParseFloat(row[3], 64)
		if err != nil {
			return nil, fmt.Errorf("series.csv row %d: bad note %q", i+2, row[3])
		}

		s, err := repo.Series.Create(ctx, repository.SeriesCreateParams{
			Title:        row[0],
			Genre:        row[1],
			EpisodeCount: count,
			Note:         note,
		})
		if err != nil {
			return nil, fmt.Errorf("create series %q: %w", row[0], err)
		}

		for n := 1; n <= count; n++ {
			_, err := repo.Episodes.Create(ctx, repository.EpisodeCreateParams{
				SeriesID: s.ID,
				Title:    fmt.Sprintf("%s E%02d", s.Title, n),
				Number:   n,
			})
			if err != nil {
				return nil, fmt.Errorf("create episode %d of %q: %w", n, s.Title, err)
			}
		}
		series = append(series, s)
	}
	return series, nil
}

// seedActivity spreads deterministic ratings, views, and watch history across
// the seeded persons and series so the engines have material to rank.
func seedActivity(ctx context.Context, repo *repository.Repository, persons []domain.Person, series []domain.Series) error {
	if len(persons) == 0 || len(series) == 0 {
		return nil
	}

	today := time.Now().UTC()
	for pi, person := range persons {
		for si, s := range series {
			if (pi+si)%3 == 0 {
				continue
			}
			score := 1 + (pi+si*2)%5
			if _, _, err := repo.Ratings.UpsertSeriesRating(ctx, person.ID, s.ID, score); err != nil {
				return fmt.Errorf("rating for %q: %w", s.Title, err)
			}

			watched := today.AddDate(0, 0, -((pi + si) % 10))
			_, err := repo.Views.Create(ctx, domain.ViewRecord{
				PersonID:  person.ID,
				SeriesID:  s.ID,
				WatchedOn: watched,
				Progress:  100,
			})
			if err != nil {
				return fmt.Errorf("view for %q: %w", s.Title, err)
			}

			if err := repo.Persons.AddHistory(ctx, person.ID, s.ID); err != nil {
				return fmt.Errorf("history for %q: %w", s.Title, err)
			}
		}
	}
	return nil
}
