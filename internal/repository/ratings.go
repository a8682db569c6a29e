package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serietrack/serietrack/internal/domain"
)

// RatingsRepository provides helpers for series and episode ratings.
//
// Uniqueness of (person, series) and (person, episode) pairs is enforced by
// partial unique indexes, so upserts are atomic ON CONFLICT updates rather
// than read-then-write sequences.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

const ratingColumns = `id, person_id, series_id, episode_id, score, created_at, updated_at`

// UpsertSeriesRating inserts or updates a person's rating for a series and
// indicates whether it was newly created.
func (r *RatingsRepository) UpsertSeriesRating(ctx context.Context, personID, seriesID int64, score int) (domain.Rating, bool, error) {
	const query = `
        INSERT INTO ratings (person_id, series_id, score)
        VALUES ($1,$2,$3)
        ON CONFLICT (person_id, series_id) WHERE episode_id IS NULL
        DO UPDATE SET score = EXCLUDED.score, updated_at = now()
        RETURNING id, person_id, series_id, episode_id, score, created_at, updated_at, (xmax = 0) AS inserted
    `

	var rating domain.Rating
	var inserted bool
	err := r.pool.QueryRow(ctx, query, personID, seriesID, score).Scan(
		&rating.ID,
		&rating.PersonID,
		&rating.SeriesID,
		&rating.EpisodeID,
		&rating.Score,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return domain.Rating{}, false, fmt.Errorf("upsert series rating: %w", err)
	}
	return rating, inserted, nil
}

// UpsertEpisodeRating inserts or updates a person's rating for an episode.
// The owning series id is denormalized onto the row at creation time.
func (r *RatingsRepository) UpsertEpisodeRating(ctx context.Context, personID int64, episode domain.Episode, score int) (domain.Rating, bool, error) {
	const query = `
        INSERT INTO ratings (person_id, series_id, episode_id, score)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (person_id, episode_id) WHERE episode_id IS NOT NULL
        DO UPDATE SET score = EXCLUDED.score, updated_at = now()
        RETURNING id, person_id, series_id, episode_id, score, created_at, updated_at, (xmax = 0) AS inserted
    `

	var rating domain.Rating
	var inserted bool
	err := r.pool.QueryRow(ctx, query, personID, episode.SeriesID, episode.ID, score).Scan(
		&rating.ID,
		&rating.PersonID,
		&rating.SeriesID,
		&rating.EpisodeID,
		&rating.Score,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return domain.Rating{}, false, fmt.Errorf("upsert episode rating: %w", err)
	}
	return rating, inserted, nil
}

// AverageForSeries returns the mean score of ratings that directly target the
// series. Episode-level ratings are excluded. Returns 0 when no ratings exist.
func (r *RatingsRepository) AverageForSeries(ctx context.Context, seriesID int64) (float64, error) {
	const query = `
        SELECT COALESCE(AVG(score), 0)::float8
        FROM ratings
        WHERE series_id = $1 AND episode_id IS NULL
    `
	var avg float64
	if err := r.pool.QueryRow(ctx, query, seriesID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average series ratings: %w", err)
	}
	return avg, nil
}

// AverageForEpisode returns the mean score of ratings targeting the episode,
// 0 when none exist.
func (r *RatingsRepository) AverageForEpisode(ctx context.Context, episodeID int64) (float64, error) {
	const query = `
        SELECT COALESCE(AVG(score), 0)::float8
        FROM ratings
        WHERE episode_id = $1
    `
	var avg float64
	if err := r.pool.QueryRow(ctx, query, episodeID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("average episode ratings: %w", err)
	}
	return avg, nil
}

// ListAll returns every rating ordered by id ascending.
func (r *RatingsRepository) ListAll(ctx context.Context) ([]domain.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings ORDER BY id ASC`, ratingColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRatings(rows)
}

// ListByPerson returns the ratings submitted by one person.
func (r *RatingsRepository) ListByPerson(ctx context.Context, personID int64) ([]domain.Rating, error) {
	query := fmt.Sprintf(`SELECT %s FROM ratings WHERE person_id = $1 ORDER BY id ASC`, ratingColumns)
	rows, err := r.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRatings(rows)
}

func scanRating(row pgx.Row) (domain.Rating, error) {
	var rating domain.Rating
	err := row.Scan(
		&rating.ID,
		&rating.PersonID,
		&rating.SeriesID,
		&rating.EpisodeID,
		&rating.Score,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	)
	if err != nil {
		return domain.Rating{}, err
	}
	return rating, nil
}

func collectRatings(rows pgx.Rows) ([]domain.Rating, error) {
	items := make([]domain.Rating, 0)
	for rows.Next() {
		rating, err := scanRating(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
