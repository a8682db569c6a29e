package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serietrack/serietrack/internal/domain"
)

// EpisodesRepository provides persistence helpers for episode entities.
type EpisodesRepository struct {
	pool *pgxpool.Pool
}

// EpisodeCreateParams bundles the fields required to create an episode.
type EpisodeCreateParams struct {
	SeriesID int64
	Title    string
	Number   int
}

// Create inserts a new episode row and returns the stored entity.
func (r *EpisodesRepository) Create(ctx context.Context, params EpisodeCreateParams) (domain.Episode, error) {
	const query = `
        INSERT INTO episodes (series_id, title, episode_number)
        VALUES ($1,$2,$3)
        RETURNING id, series_id, title, episode_number
    `
	return scanEpisode(r.pool.QueryRow(ctx, query, params.SeriesID, params.Title, params.Number))
}

// GetByID fetches an episode by its identifier.
func (r *EpisodesRepository) GetByID(ctx context.Context, id int64) (domain.Episode, error) {
	const query = `SELECT id, series_id, title, episode_number FROM episodes WHERE id = $1`
	ep, err := scanEpisode(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Episode{}, ErrNotFound
		}
		return domain.Episode{}, err
	}
	return ep, nil
}

// ListBySeries returns the episodes of a series ordered by episode number.
func (r *EpisodesRepository) ListBySeries(ctx context.Context, seriesID int64) ([]domain.Episode, error) {
	const query = `
        SELECT id, series_id, title, episode_number
        FROM episodes
        WHERE series_id = $1
        ORDER BY episode_number ASC, id ASC
    `
	rows, err := r.pool.Query(ctx, query, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.Episode, 0)
	for rows.Next() {
		ep, err := scanEpisode(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanEpisode(row pgx.Row) (domain.Episode, error) {
	var ep domain.Episode
	if err := row.Scan(&ep.ID, &ep.SeriesID, &ep.Title, &ep.Number); err != nil {
		return domain.Episode{}, err
	}
	return ep, nil
}
