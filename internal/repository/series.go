package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serietrack/serietrack/internal/domain"
)

// SeriesRepository provides persistence helpers for series entities.
type SeriesRepository struct {
	pool *pgxpool.Pool
}

const seriesColumns = `
    id,
    title,
    genre,
    episode_count,
    note,
    created_at,
    updated_at
`

// SeriesCreateParams bundles the fields required to create a series.
type SeriesCreateParams struct {
	Title        string
	Genre        string
	EpisodeCount int
	Note         float64
}

// SeriesSearchFilters narrows ListAll by genre and/or episode count.
type SeriesSearchFilters struct {
	Genre        *string
	EpisodeCount *int
}

// Create inserts a new series row and returns the stored entity.
func (r *SeriesRepository) Create(ctx context.Context, params SeriesCreateParams) (domain.Series, error) {
	query := fmt.Sprintf(`
        INSERT INTO series (title, genre, episode_count, note)
        VALUES ($1,$2,$3,$4)
        RETURNING %s
    `, seriesColumns)

	row := r.pool.QueryRow(ctx, query, params.Title, params.Genre, params.EpisodeCount, params.Note)
	return scanSeries(row)
}

// GetByID fetches a series by its identifier.
func (r *SeriesRepository) GetByID(ctx context.Context, id int64) (domain.Series, error) {
	query := fmt.Sprintf(`SELECT %s FROM series WHERE id = $1`, seriesColumns)
	series, err := scanSeries(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Series{}, ErrNotFound
		}
		return domain.Series{}, err
	}
	return series, nil
}

// Update overwrites the mutable fields of a series.
func (r *SeriesRepository) Update(ctx context.Context, id int64, params SeriesCreateParams) (domain.Series, error) {
	query := fmt.Sprintf(`
        UPDATE series
        SET title = $2, genre = $3, episode_count = $4, note = $5, updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, seriesColumns)

	series, err := scanSeries(r.pool.QueryRow(ctx, query, id, params.Title, params.Genre, params.EpisodeCount, params.Note))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Series{}, ErrNotFound
		}
		return domain.Series{}, err
	}
	return series, nil
}

// Delete removes a series row.
func (r *SeriesRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM series WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every series ordered by id ascending. This ordering is the
// "system order" the recommendation engine walks when collecting candidates.
func (r *SeriesRepository) ListAll(ctx context.Context) ([]domain.Series, error) {
	query := fmt.Sprintf(`SELECT %s FROM series ORDER BY id ASC`, seriesColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeries(rows)
}

// Search returns series matching the provided filters, ordered by id ascending.
func (r *SeriesRepository) Search(ctx context.Context, filters SeriesSearchFilters) ([]domain.Series, error) {
	where := make([]string, 0, 2)
	args := make([]interface{}, 0, 2)
	if filters.Genre != nil && strings.TrimSpace(*filters.Genre) != "" {
		args = append(args, strings.TrimSpace(*filters.Genre))
		where = append(where, fmt.Sprintf("genre ILIKE $%d", len(args)))
	}
	if filters.EpisodeCount != nil {
		args = append(args, *filters.EpisodeCount)
		where = append(where, fmt.Sprintf("episode_count = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM series`, seriesColumns)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeries(rows)
}

func scanSeries(row pgx.Row) (domain.Series, error) {
	var s domain.Series
	err := row.Scan(
		&s.ID,
		&s.Title,
		&s.Genre,
		&s.EpisodeCount,
		&s.Note,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return domain.Series{}, err
	}
	return s, nil
}

func collectSeries(rows pgx.Rows) ([]domain.Series, error) {
	items := make([]domain.Series, 0)
	for rows.Next() {
		s, err := scanSeries(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
