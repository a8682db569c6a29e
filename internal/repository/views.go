package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serietrack/serietrack/internal/domain"
)

// ViewsRepository provides persistence helpers for view-history records.
// Records are append-only; nothing in the service updates or deletes them.
type ViewsRepository struct {
	pool *pgxpool.Pool
}

// Create appends a view record and returns the stored entity.
func (r *ViewsRepository) Create(ctx context.Context, record domain.ViewRecord) (domain.ViewRecord, error) {
	const query = `
        INSERT INTO view_history (person_id, series_id, watched_on, progress)
        VALUES ($1,$2,$3,$4)
        RETURNING id, person_id, series_id, watched_on, progress
    `
	row := r.pool.QueryRow(ctx, query, record.PersonID, record.SeriesID, record.WatchedOn, record.Progress)
	return scanView(row)
}

// ListAll returns every view record ordered by id ascending.
func (r *ViewsRepository) ListAll(ctx context.Context) ([]domain.ViewRecord, error) {
	const query = `
        SELECT id, person_id, series_id, watched_on, progress
        FROM view_history
        ORDER BY id ASC
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.ViewRecord, 0)
	for rows.Next() {
		record, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanView(row pgx.Row) (domain.ViewRecord, error) {
	var record domain.ViewRecord
	err := row.Scan(
		&record.ID,
		&record.PersonID,
		&record.SeriesID,
		&record.WatchedOn,
		&record.Progress,
	)
	if err != nil {
		return domain.ViewRecord{}, err
	}
	return record, nil
}
