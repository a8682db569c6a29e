package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serietrack/serietrack/internal/domain"
)

// PersonsRepository provides persistence helpers for person entities and the
// person -> watched-series history relation.
type PersonsRepository struct {
	pool *pgxpool.Pool
}

const personColumns = `
    id,
    name,
    email,
    gender,
    age,
    password_hash,
    created_at,
    updated_at
`

// PersonCreateParams bundles the fields required to create a person.
type PersonCreateParams struct {
	Name         string
	Email        string
	Gender       string
	Age          int
	PasswordHash string
}

// PersonUpdateParams carries the mutable profile fields.
type PersonUpdateParams struct {
	Name   string
	Email  string
	Gender string
	Age    int
}

// Create inserts a new person row and returns the stored entity.
func (r *PersonsRepository) Create(ctx context.Context, params PersonCreateParams) (domain.Person, error) {
	query := fmt.Sprintf(`
        INSERT INTO persons (name, email, gender, age, password_hash)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING %s
    `, personColumns)

	row := r.pool.QueryRow(ctx, query, params.Name, params.Email, params.Gender, params.Age, params.PasswordHash)
	return scanPerson(row)
}

// GetByID fetches a person by its identifier.
func (r *PersonsRepository) GetByID(ctx context.Context, id int64) (domain.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM persons WHERE id = $1`, personColumns)
	person, err := scanPerson(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Person{}, ErrNotFound
		}
		return domain.Person{}, err
	}
	return person, nil
}

// GetByEmail fetches a person by email, used by the auth handlers.
func (r *PersonsRepository) GetByEmail(ctx context.Context, email string) (domain.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM persons WHERE email = $1`, personColumns)
	person, err := scanPerson(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Person{}, ErrNotFound
		}
		return domain.Person{}, err
	}
	return person, nil
}

// Update overwrites the profile fields of a person.
func (r *PersonsRepository) Update(ctx context.Context, id int64, params PersonUpdateParams) (domain.Person, error) {
	query := fmt.Sprintf(`
        UPDATE persons
        SET name = $2, email = $3, gender = $4, age = $5, updated_at = now()
        WHERE id = $1
        RETURNING %s
    `, personColumns)

	person, err := scanPerson(r.pool.QueryRow(ctx, query, id, params.Name, params.Email, params.Gender, params.Age))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Person{}, ErrNotFound
		}
		return domain.Person{}, err
	}
	return person, nil
}

// Delete removes a person row.
func (r *PersonsRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM persons WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll returns every person ordered by id ascending.
func (r *PersonsRepository) ListAll(ctx context.Context) ([]domain.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM persons ORDER BY id ASC`, personColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPersons(rows)
}

// SearchByName returns persons whose name contains the fragment, case-insensitive.
func (r *PersonsRepository) SearchByName(ctx context.Context, name string) ([]domain.Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM persons WHERE name ILIKE $1 ORDER BY id ASC`, personColumns)
	rows, err := r.pool.Query(ctx, query, "%"+name+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPersons(rows)
}

// HistorySeries returns the series a person has watched, ordered by series id.
func (r *PersonsRepository) HistorySeries(ctx context.Context, personID int64) ([]domain.Series, error) {
	query := fmt.Sprintf(`
        SELECT %s
        FROM series s
        JOIN person_history ph ON ph.series_id = s.id
        WHERE ph.person_id = $1
        ORDER BY s.id ASC
    `, prefixColumns("s", seriesColumns))

	rows, err := r.pool.Query(ctx, query, personID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSeries(rows)
}

// AddHistory records that a person watched a series. Re-adding an existing
// entry is a no-op, keeping the history an order-irrelevant set.
func (r *PersonsRepository) AddHistory(ctx context.Context, personID, seriesID int64) error {
	const query = `
        INSERT INTO person_history (person_id, series_id)
        VALUES ($1,$2)
        ON CONFLICT (person_id, series_id) DO NOTHING
    `
	_, err := r.pool.Exec(ctx, query, personID, seriesID)
	return err
}

func scanPerson(row pgx.Row) (domain.Person, error) {
	var p domain.Person
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.Gender,
		&p.Age,
		&p.PasswordHash,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return domain.Person{}, err
	}
	return p, nil
}

func collectPersons(rows pgx.Rows) ([]domain.Person, error) {
	items := make([]domain.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
