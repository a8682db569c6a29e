package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serietrack/serietrack/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Series   *SeriesRepository
	Episodes *EpisodesRepository
	Persons  *PersonsRepository
	Ratings  *RatingsRepository
	Views    *ViewsRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// prefixColumns qualifies a comma-separated column list with a table alias.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Series:   &SeriesRepository{pool: pool},
		Episodes: &EpisodesRepository{pool: pool},
		Persons:  &PersonsRepository{pool: pool},
		Ratings:  &RatingsRepository{pool: pool},
		Views:    &ViewsRepository{pool: pool},
	}
}
