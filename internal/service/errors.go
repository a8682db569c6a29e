package service

import (
	"errors"

	"github.com/serietrack/serietrack/internal/repository"
)

// ErrNotFound indicates a referenced person, series, or episode does not exist.
var ErrNotFound = errors.New("service: not found")

// ErrInvalidScore indicates a rating value outside the accepted 1-5 range.
var ErrInvalidScore = errors.New("service: score must be between 1 and 5")

// mapStoreErr converts repository absence into the service's own NotFound.
func mapStoreErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
