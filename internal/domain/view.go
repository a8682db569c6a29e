package domain

import "time"

// ViewRecord is a dated record that a person watched a series. Progress is a
// free-form marker (episode reached or percentage watched).
type ViewRecord struct {
	ID        int64
	PersonID  int64
	SeriesID  int64
	WatchedOn time.Time
	Progress  int
}
