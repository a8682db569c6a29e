package domain

// Episode is a numbered sub-unit of a series.
type Episode struct {
	ID       int64
	SeriesID int64
	Title    string
	Number   int
}
