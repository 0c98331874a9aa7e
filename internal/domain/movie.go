package domain

import "time"

// Movie is the domain model for catalog entries.
type Movie struct {
	ID          int64
	Title       string
	Genre       string
	ReleaseYear int
	Synopsis    string
	ViewCount   int64
	Active      bool
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
