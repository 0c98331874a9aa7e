package domain

import "time"

// Rating is a user's score for a movie, 1 to 5.
type Rating struct {
	ID        int64
	MovieID   int64
	UserID    int64
	Score     int
	Comment   string
	CreatedAt time.Time
}

// MovieRanking aggregates rating data for dashboard views.
type MovieRanking struct {
	MovieID      int64
	Title        string
	AverageScore float64
	RatingCount  int64
}
