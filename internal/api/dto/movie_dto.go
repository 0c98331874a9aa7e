package dto

import (
	"time"

	"github.com/streamflix/catalog-service/internal/domain"
	"github.com/streamflix/catalog-service/internal/service"
)

// MovieCreateRequest payload for admin movie creation.
type MovieCreateRequest struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	ReleaseYear int    `json:"releaseYear"`
	Synopsis    string `json:"synopsis"`
}

// MovieUpdateRequest payload for admin movie edits.
type MovieUpdateRequest struct {
	Title       string `json:"title"`
	Genre       string `json:"genre"`
	ReleaseYear int    `json:"releaseYear"`
	Synopsis    string `json:"synopsis"`
}

// MovieResponse is the wire shape for a movie.
type MovieResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Genre       string    `json:"genre"`
	ReleaseYear int       `json:"releaseYear"`
	Synopsis    string    `json:"synopsis"`
	ViewCount   int64     `json:"viewCount"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// MovieDetailsResponse adds rating aggregates to the movie shape.
type MovieDetailsResponse struct {
	MovieResponse
	AverageScore float64 `json:"averageScore"`
	RatingCount  int64   `json:"ratingCount"`
}

// RatingCreateRequest payload for rating a movie.
type RatingCreateRequest struct {
	MovieID int64  `json:"movieId"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// RatingResponse is the wire shape for a rating.
type RatingResponse struct {
	ID        int64     `json:"id"`
	MovieID   int64     `json:"movieId"`
	UserID    int64     `json:"userId"`
	Score     int       `json:"score"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// RankingResponse is one entry of the popularity ranking.
type RankingResponse struct {
	MovieID      int64   `json:"movieId"`
	Title        string  `json:"title"`
	AverageScore float64 `json:"averageScore"`
	RatingCount  int64   `json:"ratingCount"`
}

// NewMovieResponse maps a domain movie onto the wire shape.
func NewMovieResponse(movie domain.Movie) MovieResponse {
	return MovieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		Genre:       movie.Genre,
		ReleaseYear: movie.ReleaseYear,
		Synopsis:    movie.Synopsis,
		ViewCount:   movie.ViewCount,
		Active:      movie.Active,
		CreatedAt:   movie.CreatedAt,
	}
}

// NewMovieListResponse maps a slice of movies.
func NewMovieListResponse(movies []domain.Movie) []MovieResponse {
	out := make([]MovieResponse, 0, len(movies))
	for _, movie := range movies {
		out = append(out, NewMovieResponse(movie))
	}
	return out
}

// NewMovieDetailsResponse maps details with aggregates.
func NewMovieDetailsResponse(details *service.MovieDetails) MovieDetailsResponse {
	return MovieDetailsResponse{
		MovieResponse: NewMovieResponse(details.Movie),
		AverageScore:  details.AverageScore,
		RatingCount:   details.RatingCount,
	}
}

// NewRatingResponse maps a domain rating onto the wire shape.
func NewRatingResponse(rating domain.Rating) RatingResponse {
	return RatingResponse{
		ID:        rating.ID,
		MovieID:   rating.MovieID,
		UserID:    rating.UserID,
		Score:     rating.Score,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
	}
}

// NewRankingResponse maps ranking rows.
func NewRankingResponse(rankings []domain.MovieRanking) []RankingResponse {
	out := make([]RankingResponse, 0, len(rankings))
	for _, rank := range rankings {
		out = append(out, RankingResponse{
			MovieID:      rank.MovieID,
			Title:        rank.Title,
			AverageScore: rank.AverageScore,
			RatingCount:  rank.RatingCount,
		})
	}
	return out
}
