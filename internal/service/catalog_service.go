package service

import (
	"context"

	"github.com/streamflix/catalog-service/internal/domain"
	"github.com/streamflix/catalog-service/internal/events"
	"github.com/streamflix/catalog-service/internal/repository"
	apperrors "github.com/streamflix/catalog-service/pkg/util"
)

// MovieDetails combines a movie with its rating aggregate.
type MovieDetails struct {
	Movie        domain.Movie
	AverageScore float64
	RatingCount  int64
}

// CatalogService owns movie and rating operations.
type CatalogService struct {
	movies     repository.MovieRepository
	ratings    repository.RatingRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// NewCatalogService builds the service.
func NewCatalogService(movies repository.MovieRepository, ratings repository.RatingRepository, users repository.UserRepository, dispatcher events.Dispatcher) *CatalogService {
	return &CatalogService{movies: movies, ratings: ratings, users: users, dispatcher: dispatcher}
}

// ListActiveMovies returns the public catalog.
func (s *CatalogService) ListActiveMovies(ctx context.Context) ([]domain.Movie, error) {
	return s.movies.ListActive(ctx)
}

// GetMovieDetails returns a movie with rating aggregates, counting the view.
func (s *CatalogService) GetMovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	movie, err := s.movies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !movie.Active {
		return nil, apperrors.NewNotFound("movie", nil)
	}

	_ = s.movies.IncrementViewCount(ctx, id)

	avg, count, err := s.ratings.AverageForMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	return &MovieDetails{Movie: *movie, AverageScore: avg, RatingCount: count}, nil
}

// RankByPopularity returns the most rated active movies.
func (s *CatalogService) RankByPopularity(ctx context.Context, limit int) ([]domain.MovieRanking, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.movies.RankByPopularity(ctx, limit)
}

// Search filters active movies by title substring and exact genre.
func (s *CatalogService) Search(ctx context.Context, title, genre string) ([]domain.Movie, error) {
	return s.movies.Search(ctx, title, genre)
}

// ListAllMovies returns every movie including deactivated ones (admin view).
func (s *CatalogService) ListAllMovies(ctx context.Context) ([]domain.Movie, error) {
	return s.movies.ListAll(ctx)
}

// CreateMovie registers a catalog entry owned by the creating admin.
func (s *CatalogService) CreateMovie(ctx context.Context, subject string, movie *domain.Movie) error {
	if movie.Title == "" || movie.Genre == "" {
		return apperrors.NewValidationError("title and genre are required", nil)
	}

	creator, err := s.users.GetByLoginActive(ctx, subject)
	if err != nil {
		return err
	}
	movie.CreatedBy = creator.ID
	movie.Active = true

	if err := s.movies.Create(ctx, movie); err != nil {
		return err
	}
	s.publish(ctx, events.EventMovieCreated, events.MovieChangedPayload{MovieID: movie.ID, Title: movie.Title})
	return nil
}

// UpdateMovie applies admin edits to an existing movie.
func (s *CatalogService) UpdateMovie(ctx context.Context, movie *domain.Movie) error {
	if err := s.movies.Update(ctx, movie); err != nil {
		return err
	}
	s.publish(ctx, events.EventMovieUpdated, events.MovieChangedPayload{MovieID: movie.ID, Title: movie.Title})
	return nil
}

// DeactivateMovie removes a movie from the public catalog without deleting it.
func (s *CatalogService) DeactivateMovie(ctx context.Context, id int64) error {
	if err := s.movies.SetActive(ctx, id, false); err != nil {
		return err
	}
	s.publish(ctx, events.EventMovieUpdated, events.MovieChangedPayload{MovieID: id})
	return nil
}

// ActivateMovie restores a movie to the public catalog.
func (s *CatalogService) ActivateMovie(ctx context.Context, id int64) error {
	if err := s.movies.SetActive(ctx, id, true); err != nil {
		return err
	}
	s.publish(ctx, events.EventMovieUpdated, events.MovieChangedPayload{MovieID: id})
	return nil
}

// CreateRating records a score for an active movie by the authenticated user.
func (s *CatalogService) CreateRating(ctx context.Context, subject string, movieID int64, score int, comment string) (*domain.Rating, error) {
	if score < 1 || score > 5 {
		return nil, apperrors.NewValidationError("score must be between 1 and 5", nil)
	}

	user, err := s.users.GetByLoginActive(ctx, subject)
	if err != nil {
		return nil, err
	}

	movie, err := s.movies.GetByID(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if !movie.Active {
		return nil, apperrors.NewNotFound("movie", nil)
	}

	rating := &domain.Rating{
		MovieID: movieID,
		UserID:  user.ID,
		Score:   score,
		Comment: comment,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventRatingCreated, events.RatingCreatedPayload{MovieID: movieID, Score: score})
	return rating, nil
}

// ListRatings returns the ratings of a movie, newest first.
func (s *CatalogService) ListRatings(ctx context.Context, movieID int64) ([]domain.Rating, error) {
	return s.ratings.ListByMovie(ctx, movieID)
}

func (s *CatalogService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(eventType, "", payload))
}
