package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamflix/catalog-service/internal/domain"
)

// RatingRepository defines persistence access for movie ratings.
type RatingRepository interface {
	Create(ctx context.Context, rating *domain.Rating) error
	ListByMovie(ctx context.Context, movieID int64) ([]domain.Rating, error)
	AverageForMovie(ctx context.Context, movieID int64) (float64, int64, error)
	CountAll(ctx context.Context) (int64, error)
}

type ratingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository returns a Postgres-backed implementation.
func NewRatingRepository(pool *pgxpool.Pool) RatingRepository {
	return &ratingRepository{pool: pool}
}

func (r *ratingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	const query = `
        INSERT INTO avaliacoes (movie_id, user_id, score, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		rating.MovieID,
		rating.UserID,
		rating.Score,
		rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)
}

func (r *ratingRepository) ListByMovie(ctx context.Context, movieID int64) ([]domain.Rating, error) {
	const query = `
        SELECT id, movie_id, user_id, score, comment, created_at
        FROM avaliacoes WHERE movie_id=$1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, movieID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var rating domain.Rating
		if err := rows.Scan(
			&rating.ID,
			&rating.MovieID,
			&rating.UserID,
			&rating.Score,
			&rating.Comment,
			&rating.CreatedAt,
		); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *ratingRepository) AverageForMovie(ctx context.Context, movieID int64) (float64, int64, error) {
	const query = `SELECT COALESCE(AVG(score), 0), COUNT(*) FROM avaliacoes WHERE movie_id=$1`

	var avg float64
	var count int64
	if err := r.pool.QueryRow(ctx, query, movieID).Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}

func (r *ratingRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM avaliacoes`).Scan(&count)
	return count, err
}
