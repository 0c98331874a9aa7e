package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamflix/catalog-service/internal/domain"
)

// MovieRepository defines persistence access for catalog entries.
type MovieRepository interface {
	Create(ctx context.Context, movie *domain.Movie) error
	Update(ctx context.Context, movie *domain.Movie) error
	GetByID(ctx context.Context, id int64) (*domain.Movie, error)
	ListActive(ctx context.Context) ([]domain.Movie, error)
	ListAll(ctx context.Context) ([]domain.Movie, error)
	Search(ctx context.Context, title, genre string) ([]domain.Movie, error)
	SetActive(ctx context.Context, id int64, active bool) error
	IncrementViewCount(ctx context.Context, id int64) error
	RankByPopularity(ctx context.Context, limit int) ([]domain.MovieRanking, error)
	CountActive(ctx context.Context) (int64, error)
}

type movieRepository struct {
	pool *pgxpool.Pool
}

// NewMovieRepository returns a Postgres-backed implementation.
func NewMovieRepository(pool *pgxpool.Pool) MovieRepository {
	return &movieRepository{pool: pool}
}

const movieColumns = `id, title, genre, release_year, synopsis, view_count, active, created_by, created_at, updated_at`

func (r *movieRepository) Create(ctx context.Context, movie *domain.Movie) error {
	const query = `
        INSERT INTO filmes (title, genre, release_year, synopsis, active, created_by)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, view_count, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		movie.Title,
		movie.Genre,
		movie.ReleaseYear,
		movie.Synopsis,
		movie.Active,
		movie.CreatedBy,
	).Scan(&movie.ID, &movie.ViewCount, &movie.CreatedAt, &movie.UpdatedAt)
}

func (r *movieRepository) Update(ctx context.Context, movie *domain.Movie) error {
	const query = `
        UPDATE filmes SET title=$1, genre=$2, release_year=$3, synopsis=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		movie.Title,
		movie.Genre,
		movie.ReleaseYear,
		movie.Synopsis,
		movie.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *movieRepository) GetByID(ctx context.Context, id int64) (*domain.Movie, error) {
	const query = `SELECT ` + movieColumns + ` FROM filmes WHERE id=$1`

	var movie domain.Movie
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.ReleaseYear,
		&movie.Synopsis,
		&movie.ViewCount,
		&movie.Active,
		&movie.CreatedBy,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &movie, nil
}

func (r *movieRepository) ListActive(ctx context.Context) ([]domain.Movie, error) {
	const query = `SELECT ` + movieColumns + ` FROM filmes WHERE active=TRUE ORDER BY title`
	return r.list(ctx, query)
}

func (r *movieRepository) ListAll(ctx context.Context) ([]domain.Movie, error) {
	const query = `SELECT ` + movieColumns + ` FROM filmes ORDER BY id`
	return r.list(ctx, query)
}

func (r *movieRepository) Search(ctx context.Context, title, genre string) ([]domain.Movie, error) {
	const query = `
        SELECT ` + movieColumns + ` FROM filmes
        WHERE active=TRUE
          AND ($1 = '' OR title ILIKE '%' || $1 || '%')
          AND ($2 = '' OR genre ILIKE $2)
        ORDER BY title`

	rows, err := r.pool.Query(ctx, query, title, genre)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovies(rows)
}

func (r *movieRepository) SetActive(ctx context.Context, id int64, active bool) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE filmes SET active=$1, updated_at=NOW() WHERE id=$2`, active, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *movieRepository) IncrementViewCount(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `UPDATE filmes SET view_count=view_count+1 WHERE id=$1`, id)
	return err
}

func (r *movieRepository) RankByPopularity(ctx context.Context, limit int) ([]domain.MovieRanking, error) {
	const query = `
        SELECT f.id, f.title, COALESCE(AVG(a.score), 0), COUNT(a.id)
        FROM filmes f
        LEFT JOIN avaliacoes a ON a.movie_id = f.id
        WHERE f.active=TRUE
        GROUP BY f.id, f.title
        ORDER BY COUNT(a.id) DESC, f.view_count DESC
        LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rankings []domain.MovieRanking
	for rows.Next() {
		var rank domain.MovieRanking
		if err := rows.Scan(&rank.MovieID, &rank.Title, &rank.AverageScore, &rank.RatingCount); err != nil {
			return nil, err
		}
		rankings = append(rankings, rank)
	}
	return rankings, rows.Err()
}

func (r *movieRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM filmes WHERE active=TRUE`).Scan(&count)
	return count, err
}

func (r *movieRepository) list(ctx context.Context, query string) ([]domain.Movie, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMovies(rows)
}

func scanMovies(rows pgx.Rows) ([]domain.Movie, error) {
	var movies []domain.Movie
	for rows.Next() {
		var movie domain.Movie
		if err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Genre,
			&movie.ReleaseYear,
			&movie.Synopsis,
			&movie.ViewCount,
			&movie.Active,
			&movie.CreatedBy,
			&movie.CreatedAt,
			&movie.UpdatedAt,
		); err != nil {
			return nil, err
		}
		movies = append(movies, movie)
	}
	return movies, rows.Err()
}
