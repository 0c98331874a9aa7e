package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/streamflix/catalog-service/internal/config"
	"github.com/streamflix/catalog-service/internal/domain"
	"github.com/streamflix/catalog-service/internal/persistence"
	"github.com/streamflix/catalog-service/internal/repository"
)

const (
	cacheKeyOverview = "dashboard:overview"
	cacheKeyPopular  = "dashboard:popular"
)

// Overview is the public statistics block.
type Overview struct {
	ActiveMovies int64     `json:"active_movies"`
	ActiveUsers  int64     `json:"active_users"`
	TotalRatings int64     `json:"total_ratings"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// DashboardService serves read-heavy aggregates, cached in Redis and
// invalidated by the dashboard worker when ratings or movies change.
type DashboardService struct {
	movies  repository.MovieRepository
	ratings repository.RatingRepository
	users   repository.UserRepository
	cache   *persistence.Redis
	cfg     config.DashboardConfig
	logger  *zap.Logger
}

// NewDashboardService builds the service.
func NewDashboardService(movies repository.MovieRepository, ratings repository.RatingRepository, users repository.UserRepository, cache *persistence.Redis, cfg config.DashboardConfig, logger *zap.Logger) *DashboardService {
	return &DashboardService{movies: movies, ratings: ratings, users: users, cache: cache, cfg: cfg, logger: logger}
}

// Overview returns the public aggregate block, preferring the cache.
func (s *DashboardService) Overview(ctx context.Context) (*Overview, error) {
	var cached Overview
	if s.cacheGet(ctx, cacheKeyOverview, &cached) {
		return &cached, nil
	}

	activeMovies, err := s.movies.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	activeUsers, err := s.users.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalRatings, err := s.ratings.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	overview := &Overview{
		ActiveMovies: activeMovies,
		ActiveUsers:  activeUsers,
		TotalRatings: totalRatings,
		GeneratedAt:  time.Now(),
	}
	s.cacheSet(ctx, cacheKeyOverview, overview)
	return overview, nil
}

// PopularMovies returns the ranking of most rated movies, preferring the cache.
func (s *DashboardService) PopularMovies(ctx context.Context) ([]domain.MovieRanking, error) {
	var cached []domain.MovieRanking
	if s.cacheGet(ctx, cacheKeyPopular, &cached) {
		return cached, nil
	}

	rankings, err := s.movies.RankByPopularity(ctx, s.cfg.PopularLimit)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, cacheKeyPopular, rankings)
	return rankings, nil
}

// Invalidate drops the cached aggregates so the next read recomputes them.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	if err := s.cache.Client.Del(ctx, cacheKeyOverview, cacheKeyPopular).Err(); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func (s *DashboardService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil || s.cache.Client == nil {
		return false
	}
	raw, err := s.cache.Client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.logger.Warn("dashboard cache entry corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *DashboardService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || s.cache.Client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Client.Set(ctx, key, raw, s.cfg.CacheTTL()).Err(); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
