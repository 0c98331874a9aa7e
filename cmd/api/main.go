package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/streamflix/catalog-service/internal/api/http"
	"github.com/streamflix/catalog-service/internal/api/http/handlers"
	"github.com/streamflix/catalog-service/internal/auth"
	"github.com/streamflix/catalog-service/internal/config"
	"github.com/streamflix/catalog-service/internal/events"
	"github.com/streamflix/catalog-service/internal/observability"
	"github.com/streamflix/catalog-service/internal/persistence"
	"github.com/streamflix/catalog-service/internal/repository"
	"github.com/streamflix/catalog-service/internal/service"
	"github.com/streamflix/catalog-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	movieRepo := repository.NewMovieRepository(pool)
	ratingRepo := repository.NewRatingRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(cfg.Auth, userRepo, dispatcher, logger)
	userService := service.NewUserService(userRepo, cfg.Auth.BcryptCost)
	catalogService := service.NewCatalogService(movieRepo, ratingRepo, userRepo, dispatcher)
	dashboardService := service.NewDashboardService(movieRepo, ratingRepo, userRepo, redis, cfg.Dashboard, logger)

	worker.StartDashboardWorker(dispatcher, dashboardService, logger)

	gate := auth.NewGate(authService.TokenManager(), userRepo, logger)
	policy := auth.NewPolicy(httptransport.SecurityRules()...)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:      handlers.NewAuthHandler(authService),
		Movies:    handlers.NewMoviesHandler(catalogService),
		Ratings:   handlers.NewRatingsHandler(catalogService),
		Users:     handlers.NewUsersHandler(userService),
		Dashboard: handlers.NewDashboardHandler(dashboardService, metrics),
		Gate:      gate,
		Policy:    policy,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
