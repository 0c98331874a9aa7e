package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/streamflix/catalog-service/internal/api/http/handlers"
	"github.com/streamflix/catalog-service/internal/auth"
	"github.com/streamflix/catalog-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Movies    *handlers.MoviesHandler
	Ratings   *handlers.RatingsHandler
	Users     *handlers.UsersHandler
	Dashboard *handlers.DashboardHandler
	Gate      *auth.Gate
	Policy    *auth.Policy
}

// SecurityRules is the ordered authorization table. First match wins, so the
// specific admin rules precede the broad catalog rules, and anything not
// listed requires authentication.
func SecurityRules() []auth.Rule {
	userOrAdmin := []domain.Profile{domain.ProfileUser, domain.ProfileAdmin}

	return []auth.Rule{
		auth.Public("*", "/auth/**"),
		auth.Public("*", "/health/**"),
		auth.Public("*", "/docs/**"),
		auth.Public("*", "/"),

		auth.Profiles("*", "/api/filmes/admin/**", domain.ProfileAdmin),
		auth.Profiles("*", "/api/usuarios/admin/**", domain.ProfileAdmin),
		auth.Profiles("*", "/api/dashboard/admin", domain.ProfileAdmin),

		auth.Profiles("GET", "/api/filmes/ativos/**", userOrAdmin...),
		auth.Profiles("GET", "/api/filmes/*/detalhes", userOrAdmin...),
		auth.Profiles("GET", "/api/filmes/ranking/**", userOrAdmin...),
		auth.Profiles("GET", "/api/filmes/buscar", userOrAdmin...),
		auth.Profiles("*", "/api/avaliacoes/**", userOrAdmin...),

		auth.Public("GET", "/api/dashboard/publico"),
		auth.Public("GET", "/api/dashboard/filmes/populares"),
		auth.Public("GET", "/api/dashboard/estatisticas"),

		auth.Profiles("POST", "/api/filmes", domain.ProfileAdmin),
		auth.Profiles("PUT", "/api/filmes/**", domain.ProfileAdmin),
		auth.Profiles("DELETE", "/api/filmes/**", domain.ProfileAdmin),
		auth.Profiles("PATCH", "/api/filmes/**", domain.ProfileAdmin),
	}
}

// RegisterRoutes wires HTTP routes behind the gate and policy middlewares.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)
	app.Use(cfg.Policy.Handle)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"service": "catalog-service"})
	})

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/validate", cfg.Auth.Validate)
	authGroup.Post("/refresh", cfg.Auth.Refresh)

	movies := app.Group("/api/filmes")
	movies.Get("/ativos", cfg.Movies.ListActive)
	movies.Get("/ranking/popularidade", cfg.Movies.Ranking)
	movies.Get("/buscar", cfg.Movies.Search)
	movies.Get("/admin/todos", cfg.Movies.ListAll)
	movies.Get("/:id/detalhes", cfg.Movies.Details)
	movies.Post("/", cfg.Movies.Create)
	movies.Put("/:id", cfg.Movies.Update)
	movies.Delete("/:id", cfg.Movies.Deactivate)
	movies.Patch("/:id/ativar", cfg.Movies.Activate)

	ratings := app.Group("/api/avaliacoes")
	ratings.Post("/", cfg.Ratings.Create)
	ratings.Get("/filme/:id", cfg.Ratings.ListByMovie)

	users := app.Group("/api/usuarios")
	users.Get("/perfil", cfg.Users.Profile)
	users.Put("/perfil", cfg.Users.UpdateProfile)
	users.Delete("/perfil", cfg.Users.Deactivate)
	users.Get("/admin/todos", cfg.Users.ListAll)

	dashboard := app.Group("/api/dashboard")
	dashboard.Get("/publico", cfg.Dashboard.Public)
	dashboard.Get("/filmes/populares", cfg.Dashboard.PopularMovies)
	dashboard.Get("/estatisticas", cfg.Dashboard.Stats)
	dashboard.Get("/admin", cfg.Dashboard.Admin)
}
