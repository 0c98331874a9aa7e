package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/streamflix/catalog-service/internal/api/http/handlers"
	"github.com/streamflix/catalog-service/internal/auth"
	"github.com/streamflix/catalog-service/internal/config"
	"github.com/streamflix/catalog-service/internal/domain"
	"github.com/streamflix/catalog-service/internal/observability"
	"github.com/streamflix/catalog-service/internal/service"
)

const routerTestSecret = "router-test-secret"

type memUsers struct {
	byLogin map[string]*domain.User
	nextID  int64
}

func newMemUsers(users ...*domain.User) *memUsers {
	repo := &memUsers{byLogin: map[string]*domain.User{}, nextID: 1}
	for _, user := range users {
		user.ID = repo.nextID
		repo.nextID++
		repo.byLogin[user.Username] = user
		repo.byLogin[user.Email] = user
	}
	return repo
}

func (r *memUsers) Create(_ context.Context, user *domain.User) error {
	user.ID = r.nextID
	r.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	r.byLogin[user.Username] = user
	r.byLogin[user.Email] = user
	return nil
}

func (r *memUsers) Update(_ context.Context, user *domain.User) error {
	r.byLogin[user.Username] = user
	r.byLogin[user.Email] = user
	return nil
}

func (r *memUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	for _, user := range r.byLogin {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *memUsers) GetByLoginActive(_ context.Context, login string) (*domain.User, error) {
	if user, ok := r.byLogin[login]; ok && user.Active {
		return user, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memUsers) ExistsByUsername(_ context.Context, username string) (bool, error) {
	_, ok := r.byLogin[username]
	return ok, nil
}

func (r *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, ok := r.byLogin[email]
	return ok, nil
}

func (r *memUsers) ListAll(_ context.Context) ([]domain.User, error) {
	seen := map[int64]bool{}
	var users []domain.User
	for _, user := range r.byLogin {
		if !seen[user.ID] {
			seen[user.ID] = true
			users = append(users, *user)
		}
	}
	return users, nil
}

func (r *memUsers) CountActive(_ context.Context) (int64, error) {
	seen := map[int64]bool{}
	var count int64
	for _, user := range r.byLogin {
		if user.Active && !seen[user.ID] {
			seen[user.ID] = true
			count++
		}
	}
	return count, nil
}

type memMovies struct {
	byID   map[int64]*domain.Movie
	nextID int64
}

func newMemMovies(movies ...*domain.Movie) *memMovies {
	repo := &memMovies{byID: map[int64]*domain.Movie{}, nextID: 1}
	for _, movie := range movies {
		movie.ID = repo.nextID
		repo.nextID++
		repo.byID[movie.ID] = movie
	}
	return repo
}

func (r *memMovies) Create(_ context.Context, movie *domain.Movie) error {
	movie.ID = r.nextID
	r.nextID++
	movie.CreatedAt = time.Now()
	movie.UpdatedAt = movie.CreatedAt
	r.byID[movie.ID] = movie
	return nil
}

func (r *memMovies) Update(_ context.Context, movie *domain.Movie) error {
	existing, ok := r.byID[movie.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	existing.Title = movie.Title
	existing.Genre = movie.Genre
	existing.ReleaseYear = movie.ReleaseYear
	existing.Synopsis = movie.Synopsis
	existing.UpdatedAt = time.Now()
	return nil
}

func (r *memMovies) GetByID(_ context.Context, id int64) (*domain.Movie, error) {
	if movie, ok := r.byID[id]; ok {
		return movie, nil
	}
	return nil, pgx.ErrNoRows
}

func (r *memMovies) ListActive(_ context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie
	for _, movie := range r.byID {
		if movie.Active {
			movies = append(movies, *movie)
		}
	}
	return movies, nil
}

func (r *memMovies) ListAll(_ context.Context) ([]domain.Movie, error) {
	var movies []domain.Movie
	for _, movie := range r.byID {
		movies = append(movies, *movie)
	}
	return movies, nil
}

func (r *memMovies) Search(_ context.Context, _, _ string) ([]domain.Movie, error) {
	return nil, nil
}

func (r *memMovies) SetActive(_ context.Context, id int64, active bool) error {
	movie, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	movie.Active = active
	return nil
}

func (r *memMovies) IncrementViewCount(_ context.Context, id int64) error {
	if movie, ok := r.byID[id]; ok {
		movie.ViewCount++
	}
	return nil
}

func (r *memMovies) RankByPopularity(_ context.Context, _ int) ([]domain.MovieRanking, error) {
	return nil, nil
}

func (r *memMovies) CountActive(_ context.Context) (int64, error) {
	var count int64
	for _, movie := range r.byID {
		if movie.Active {
			count++
		}
	}
	return count, nil
}

type memRatings struct {
	ratings []domain.Rating
}

func (r *memRatings) Create(_ context.Context, rating *domain.Rating) error {
	rating.ID = int64(len(r.ratings) + 1)
	rating.CreatedAt = time.Now()
	r.ratings = append(r.ratings, *rating)
	return nil
}

func (r *memRatings) ListByMovie(_ context.Context, movieID int64) ([]domain.Rating, error) {
	var out []domain.Rating
	for _, rating := range r.ratings {
		if rating.MovieID == movieID {
			out = append(out, rating)
		}
	}
	return out, nil
}

func (r *memRatings) AverageForMovie(_ context.Context, movieID int64) (float64, int64, error) {
	var sum, count int64
	for _, rating := range r.ratings {
		if rating.MovieID == movieID {
			sum += int64(rating.Score)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

func (r *memRatings) CountAll(_ context.Context) (int64, error) {
	return int64(len(r.ratings)), nil
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	assert.NoError(t, err)
	return hash
}

// newTestServer wires the full HTTP stack against in-memory repositories,
// seeded with a regular user "alice" and an admin "root".
func newTestServer(t *testing.T, ttlSeconds int) (*fiber.App, *service.AuthService) {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	users := newMemUsers(
		&domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: mustHash(t, "secret1"), Profile: domain.ProfileUser, Active: true},
		&domain.User{Username: "root", Email: "root@example.com", PasswordHash: mustHash(t, "admin1"), Profile: domain.ProfileAdmin, Active: true},
	)
	movies := newMemMovies(
		&domain.Movie{Title: "Matrix", Genre: "Sci-Fi", ReleaseYear: 1999, Active: true},
	)
	ratings := &memRatings{}

	authCfg := config.AuthConfig{
		JWTSecret:            routerTestSecret,
		TokenTTLSeconds:      ttlSeconds,
		RenewalWindowMinutes: 30,
		BcryptCost:           bcrypt.MinCost,
	}

	authSvc := service.NewAuthService(authCfg, users, nil, logger)
	catalogSvc := service.NewCatalogService(movies, ratings, users, nil)
	userSvc := service.NewUserService(users, bcrypt.MinCost)
	dashboardSvc := service.NewDashboardService(movies, ratings, users, nil, config.DashboardConfig{PopularLimit: 10}, logger)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:    handlers.NewHealthHandler("catalog-service", "test", nil, nil),
		Auth:      handlers.NewAuthHandler(authSvc),
		Movies:    handlers.NewMoviesHandler(catalogSvc),
		Ratings:   handlers.NewRatingsHandler(catalogSvc),
		Users:     handlers.NewUsersHandler(userSvc),
		Dashboard: handlers.NewDashboardHandler(dashboardSvc, metrics),
		Gate:      auth.NewGate(authSvc.TokenManager(), users, logger),
		Policy:    auth.NewPolicy(SecurityRules()...),
	})
	return app, authSvc
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)

	out := map[string]interface{}{}
	assert.NoError(t, json.Unmarshal(raw, &out))
	return out
}

func loginToken(t *testing.T, app *fiber.App, login, senha string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"login": login, "senha": senha})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func TestLoginFlow(t *testing.T) {
	app, authSvc := newTestServer(t, 86400)

	t.Run("valid credentials return a role-bearing token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"login": "alice", "senha": "secret1"})
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Bearer", body["tipo"])
		assert.EqualValues(t, 86400, body["expiresIn"])

		usuario, _ := body["usuario"].(map[string]interface{})
		assert.Equal(t, "alice", usuario["nomeUsuario"])
		assert.Equal(t, "USUARIO", usuario["perfil"])

		profile, err := authSvc.TokenManager().ExtractProfile(body["token"].(string))
		assert.NoError(t, err)
		assert.Equal(t, domain.ProfileUser, profile)
	})

	t.Run("wrong password and unknown login yield the same body", func(t *testing.T) {
		wrongPass := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"login": "alice", "senha": "nope"})
		unknown := doJSON(t, app, http.MethodPost, "/auth/login", "", fiber.Map{"login": "ghost", "senha": "secret1"})

		assert.Equal(t, http.StatusUnauthorized, wrongPass.StatusCode)
		assert.Equal(t, http.StatusUnauthorized, unknown.StatusCode)

		bodyWrong := decodeBody(t, wrongPass)
		bodyUnknown := decodeBody(t, unknown)
		assert.Equal(t, "INVALID_CREDENTIALS", bodyWrong["code"])
		assert.Equal(t, bodyWrong["code"], bodyUnknown["code"])
		assert.Equal(t, bodyWrong["message"], bodyUnknown["message"])
	})
}

func TestRegisterFlow(t *testing.T) {
	app, _ := newTestServer(t, 86400)

	t.Run("new account gets a token and USUARIO profile", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
			"nomeUsuario": "bob", "email": "bob@example.com", "senha": "hunter2",
		})
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.NotEmpty(t, body["token"])
		usuario, _ := body["usuario"].(map[string]interface{})
		assert.Equal(t, "USUARIO", usuario["perfil"])
	})

	t.Run("duplicate username is a 400 with a reason", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/auth/register", "", fiber.Map{
			"nomeUsuario": "alice", "email": "other@example.com", "senha": "hunter2",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "REGISTRATION_ERROR", body["code"])
	})
}

func TestAuthorizationTable(t *testing.T) {
	app, _ := newTestServer(t, 86400)
	userToken := loginToken(t, app, "alice", "secret1")
	adminToken := loginToken(t, app, "root", "admin1")

	t.Run("protected route without identity is 401", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/filmes/ativos", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("user token reads the catalog", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/filmes/ativos", userToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("admin route with user token is 403", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/filmes/admin/todos", userToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		body := decodeBody(t, resp)
		errBlock, _ := body["error"].(map[string]interface{})
		assert.Equal(t, "FORBIDDEN", errBlock["code"])
	})

	t.Run("admin route with admin token is 200", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/filmes/admin/todos", adminToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("garbage bearer token is an anonymous 401, never a 500", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/filmes/ativos", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("expired token is an anonymous 401", func(t *testing.T) {
		expiredTM := auth.NewTokenManager(routerTestSecret, -time.Second, 30*time.Minute)
		expired, _, err := expiredTM.Issue("alice", domain.ProfileUser)
		assert.NoError(t, err)

		resp := doJSON(t, app, http.MethodGet, "/api/filmes/ativos", expired, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("public dashboard needs no token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/dashboard/publico", "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("admin dashboard needs the admin profile", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/dashboard/admin", userToken, nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		resp = doJSON(t, app, http.MethodGet, "/api/dashboard/admin", adminToken, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestValidateEndpoint(t *testing.T) {
	app, _ := newTestServer(t, 86400)
	token := loginToken(t, app, "alice", "secret1")

	t.Run("valid token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/auth/validate", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, true, body["success"])
	})

	t.Run("missing token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/auth/validate", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "INVALID_TOKEN", body["code"])
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/auth/validate", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRefreshEndpoint(t *testing.T) {
	t.Run("far from expiry is refused", func(t *testing.T) {
		app, _ := newTestServer(t, 86400)
		token := loginToken(t, app, "alice", "secret1")

		resp := doJSON(t, app, http.MethodPost, "/auth/refresh", token, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "REFRESH_NOT_NEEDED", body["code"])
	})

	t.Run("inside the renewal window mints a fresh token", func(t *testing.T) {
		app, authSvc := newTestServer(t, 600)
		token := loginToken(t, app, "alice", "secret1")

		resp := doJSON(t, app, http.MethodPost, "/auth/refresh", token, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		renewed, _ := body["token"].(string)
		assert.NotEmpty(t, renewed)
		assert.NotEqual(t, token, renewed)
		assert.True(t, authSvc.TokenManager().IsValid(renewed, "alice"))
	})

	t.Run("expired token forces a fresh login", func(t *testing.T) {
		app, _ := newTestServer(t, 86400)

		expiredTM := auth.NewTokenManager(routerTestSecret, -time.Second, 30*time.Minute)
		expired, _, err := expiredTM.Issue("alice", domain.ProfileUser)
		assert.NoError(t, err)

		resp := doJSON(t, app, http.MethodPost, "/auth/refresh", expired, nil)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "REFRESH_NOT_NEEDED", body["code"])
	})
}
