package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/streamflix/catalog-service/internal/api/dto"
	"github.com/streamflix/catalog-service/internal/auth"
	"github.com/streamflix/catalog-service/internal/domain"
	"github.com/streamflix/catalog-service/internal/service"
)

// MoviesHandler exposes the catalog routes.
type MoviesHandler struct {
	catalog *service.CatalogService
}

// NewMoviesHandler constructs handler.
func NewMoviesHandler(catalog *service.CatalogService) *MoviesHandler {
	return &MoviesHandler{catalog: catalog}
}

// ListActive handles GET /api/filmes/ativos.
func (h *MoviesHandler) ListActive(c *fiber.Ctx) error {
	movies, err := h.catalog.ListActiveMovies(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMovieListResponse(movies)})
}

// Details handles GET /api/filmes/:id/detalhes.
func (h *MoviesHandler) Details(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	details, err := h.catalog.GetMovieDetails(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMovieDetailsResponse(details)})
}

// Ranking handles GET /api/filmes/ranking/popularidade.
func (h *MoviesHandler) Ranking(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	rankings, err := h.catalog.RankByPopularity(c.Context(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRankingResponse(rankings)})
}

// Search handles GET /api/filmes/buscar.
func (h *MoviesHandler) Search(c *fiber.Ctx) error {
	movies, err := h.catalog.Search(c.Context(), c.Query("titulo"), c.Query("genero"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMovieListResponse(movies)})
}

// ListAll handles GET /api/filmes/admin/todos.
func (h *MoviesHandler) ListAll(c *fiber.Ctx) error {
	movies, err := h.catalog.ListAllMovies(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMovieListResponse(movies)})
}

// Create handles POST /api/filmes.
func (h *MoviesHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.MovieCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	movie := &domain.Movie{
		Title:       req.Title,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
		Synopsis:    req.Synopsis,
	}
	if err := h.catalog.CreateMovie(c.Context(), identity.Subject, movie); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewMovieResponse(*movie)})
}

// Update handles PUT /api/filmes/:id.
func (h *MoviesHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req dto.MovieUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	movie := &domain.Movie{
		ID:          id,
		Title:       req.Title,
		Genre:       req.Genre,
		ReleaseYear: req.ReleaseYear,
		Synopsis:    req.Synopsis,
	}
	if err := h.catalog.UpdateMovie(c.Context(), movie); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMovieResponse(*movie)})
}

// Deactivate handles DELETE /api/filmes/:id.
func (h *MoviesHandler) Deactivate(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.DeactivateMovie(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": "movie deactivated"})
}

// Activate handles PATCH /api/filmes/:id/ativar.
func (h *MoviesHandler) Activate(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.catalog.ActivateMovie(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": "movie activated"})
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
