package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/streamflix/catalog-service/internal/api/dto"
	"github.com/streamflix/catalog-service/internal/auth"
	"github.com/streamflix/catalog-service/internal/service"
)

// RatingsHandler exposes rating routes.
type RatingsHandler struct {
	catalog *service.CatalogService
}

// NewRatingsHandler constructs handler.
func NewRatingsHandler(catalog *service.CatalogService) *RatingsHandler {
	return &RatingsHandler{catalog: catalog}
}

// Create handles POST /api/avaliacoes.
func (h *RatingsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.RatingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.MovieID <= 0 {
		return fiber.NewError(http.StatusBadRequest, "movieId required")
	}

	rating, err := h.catalog.CreateRating(c.Context(), identity.Subject, req.MovieID, req.Score, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewRatingResponse(*rating)})
}

// ListByMovie handles GET /api/avaliacoes/filme/:id.
func (h *RatingsHandler) ListByMovie(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ratings, err := h.catalog.ListRatings(c.Context(), id)
	if err != nil {
		return err
	}

	out := make([]dto.RatingResponse, 0, len(ratings))
	for _, rating := range ratings {
		out = append(out, dto.NewRatingResponse(rating))
	}
	return c.JSON(fiber.Map{"data": out})
}
