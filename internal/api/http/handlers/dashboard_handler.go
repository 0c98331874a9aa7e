package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/streamflix/catalog-service/internal/api/dto"
	"github.com/streamflix/catalog-service/internal/observability"
	"github.com/streamflix/catalog-service/internal/service"
)

// DashboardHandler exposes aggregate views, public and admin.
type DashboardHandler struct {
	dashboard *service.DashboardService
	metrics   *observability.Metrics
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(dashboard *service.DashboardService, metrics *observability.Metrics) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, metrics: metrics}
}

// Public handles GET /api/dashboard/publico.
func (h *DashboardHandler) Public(c *fiber.Ctx) error {
	overview, err := h.dashboard.Overview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": overview})
}

// PopularMovies handles GET /api/dashboard/filmes/populares.
func (h *DashboardHandler) PopularMovies(c *fiber.Ctx) error {
	rankings, err := h.dashboard.PopularMovies(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRankingResponse(rankings)})
}

// Stats handles GET /api/dashboard/estatisticas.
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	overview, err := h.dashboard.Overview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"filmes":     overview.ActiveMovies,
		"usuarios":   overview.ActiveUsers,
		"avaliacoes": overview.TotalRatings,
	}})
}

// Admin handles GET /api/dashboard/admin.
func (h *DashboardHandler) Admin(c *fiber.Ctx) error {
	overview, err := h.dashboard.Overview(c.Context())
	if err != nil {
		return err
	}

	requests, errCounts := h.metrics.Snapshot()
	return c.JSON(fiber.Map{"data": fiber.Map{
		"overview": overview,
		"requests": requests,
		"errors":   errCounts,
	}})
}
