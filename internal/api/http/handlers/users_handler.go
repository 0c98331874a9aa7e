package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/streamflix/catalog-service/internal/api/dto"
	"github.com/streamflix/catalog-service/internal/auth"
	"github.com/streamflix/catalog-service/internal/service"
)

// UsersHandler exposes account self-management and admin listings.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// Profile handles GET /api/usuarios/perfil.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	user, err := h.users.Profile(c.Context(), identity.Subject)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateProfile handles PUT /api/usuarios/perfil.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.ProfileUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.users.UpdateProfile(c.Context(), identity.Subject, req.Email, req.Senha)
	if err != nil {
		var regErr *service.RegistrationError
		if errors.As(err, &regErr) {
			return fiber.NewError(http.StatusBadRequest, regErr.Reason)
		}
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Deactivate handles DELETE /api/usuarios/perfil.
func (h *UsersHandler) Deactivate(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	if err := h.users.DeactivateAccount(c.Context(), identity.Subject); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": "account deactivated"})
}

// ListAll handles GET /api/usuarios/admin/todos.
func (h *UsersHandler) ListAll(c *fiber.Ctx) error {
	users, err := h.users.ListAll(c.Context())
	if err != nil {
		return err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}
