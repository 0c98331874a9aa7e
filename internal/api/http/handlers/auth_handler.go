package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/streamflix/catalog-service/internal/api/dto"
	"github.com/streamflix/catalog-service/internal/auth"
	"github.com/streamflix/catalog-service/internal/service"
)

// AuthHandler exposes login, register, validate and refresh. These are the
// only routes that mint or inspect tokens directly.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Login == "" || req.Senha == "" {
		return fiber.NewError(http.StatusBadRequest, "login and senha required")
	}

	user, token, err := h.auth.Login(c.Context(), req.Login, req.Senha)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Same body for unknown login and wrong password.
			return c.Status(http.StatusUnauthorized).
				JSON(dto.NewAuthError("INVALID_CREDENTIALS", "Credenciais inválidas"))
		}
		return err
	}

	return c.JSON(dto.NewAuthResponse(token, h.auth.TokenTTLSeconds(), user))
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.NomeUsuario == "" || req.Email == "" || req.Senha == "" {
		return fiber.NewError(http.StatusBadRequest, "nomeUsuario, email and senha required")
	}

	user, token, err := h.auth.Register(c.Context(), req.NomeUsuario, req.Email, req.Senha)
	if err != nil {
		var regErr *service.RegistrationError
		if errors.As(err, &regErr) {
			return c.Status(http.StatusBadRequest).
				JSON(dto.NewAuthError("REGISTRATION_ERROR", regErr.Reason))
		}
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.NewAuthResponse(token, h.auth.TokenTTLSeconds(), user))
}

// Validate handles POST /auth/validate. Pure read, never mutates state.
func (h *AuthHandler) Validate(c *fiber.Ctx) error {
	token, ok := bearerFromHeader(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Status(http.StatusUnauthorized).
			JSON(dto.NewAuthError("INVALID_TOKEN", "Token inválido ou ausente"))
	}

	if err := h.auth.Validate(c.Context(), token); err != nil {
		if isTokenError(err) {
			return c.Status(http.StatusUnauthorized).
				JSON(dto.NewAuthError("INVALID_TOKEN", "Token inválido ou expirado"))
		}
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Token válido"})
}

// Refresh handles POST /auth/refresh. Only renews a token inside the
// expiring-soon window; an expired token requires a fresh login.
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	token, ok := bearerFromHeader(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Status(http.StatusUnauthorized).
			JSON(dto.NewAuthError("INVALID_TOKEN", "Token inválido ou ausente"))
	}

	user, renewed, err := h.auth.Refresh(c.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRenewalNotNeeded):
			return c.Status(http.StatusBadRequest).
				JSON(dto.NewAuthError("REFRESH_NOT_NEEDED", "Token ainda válido, renovação não necessária"))
		case isTokenError(err):
			return c.Status(http.StatusUnauthorized).
				JSON(dto.NewAuthError("REFRESH_ERROR", "Erro ao renovar token"))
		default:
			return err
		}
	}

	return c.JSON(dto.NewAuthResponse(renewed, h.auth.TokenTTLSeconds(), user))
}

func isTokenError(err error) bool {
	return errors.Is(err, auth.ErrMalformed) ||
		errors.Is(err, auth.ErrInvalidSignature) ||
		errors.Is(err, auth.ErrInvalidToken)
}

func bearerFromHeader(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
