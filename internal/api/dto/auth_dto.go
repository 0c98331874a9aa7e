package dto

import (
	"time"

	"github.com/streamflix/catalog-service/internal/domain"
)

// LoginRequest payload for POST /auth/login.
type LoginRequest struct {
	Login string `json:"login"`
	Senha string `json:"senha"`
}

// RegisterRequest payload for POST /auth/register.
type RegisterRequest struct {
	NomeUsuario string `json:"nomeUsuario"`
	Email       string `json:"email"`
	Senha       string `json:"senha"`
}

// UserResponse is the account block embedded in auth responses.
type UserResponse struct {
	ID          int64  `json:"id"`
	NomeUsuario string `json:"nomeUsuario"`
	Email       string `json:"email"`
	Perfil      string `json:"perfil"`
	Ativo       bool   `json:"ativo"`
}

// AuthResponse is the token envelope returned by login/register/refresh.
type AuthResponse struct {
	Token     string       `json:"token"`
	Tipo      string       `json:"tipo"`
	ExpiresIn int64        `json:"expiresIn"`
	Usuario   UserResponse `json:"usuario"`
}

// AuthError is the error body for auth endpoints.
type AuthError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

// NewAuthError stamps an error body with the current time in epoch millis.
func NewAuthError(code, message string) AuthError {
	return AuthError{Code: code, Message: message, Timestamp: time.Now().UnixMilli()}
}

// NewUserResponse maps a domain user onto the wire shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		NomeUsuario: user.Username,
		Email:       user.Email,
		Perfil:      string(user.Profile),
		Ativo:       user.Active,
	}
}

// NewAuthResponse assembles the token envelope.
func NewAuthResponse(token string, expiresIn int64, user *domain.User) AuthResponse {
	return AuthResponse{
		Token:     token,
		Tipo:      "Bearer",
		ExpiresIn: expiresIn,
		Usuario:   NewUserResponse(user),
	}
}
