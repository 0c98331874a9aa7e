package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/streamflix/catalog-service/internal/auth"
	"github.com/streamflix/catalog-service/internal/config"
	"github.com/streamflix/catalog-service/internal/domain"
	"github.com/streamflix/catalog-service/internal/events"
	"github.com/streamflix/catalog-service/internal/repository"
)

// ErrInvalidCredentials covers both unknown login and wrong password. One
// error for both cases so responses cannot enumerate accounts.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrRenewalNotNeeded signals the presented token is not inside the renewal
// window (or is already expired, which forces a fresh login).
var ErrRenewalNotNeeded = errors.New("token renewal not needed")

// RegistrationError carries a user-facing reason for a rejected registration,
// such as a uniqueness violation.
type RegistrationError struct {
	Reason string
}

func (e *RegistrationError) Error() string {
	return e.Reason
}

// AuthService coordinates registration, login and token lifecycle flows. It
// is the only component that mints tokens.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	dispatcher events.Dispatcher
	logger     *zap.Logger
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL(), cfg.RenewalWindow()),
		dispatcher: dispatcher,
		logger:     logger,
		bcryptCost: cfg.BcryptCost,
	}
}

// Login authenticates by username-or-email and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, login, password string) (*domain.User, string, error) {
	user, err := s.users.GetByLoginActive(ctx, login)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.tokenMgr.Issue(user.Username, user.Profile)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Register creates an account and issues a token exactly as login does.
// Uniqueness violations surface to the caller with their message.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*domain.User, string, error) {
	if taken, err := s.users.ExistsByUsername(ctx, username); err != nil {
		return nil, "", err
	} else if taken {
		return nil, "", &RegistrationError{Reason: fmt.Sprintf("username already registered: %s", username)}
	}
	if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, "", err
	} else if taken {
		return nil, "", &RegistrationError{Reason: fmt.Sprintf("email already registered: %s", email)}
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Profile:      domain.ProfileUser,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	s.publish(ctx, events.EventUserRegistered, user.Username, events.UserRegisteredPayload{
		UserID:  user.ID,
		Profile: user.Profile,
	})

	token, _, err := s.tokenMgr.Issue(user.Username, user.Profile)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Validate checks that the token decodes, its subject still maps to an active
// account and it is not expired. Pure read, no state changes.
func (s *AuthService) Validate(ctx context.Context, token string) error {
	subject, err := s.tokenMgr.ExtractSubject(token)
	if err != nil {
		return err
	}

	if _, err := s.users.GetByLoginActive(ctx, subject); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.ErrInvalidToken
		}
		return err
	}

	if !s.tokenMgr.IsValid(token, subject) {
		return auth.ErrInvalidToken
	}
	return nil
}

// Refresh mints a new token only when the current one is expiring soon and
// not yet expired. An expired token forces a fresh login.
func (s *AuthService) Refresh(ctx context.Context, token string) (*domain.User, string, error) {
	renewed, err := s.tokenMgr.RenewIfNeeded(token)
	if err != nil {
		return nil, "", err
	}
	if renewed == token {
		return nil, "", ErrRenewalNotNeeded
	}

	subject, err := s.tokenMgr.ExtractSubject(renewed)
	if err != nil {
		return nil, "", err
	}
	user, err := s.users.GetByLoginActive(ctx, subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", auth.ErrInvalidToken
		}
		return nil, "", err
	}
	return user, renewed, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// TokenTTLSeconds returns the configured token lifetime in whole seconds, as
// reported by the auth endpoints.
func (s *AuthService) TokenTTLSeconds() int64 {
	return int64(s.tokenMgr.TTL() / time.Second)
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, subject string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(eventType, subject, payload))
}
