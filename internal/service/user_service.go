package service

import (
	"context"
	"fmt"

	"github.com/streamflix/catalog-service/internal/auth"
	"github.com/streamflix/catalog-service/internal/domain"
	"github.com/streamflix/catalog-service/internal/repository"
)

// UserService owns account self-management and admin listings.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// Profile returns the account behind an authenticated subject.
func (s *UserService) Profile(ctx context.Context, subject string) (*domain.User, error) {
	return s.users.GetByLoginActive(ctx, subject)
}

// UpdateProfile changes email and optionally the password of the caller.
func (s *UserService) UpdateProfile(ctx context.Context, subject, email, newPassword string) (*domain.User, error) {
	user, err := s.users.GetByLoginActive(ctx, subject)
	if err != nil {
		return nil, err
	}

	if email != "" && email != user.Email {
		if taken, err := s.users.ExistsByEmail(ctx, email); err != nil {
			return nil, err
		} else if taken {
			return nil, &RegistrationError{Reason: fmt.Sprintf("email already registered: %s", email)}
		}
		user.Email = email
	}

	if newPassword != "" {
		hash, err := auth.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivateAccount disables the caller's account. Tokens for it stop
// authenticating on the next request since the gate only resolves active
// accounts.
func (s *UserService) DeactivateAccount(ctx context.Context, subject string) error {
	user, err := s.users.GetByLoginActive(ctx, subject)
	if err != nil {
		return err
	}
	user.Active = false
	return s.users.Update(ctx, user)
}

// ListAll returns every account, for administrators.
func (s *UserService) ListAll(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAll(ctx)
}
