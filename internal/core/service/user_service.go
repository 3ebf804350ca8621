package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/userauth/rbac-api/internal/core/domain"
	"github.com/userauth/rbac-api/internal/core/ports"
)

// UserService implements the admin user-management operations.
type UserService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
}

func NewUserService(repo ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, log: log}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return s.repo.Get(ctx, id)
}

// Update changes username and/or role. Fields left nil are kept.
func (s *UserService) Update(ctx context.Context, id uint, fields domain.UserUpdate) (*domain.User, error) {
	if fields.Username != nil && *fields.Username == "" {
		return nil, domain.ErrInvalidUsername
	}
	if fields.Role != nil && !domain.IsValidRole(*fields.Role) {
		return nil, domain.ErrInvalidRole
	}

	updated, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.log.Info().Uint("user_id", id).Str("username", updated.Username).Str("role", updated.Role).Msg("user updated")
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Uint("user_id", id).Msg("user deleted")
	return nil
}

// EnsureAdmin creates an admin account when username is free. When the user
// already exists it is promoted to admin only if promote is set. It reports
// whether a new account was created.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string, promote bool) (bool, error) {
	if username == "" || password == "" {
		return false, domain.ErrValidation
	}

	existing, err := s.repo.FindByUsername(ctx, username)
	switch {
	case err == nil:
		if promote && existing.Role != domain.RoleAdmin {
			role := domain.RoleAdmin
			if _, err := s.repo.Update(ctx, existing.ID, domain.UserUpdate{Role: &role}); err != nil {
				return false, err
			}
			s.log.Info().Str("username", username).Msg("user promoted to admin")
		}
		return false, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, err
	}
	if _, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}); err != nil {
		return false, err
	}
	s.log.Info().Str("username", username).Msg("admin account created")
	return true, nil
}
