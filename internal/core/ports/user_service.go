package ports

import (
	"context"

	"github.com/userauth/rbac-api/internal/core/domain"
)

// UserService holds the admin-only user management operations.
type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	Update(ctx context.Context, id uint, fields domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id uint) error
}
