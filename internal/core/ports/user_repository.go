package ports

import (
	"context"

	"github.com/userauth/rbac-api/internal/core/domain"
)

// UserRepository is the credential store. Implementations return
// domain.ErrUserNotFound for missing records and domain.ErrUserExists when a
// write would break username uniqueness.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Get(ctx context.Context, id uint) (*domain.User, error)
	Update(ctx context.Context, id uint, fields domain.UserUpdate) (*domain.User, error)
	Delete(ctx context.Context, id uint) error
	// List returns every user ordered by ascending id.
	List(ctx context.Context) ([]*domain.User, error)
}
