package ports

import (
	"context"

	"github.com/userauth/rbac-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	// Login returns a signed access token. Every failure to authenticate is
	// reported as domain.ErrInvalidCredentials.
	Login(ctx context.Context, username, password string) (string, error)
}
