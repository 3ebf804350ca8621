package ports

import "github.com/userauth/rbac-api/internal/core/domain"

// PasswordHasher hashes and checks stored credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches digest. A malformed digest is a mismatch.
	Verify(digest, password string) bool
}

// TokenIssuer signs bearer tokens.
type TokenIssuer interface {
	Issue(subject string, claims map[string]any) (string, error)
}

// TokenVerifier checks bearer tokens. It fails with domain.ErrInvalidToken or
// domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string) (*domain.TokenClaims, error)
}
