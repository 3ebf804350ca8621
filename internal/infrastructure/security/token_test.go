package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/userauth/rbac-api/internal/core/domain"
)

func TestJWTService_IssueVerify(t *testing.T) {
	svc := NewJWTService("secret", "userauth", time.Hour)

	token, err := svc.Issue("alice", map[string]any{"role": domain.RoleAdmin})
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, domain.RoleAdmin, claims.Extra["role"])
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, claims.IssuedAt.Add(time.Hour), claims.ExpiresAt, time.Second)
}

func TestJWTService_ClaimsCannotOverrideRegistered(t *testing.T) {
	svc := NewJWTService("secret", "", time.Hour)

	token, err := svc.Issue("alice", map[string]any{"sub": "mallory", "exp": 1, "role": "user"})
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.NotContains(t, claims.Extra, "sub")
}

func TestJWTService_Expired(t *testing.T) {
	svc := NewJWTService("secret", "", time.Minute)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Issue("alice", map[string]any{"role": "user"})
	require.NoError(t, err)

	svc.now = time.Now
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("secret", "", time.Hour).Issue("alice", nil)
	require.NoError(t, err)

	_, err = NewJWTService("other", "", time.Hour).Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTService_Garbage(t *testing.T) {
	_, err := NewJWTService("secret", "", time.Hour).Verify("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
	assert.False(t, errors.Is(err, domain.ErrTokenExpired))
}

func TestJWTService_RejectsOtherAlgorithms(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "alice",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService("secret", "", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTService_RequiresExpiry(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"})
	signed, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService("secret", "", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTService_WrongIssuer(t *testing.T) {
	token, err := NewJWTService("secret", "someone-else", time.Hour).Issue("alice", nil)
	require.NoError(t, err)

	_, err = NewJWTService("secret", "userauth", time.Hour).Verify(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestJWTService_RequiresStringSubject(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 42,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService("secret", "", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}
