package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/userauth/rbac-api/internal/api/metrics"
	"github.com/userauth/rbac-api/internal/core/domain"
	"github.com/userauth/rbac-api/internal/core/ports"
)

// Context keys set by Auth.
const (
	UsernameKey = "username"
	RoleKey     = "role"
	ClaimsKey   = "claims"
)

const badHeaderMsg = "Bad Authorization header. Expected 'Authorization: Bearer <JWT>'"

// Auth validates the bearer token and injects its claims into the context.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthorizationDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.AuthorizationDecisionsTotal.WithLabelValues("unauthenticated").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, badHeaderMsg).SetInternal(domain.ErrUnauthenticated)
			}

			claims, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				outcome := "unauthenticated"
				if errors.Is(err, domain.ErrTokenExpired) {
					outcome = "expired"
				}
				metrics.AuthorizationDecisionsTotal.WithLabelValues(outcome).Inc()
				return err
			}

			c.Set(UsernameKey, claims.Subject)
			c.Set(RoleKey, claims.Role)
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}
