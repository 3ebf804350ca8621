package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/userauth/rbac-api/internal/api/metrics"
	"github.com/userauth/rbac-api/internal/core/domain"
	"github.com/userauth/rbac-api/internal/core/ports"
)

// RBAC enforces role-based access control on the role set by Auth.
func RBAC(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(RoleKey).(string)
			if _, ok := allowed[role]; !ok {
				metrics.AuthorizationDecisionsTotal.WithLabelValues("forbidden").Inc()
				return domain.ErrForbidden
			}
			metrics.AuthorizationDecisionsTotal.WithLabelValues("allowed").Inc()
			return next(c)
		}
	}
}

// RequireRole is the authorization gate for a protected route: the caller
// must present a valid bearer token whose role claim equals role.
func RequireRole(verifier ports.TokenVerifier, role string) echo.MiddlewareFunc {
	authn := Auth(verifier)
	authz := RBAC(role)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return authn(authz(next))
	}
}
