package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/userauth/rbac-api/internal/api/middleware"
)

// actor returns the username injected by the Auth middleware, or "" on
// routes that are not behind it.
func actor(c echo.Context) string {
	username, _ := c.Get(middleware.UsernameKey).(string)
	return username
}
