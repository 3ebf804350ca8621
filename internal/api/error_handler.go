package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userauth/rbac-api/internal/core/domain"
)

// errorResponse is the envelope for every API error: {"msg": "<message>"}.
type errorResponse struct {
	Msg string `json:"msg"`
}

// domainStatus maps domain errors to their HTTP status and client message.
// Order matters: the first match wins.
var domainStatus = []struct {
	err  error
	code int
	msg  string
}{
	{domain.ErrValidation, http.StatusBadRequest, "Username and password are required"},
	{domain.ErrNoUpdateData, http.StatusBadRequest, "No data provided"},
	{domain.ErrInvalidRole, http.StatusBadRequest, "Invalid role: must be one of user, admin"},
	{domain.ErrInvalidUsername, http.StatusBadRequest, "Username cannot be empty"},
	{domain.ErrUserExists, http.StatusBadRequest, "User already exists"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Missing Authorization Header"},
	{domain.ErrTokenExpired, http.StatusUnauthorized, "Token has expired"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
	{domain.ErrForbidden, http.StatusForbidden, "Access forbidden: insufficient permissions"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors without leaking details to the client.
//   - Renders a consistent JSON envelope.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Msg: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, unknown routes, malformed auth header).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range domainStatus {
		if errors.Is(err, m.err) {
			return m.code, m.msg
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
