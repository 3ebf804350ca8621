package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userauth/rbac-api/internal/api/metrics"
	"github.com/userauth/rbac-api/internal/core/domain"
	"github.com/userauth/rbac-api/internal/core/ports"
)

// UserHandler serves the admin-only user management routes.
type UserHandler struct {
	service ports.UserService
	log     zerolog.Logger
}

func NewUserHandler(service ports.UserService, log zerolog.Logger) *UserHandler {
	return &UserHandler{service: service, log: log}
}

type userResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// updateUserRequest documents the PUT body; the handler reads it as raw JSON
// to tell absent fields from empty ones.
type updateUserRequest struct {
	Username string `json:"username,omitempty"`
	Role     string `json:"role,omitempty"`
}

// List returns every user without credentials.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	return c.JSON(http.StatusOK, out)
}

// Update changes a user's username and/or role.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	// A missing user is reported before anything about the payload.
	if _, err := h.service.Get(c.Request().Context(), id); err != nil {
		return err
	}

	fields, err := bindUpdate(c)
	if err != nil {
		return err
	}

	if _, err := h.service.Update(c.Request().Context(), id, fields); err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("update").Inc()
	h.log.Info().Str("actor", actor(c)).Uint("user_id", id).Msg("user updated")
	return c.JSON(http.StatusOK, messageResponse{Msg: "User updated successfully"})
}

// Delete removes a user.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}

	metrics.UserMutationsTotal.WithLabelValues("delete").Inc()
	h.log.Info().Str("actor", actor(c)).Uint("user_id", id).Msg("user deleted")
	return c.JSON(http.StatusOK, messageResponse{Msg: "User deleted successfully"})
}

// userID parses the :id path parameter. A non-numeric id matches no user.
func userID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}
	return uint(id), nil
}

// bindUpdate reads the PUT body. A missing or empty JSON object is
// ErrNoUpdateData; unknown keys are ignored; null counts as absent.
func bindUpdate(c echo.Context) (domain.UserUpdate, error) {
	var raw map[string]json.RawMessage
	if err := (&echo.DefaultBinder{}).BindBody(c, &raw); err != nil {
		return domain.UserUpdate{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if len(raw) == 0 {
		return domain.UserUpdate{}, domain.ErrNoUpdateData
	}

	var fields domain.UserUpdate
	for key, dst := range map[string]**string{"username": &fields.Username, "role": &fields.Role} {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return domain.UserUpdate{}, echo.NewHTTPError(http.StatusBadRequest, key+" must be a string").SetInternal(err)
		}
		*dst = &s
	}
	return fields, nil
}
