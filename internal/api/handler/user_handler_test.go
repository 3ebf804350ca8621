package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/userauth/rbac-api/internal/core/domain"
)

type stubUserService struct {
	users      []*domain.User
	lastID     uint
	lastFields domain.UserUpdate
	err        error
}

func (s *stubUserService) List(context.Context) ([]*domain.User, error) {
	return s.users, s.err
}

func (s *stubUserService) Get(_ context.Context, id uint) (*domain.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.User{ID: id}, nil
}

func (s *stubUserService) Update(_ context.Context, id uint, fields domain.UserUpdate) (*domain.User, error) {
	s.lastID, s.lastFields = id, fields
	if s.err != nil {
		return nil, s.err
	}
	u := &domain.User{ID: id}
	fields.Apply(u)
	return u, nil
}

func (s *stubUserService) Delete(_ context.Context, id uint) error {
	s.lastID = id
	return s.err
}

func withID(c echo.Context, id string) echo.Context {
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c
}

func TestUserHandler_List_OmitsPasswordHash(t *testing.T) {
	stub := &stubUserService{users: []*domain.User{
		{ID: 1, Username: "alice", PasswordHash: "secret-hash", Role: domain.RoleUser},
		{ID: 2, Username: "root", PasswordHash: "secret-hash", Role: domain.RoleAdmin},
	}}

	c, rec := newJSONContext(http.MethodGet, "/users", "")
	if err := NewUserHandler(stub, zerolog.Nop()).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp) != 2 {
		t.Fatalf("expected 2 users, got %d", len(resp))
	}
	for _, u := range resp {
		if len(u) != 3 {
			t.Fatalf("expected only id, username, role; got %+v", u)
		}
		if _, ok := u["password_hash"]; ok {
			t.Fatalf("password hash leaked: %+v", u)
		}
	}
	if resp[1]["username"] != "root" || resp[1]["role"] != "admin" || resp[1]["id"] != float64(2) {
		t.Fatalf("unexpected user: %+v", resp[1])
	}
}

func TestUserHandler_List_Empty(t *testing.T) {
	c, rec := newJSONContext(http.MethodGet, "/users", "")
	if err := NewUserHandler(&stubUserService{}, zerolog.Nop()).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := rec.Body.String(); got != "[]\n" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestUserHandler_Update_RoleOnly(t *testing.T) {
	stub := &stubUserService{}
	c, rec := newJSONContext(http.MethodPut, "/users/5", `{"role":"admin"}`)

	if err := NewUserHandler(stub, zerolog.Nop()).Update(withID(c, "5")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastID != 5 {
		t.Fatalf("expected id 5, got %d", stub.lastID)
	}
	if stub.lastFields.Username != nil {
		t.Fatalf("username should be untouched, got %q", *stub.lastFields.Username)
	}
	if stub.lastFields.Role == nil || *stub.lastFields.Role != domain.RoleAdmin {
		t.Fatalf("expected role admin, got %+v", stub.lastFields.Role)
	}
}

func TestUserHandler_Update_NoData(t *testing.T) {
	for _, body := range []string{"", `{}`} {
		stub := &stubUserService{}
		c, _ := newJSONContext(http.MethodPut, "/users/1", body)

		err := NewUserHandler(stub, zerolog.Nop()).Update(withID(c, "1"))
		if err != domain.ErrNoUpdateData {
			t.Fatalf("body %q: expected ErrNoUpdateData, got %v", body, err)
		}
		if stub.lastID != 0 {
			t.Fatalf("service should not be called")
		}
	}
}

func TestUserHandler_Update_NullAndUnknownKeysIgnored(t *testing.T) {
	stub := &stubUserService{}
	c, _ := newJSONContext(http.MethodPut, "/users/1", `{"username":null,"nickname":"x"}`)

	if err := NewUserHandler(stub, zerolog.Nop()).Update(withID(c, "1")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !stub.lastFields.Empty() {
		t.Fatalf("expected empty update, got %+v", stub.lastFields)
	}
}

func TestUserHandler_Update_NonStringField(t *testing.T) {
	c, _ := newJSONContext(http.MethodPut, "/users/1", `{"role":7}`)

	err := NewUserHandler(&stubUserService{}, zerolog.Nop()).Update(withID(c, "1"))
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestUserHandler_Update_NotFound(t *testing.T) {
	stub := &stubUserService{err: domain.ErrUserNotFound}
	c, _ := newJSONContext(http.MethodPut, "/users/9", `{"role":"admin"}`)

	if err := NewUserHandler(stub, zerolog.Nop()).Update(withID(c, "9")); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Update_MissingUserBeforePayload(t *testing.T) {
	for _, body := range []string{"", `{}`, `{"role":"superuser"}`, `{"username":""}`, `{"role":7}`} {
		stub := &stubUserService{err: domain.ErrUserNotFound}
		c, _ := newJSONContext(http.MethodPut, "/users/999", body)

		err := NewUserHandler(stub, zerolog.Nop()).Update(withID(c, "999"))
		if err != domain.ErrUserNotFound {
			t.Fatalf("body %q: expected ErrUserNotFound, got %v", body, err)
		}
		if stub.lastID != 0 {
			t.Fatalf("body %q: update should not be attempted", body)
		}
	}
}

func TestUserHandler_NonNumericID(t *testing.T) {
	h := NewUserHandler(&stubUserService{}, zerolog.Nop())

	c, _ := newJSONContext(http.MethodDelete, "/users/abc", "")
	if err := h.Delete(withID(c, "abc")); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	c, _ = newJSONContext(http.MethodPut, "/users/-1", `{"role":"admin"}`)
	if err := h.Update(withID(c, "-1")); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserHandler_Delete(t *testing.T) {
	stub := &stubUserService{}
	c, rec := newJSONContext(http.MethodDelete, "/users/3", "")

	if err := NewUserHandler(stub, zerolog.Nop()).Delete(withID(c, "3")); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || stub.lastID != 3 {
		t.Fatalf("unexpected result: code=%d id=%d", rec.Code, stub.lastID)
	}

	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["msg"] != "User deleted successfully" {
		t.Fatalf("unexpected body: %+v", resp)
	}
}
