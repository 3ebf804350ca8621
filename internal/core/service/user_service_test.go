package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/userauth/rbac-api/internal/core/domain"
	"github.com/userauth/rbac-api/internal/infrastructure/security"
)

func newUserService(repo *stubUserRepo) *UserService {
	return NewUserService(repo, security.NewBcryptHasher(bcrypt.MinCost), zerolog.Nop())
}

func seedUser(t *testing.T, repo *stubUserRepo, username, role string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{Username: username, PasswordHash: "x", Role: role})
	if err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return u
}

func strPtr(s string) *string { return &s }

func TestUserService_List(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", domain.RoleUser)
	seedUser(t, repo, "root", domain.RoleAdmin)

	users, err := newUserService(repo).List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
}

func TestUserService_Get(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "alice", domain.RoleUser)
	svc := newUserService(repo)

	got, err := svc.Get(context.Background(), u.ID)
	if err != nil || got.Username != "alice" {
		t.Fatalf("get: %+v, %v", got, err)
	}
	if _, err := svc.Get(context.Background(), 999); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Update_RoleOnly(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "alice", domain.RoleUser)

	updated, err := newUserService(repo).Update(context.Background(), u.ID, domain.UserUpdate{Role: strPtr(domain.RoleAdmin)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Username != "alice" || updated.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", updated)
	}
}

func TestUserService_Update_Errors(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "alice", domain.RoleUser)
	seedUser(t, repo, "bob", domain.RoleUser)
	svc := newUserService(repo)
	ctx := context.Background()

	cases := []struct {
		name   string
		id     uint
		fields domain.UserUpdate
		want   error
	}{
		{"missing user", 99, domain.UserUpdate{Role: strPtr(domain.RoleAdmin)}, domain.ErrUserNotFound},
		{"bad role", u.ID, domain.UserUpdate{Role: strPtr("root")}, domain.ErrInvalidRole},
		{"empty username", u.ID, domain.UserUpdate{Username: strPtr("")}, domain.ErrInvalidUsername},
		{"taken username", u.ID, domain.UserUpdate{Username: strPtr("bob")}, domain.ErrUserExists},
	}
	for _, tc := range cases {
		if _, err := svc.Update(ctx, tc.id, tc.fields); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestUserService_Delete(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "alice", domain.RoleUser)
	svc := newUserService(repo)

	if err := svc.Delete(context.Background(), u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(context.Background(), u.ID); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_EnsureAdmin(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	created, err := svc.EnsureAdmin(ctx, "root", "toor", false)
	if err != nil || !created {
		t.Fatalf("expected admin to be created, got created=%v err=%v", created, err)
	}
	admin, _ := repo.FindByUsername(ctx, "root")
	if admin.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %s", admin.Role)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("toor")) != nil {
		t.Fatalf("admin password not hashed correctly")
	}

	created, err = svc.EnsureAdmin(ctx, "root", "other", false)
	if err != nil || created {
		t.Fatalf("expected no-op for existing admin, got created=%v err=%v", created, err)
	}
}

func TestUserService_EnsureAdmin_Promote(t *testing.T) {
	repo := newStubUserRepo()
	u := seedUser(t, repo, "alice", domain.RoleUser)
	svc := newUserService(repo)
	ctx := context.Background()

	if _, err := svc.EnsureAdmin(ctx, "alice", "pw", false); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if got, _ := repo.Get(ctx, u.ID); got.Role != domain.RoleUser {
		t.Fatalf("user promoted without promote flag")
	}

	if _, err := svc.EnsureAdmin(ctx, "alice", "pw", true); err != nil {
		t.Fatalf("ensure promote: %v", err)
	}
	if got, _ := repo.Get(ctx, u.ID); got.Role != domain.RoleAdmin {
		t.Fatalf("expected alice to be promoted, got %s", got.Role)
	}
}

func TestUserService_EnsureAdmin_Validation(t *testing.T) {
	if _, err := newUserService(newStubUserRepo()).EnsureAdmin(context.Background(), "", "", false); err != domain.ErrValidation {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
