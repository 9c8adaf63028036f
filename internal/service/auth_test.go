package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lodestarhq/lodestar/internal/config"
	"github.com/lodestarhq/lodestar/internal/domain"
	"github.com/lodestarhq/lodestar/internal/domain/user"
	"github.com/lodestarhq/lodestar/internal/port/database"
)

type fakeUserStore struct {
	database.Store // unimplemented methods panic if called
	users          map[string]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*user.User)}
}

func (f *fakeUserStore) ListUsers(_ context.Context) ([]user.User, error) {
	out := make([]user.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) GetUser(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserStore) CreateUser(_ context.Context, u *user.User) error {
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) UpdateUser(_ context.Context, u *user.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserStore) DeleteUser(_ context.Context, id string) error {
	delete(f.users, id)
	return nil
}

func testAuthConfig() *config.Auth {
	return &config.Auth{
		Enabled:           true,
		JWTSecret:         "test-secret-for-auth-tests",
		AccessTokenExpiry: time.Hour,
		BcryptCost:        4, // min cost, keeps tests fast
		DefaultAdminEmail: "admin@example.com",
		DefaultAdminPass:  "admin-password",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testAuthConfig())
	ctx := context.Background()

	u, err := svc.Register(ctx, &user.CreateRequest{
		Email:    "Jo@Example.com",
		Name:     "Jo",
		Password: "password123",
		Role:     user.RoleMember,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Email != "jo@example.com" {
		t.Errorf("email not lowercased: %q", u.Email)
	}
	if u.PasswordHash == "password123" {
		t.Error("password stored in plain text")
	}

	resp, err := svc.Login(ctx, user.LoginRequest{Email: "jo@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.AccessToken == "" {
		t.Fatal("empty access token")
	}
	if got := strings.Count(resp.AccessToken, "."); got != 2 {
		t.Errorf("token has %d dots, want 2", got)
	}

	claims, err := svc.ValidateAccessToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != u.ID || claims.Role != user.RoleMember {
		t.Errorf("claims = %+v", claims)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testAuthConfig())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &user.CreateRequest{
		Email: "jo@example.com", Name: "Jo", Password: "password123", Role: user.RoleMember,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, err := svc.Login(ctx, user.LoginRequest{Email: "jo@example.com", Password: "wrong"}); err == nil {
		t.Fatal("expected error for wrong password")
	}
	if _, err := svc.Login(ctx, user.LoginRequest{Email: "nobody@example.com", Password: "password123"}); err == nil {
		t.Fatal("expected error for unknown user")
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testAuthConfig())
	ctx := context.Background()

	u, err := svc.Register(ctx, &user.CreateRequest{
		Email: "jo@example.com", Name: "Jo", Password: "password123", Role: user.RoleMember,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	disabled := false
	if _, err := svc.UpdateUser(ctx, u.ID, user.UpdateRequest{Enabled: &disabled}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}

	if _, err := svc.Login(ctx, user.LoginRequest{Email: "jo@example.com", Password: "password123"}); err == nil {
		t.Fatal("expected error for disabled account")
	}
}

func TestValidateTamperedToken(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testAuthConfig())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &user.CreateRequest{
		Email: "jo@example.com", Name: "Jo", Password: "password123", Role: user.RoleAdmin,
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	resp, err := svc.Login(ctx, user.LoginRequest{Email: "jo@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	tampered := resp.AccessToken[:len(resp.AccessToken)-2] + "xx"
	if _, err := svc.ValidateAccessToken(tampered); err == nil {
		t.Fatal("expected error for tampered signature")
	}
	if _, err := svc.ValidateAccessToken("not-a-token"); err == nil {
		t.Fatal("expected error for malformed token")
	}
}

func TestSeedDefaultAdmin(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testAuthConfig())
	ctx := context.Background()

	if err := svc.SeedDefaultAdmin(ctx); err != nil {
		t.Fatalf("SeedDefaultAdmin: %v", err)
	}
	users, _ := store.ListUsers(ctx)
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}
	if users[0].Role != user.RoleAdmin {
		t.Errorf("role = %s, want admin", users[0].Role)
	}

	// Second call is a no-op when users already exist.
	if err := svc.SeedDefaultAdmin(ctx); err != nil {
		t.Fatalf("SeedDefaultAdmin again: %v", err)
	}
	users, _ = store.ListUsers(ctx)
	if len(users) != 1 {
		t.Fatalf("got %d users after reseed, want 1", len(users))
	}
}

func TestChangePassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store, testAuthConfig())
	ctx := context.Background()

	u, err := svc.Register(ctx, &user.CreateRequest{
		Email: "jo@example.com", Name: "Jo", Password: "password123", Role: user.RoleMember,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.ChangePassword(ctx, u.ID, "wrong", "newpassword1"); err == nil {
		t.Fatal("expected error for wrong current password")
	}
	if err := svc.ChangePassword(ctx, u.ID, "password123", "short"); err == nil {
		t.Fatal("expected error for short new password")
	}
	if err := svc.ChangePassword(ctx, u.ID, "password123", "newpassword1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, user.LoginRequest{Email: "jo@example.com", Password: "newpassword1"}); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
}
