package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/supermall/supermall-api/internal/auth"
	"github.com/supermall/supermall-api/internal/models"
	"github.com/supermall/supermall-api/internal/testutil"
)

func newAuthService() (*AuthService, *testutil.MemUserRepo) {
	users := testutil.NewMemUserRepo()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	return NewAuthService(users, tokens), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{
		Name:     "Jamie",
		Email:    "  Jamie@Example.COM ",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "jamie@example.com" {
		t.Errorf("email = %q, want normalized lowercase", user.Email)
	}
	if user.Role != models.RoleUser {
		t.Errorf("role = %q, want %q", user.Role, models.RoleUser)
	}
	if token == "" {
		t.Error("expected a token from Register")
	}

	// Login works with a differently-cased email.
	logged, token, err := svc.Login(ctx, "JAMIE@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if logged.ID != user.ID {
		t.Error("login returned a different user")
	}
	if token == "" {
		t.Error("expected a token from Login")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	in := RegisterInput{Name: "A", Email: "a@example.com", Password: "pw123456"}
	if _, _, err := svc.Register(ctx, in); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, _, err := svc.Register(ctx, in); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register error = %v, want %v", err, ErrEmailTaken)
	}
}

func TestLoginFailures(t *testing.T) {
	svc, users := newAuthService()
	ctx := context.Background()

	user, _, err := svc.Register(ctx, RegisterInput{Name: "B", Email: "b@example.com", Password: "pw123456"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if _, _, err := svc.Login(ctx, "b@example.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v, want %v", err, ErrInvalidCredentials)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "pw123456"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email error = %v, want %v", err, ErrInvalidCredentials)
	}

	user.IsActive = false
	if err := users.Create(ctx, user); err != nil {
		t.Fatalf("update user: %v", err)
	}
	if _, _, err := svc.Login(ctx, "b@example.com", "pw123456"); !errors.Is(err, ErrAccountDisabled) {
		t.Errorf("disabled account error = %v, want %v", err, ErrAccountDisabled)
	}
}
