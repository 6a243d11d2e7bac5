package app

import (
	"errors"
	"testing"

	"dealerhub/internal/validate"
	"dealerhub/pkg/domain"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t, false)

	acct := env.registerClient(t, "ada@example.com")
	if acct.Role != domain.RoleClient {
		t.Fatalf("expected client role on registration, got %q", acct.Role)
	}
	if acct.PasswordHash == "a-long-enough-password" {
		t.Fatal("password stored in plain text")
	}

	logged, token, err := env.app.Login("ada@example.com", "a-long-enough-password")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token == "" || logged.ID != acct.ID {
		t.Fatalf("expected session for %s, got token=%q account=%+v", acct.ID, token, logged)
	}

	resolved, ok, err := env.app.AccountByToken(token)
	if err != nil || !ok {
		t.Fatalf("AccountByToken: ok=%v err=%v", ok, err)
	}
	if resolved.ID != acct.ID {
		t.Fatalf("token resolved to wrong account: %+v", resolved)
	}

	if err := env.app.Logout(token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, ok, err := env.app.AccountByToken(token); err != nil || ok {
		t.Fatalf("expected revoked token, ok=%v err=%v", ok, err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t, false)
	env.registerClient(t, "ada@example.com")

	_, err := env.app.Register(validate.RegistrationInput{
		FirstName: "Ada",
		LastName:  "Byron",
		Email:     "ada@example.com",
		Password:  "another-long-password",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t, false)
	env.registerClient(t, "ada@example.com")

	if _, _, err := env.app.Login("ada@example.com", "wrong-password-here"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := env.app.Login("nobody@example.com", "a-long-enough-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
