package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/menuhub/menu-api/internal/core/domain"
)

func newAsdfStore(t *testing.T, h *PasswordHasher, disabled bool) *stubCredentialStore {
	t.Helper()
	return newStubCredentialStore(&domain.UserRecord{
		Username:       "asdf",
		Email:          "asdf@example.com",
		FullName:       "As Df",
		Disabled:       disabled,
		PasswordDigest: mustHash(t, h, "correct horse"),
	})
}

func TestAuthenticator_Success(t *testing.T) {
	h := newTestHasher(t)
	auth, err := NewAuthenticator(newAsdfStore(t, h, false), h, nil)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	user, err := auth.Authenticate(context.Background(), "asdf", "correct horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.Username != "asdf" || user.Email != "asdf@example.com" || user.FullName != "As Df" {
		t.Fatalf("unexpected projection: %+v", user)
	}

	raw, err := json.Marshal(user)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(raw), "$2a$") || strings.Contains(strings.ToLower(string(raw)), "password") {
		t.Fatalf("projection leaks digest: %s", raw)
	}
}

func TestAuthenticator_UnknownUserAndWrongPasswordIndistinguishable(t *testing.T) {
	h := newTestHasher(t)
	auth, err := NewAuthenticator(newAsdfStore(t, h, false), h, nil)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	_, wrongPw := auth.Authenticate(context.Background(), "asdf", "nope")
	_, unknown := auth.Authenticate(context.Background(), "ghost", "nope")

	if wrongPw != domain.ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPw)
	}
	if unknown != domain.ErrInvalidCredentials {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", unknown)
	}
}

func TestAuthenticator_EmptyInput(t *testing.T) {
	h := newTestHasher(t)
	store := newAsdfStore(t, h, false)
	auth, err := NewAuthenticator(store, h, nil)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	for _, c := range [][2]string{{"", "pw"}, {"asdf", ""}} {
		if _, err := auth.Authenticate(context.Background(), c[0], c[1]); err != domain.ErrInvalidCredentials {
			t.Fatalf("%q/%q: expected ErrInvalidCredentials, got %v", c[0], c[1], err)
		}
	}
	if store.lookups != 0 {
		t.Fatalf("expected no store lookups for empty input, got %d", store.lookups)
	}
}

func TestAuthenticator_DisabledUserStillAuthenticates(t *testing.T) {
	h := newTestHasher(t)
	auth, err := NewAuthenticator(newAsdfStore(t, h, true), h, nil)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	user, err := auth.Authenticate(context.Background(), "asdf", "correct horse")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if !user.Disabled {
		t.Fatalf("expected disabled flag in projection")
	}
}

func TestAuthenticator_StoreFailurePropagates(t *testing.T) {
	h := newTestHasher(t)
	store := newStubCredentialStore()
	store.lookupErr = errors.New("connection reset")
	auth, err := NewAuthenticator(store, h, nil)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	_, err = auth.Authenticate(context.Background(), "asdf", "pw")
	if err == nil || errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !errors.Is(err, store.lookupErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestAuthenticator_SubmitsUpgrade(t *testing.T) {
	legacy := newTestHasher(t)
	current, err := NewPasswordHasher(HasherConfig{Scheme: SchemeBcrypt, BcryptCost: bcrypt.MinCost + 1})
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	upgrader := &stubUpgrader{}

	auth, err := NewAuthenticator(newAsdfStore(t, legacy, false), current, upgrader)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	if _, err := auth.Authenticate(context.Background(), "asdf", "correct horse"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if len(upgrader.submitted) != 1 || upgrader.submitted[0] != "asdf" {
		t.Fatalf("expected one upgrade for asdf, got %v", upgrader.submitted)
	}

	if _, err := auth.Authenticate(context.Background(), "asdf", "wrong"); err == nil {
		t.Fatalf("expected failure")
	}
	if len(upgrader.submitted) != 1 {
		t.Fatalf("failed login must not submit upgrade, got %v", upgrader.submitted)
	}
}

func TestAuthenticator_NoUpgradeForCurrentDigest(t *testing.T) {
	h := newTestHasher(t)
	upgrader := &stubUpgrader{}
	auth, err := NewAuthenticator(newAsdfStore(t, h, false), h, upgrader)
	if err != nil {
		t.Fatalf("new authenticator: %v", err)
	}

	if _, err := auth.Authenticate(context.Background(), "asdf", "correct horse"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if len(upgrader.submitted) != 0 {
		t.Fatalf("unexpected upgrade: %v", upgrader.submitted)
	}
}
