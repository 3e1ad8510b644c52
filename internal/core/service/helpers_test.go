package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/menuhub/menu-api/internal/core/domain"
)

const testSecret = "09d25e094faa6ca2556c818166b7a9563b93f7099f6f0f4caa6cf63b88e8d3e7"

var fastArgon2 = Argon2Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}

type stubCredentialStore struct {
	users     map[string]*domain.UserRecord
	lookupErr error
	lookups   int
}

func newStubCredentialStore(users ...*domain.UserRecord) *stubCredentialStore {
	s := &stubCredentialStore{users: make(map[string]*domain.UserRecord)}
	for _, u := range users {
		s.users[u.Username] = u
	}
	return s
}

func (s *stubCredentialStore) Lookup(_ context.Context, username string) (*domain.UserRecord, error) {
	s.lookups++
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	u, ok := s.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

type stubUpgrader struct {
	submitted []string
}

func (u *stubUpgrader) Submit(username, _ string) {
	u.submitted = append(u.submitted, username)
}

func newTestHasher(t *testing.T) *PasswordHasher {
	t.Helper()
	h, err := NewPasswordHasher(HasherConfig{Scheme: SchemeBcrypt, BcryptCost: bcrypt.MinCost, Argon2: fastArgon2})
	if err != nil {
		t.Fatalf("new hasher: %v", err)
	}
	return h
}

func mustHash(t *testing.T, h *PasswordHasher, password string) string {
	t.Helper()
	d, err := h.Hash(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return d
}

func testTokenConfig() TokenConfig {
	return TokenConfig{Secret: []byte(testSecret), Algorithm: "HS256", DefaultTTL: 15 * time.Minute}
}

func newTestIssuer(t *testing.T, cfg TokenConfig, now func() time.Time) *TokenIssuer {
	t.Helper()
	i, err := NewTokenIssuer(cfg)
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	if now != nil {
		i.now = now
	}
	return i
}

func newTestValidator(t *testing.T, cfg TokenConfig, now func() time.Time) *TokenValidator {
	t.Helper()
	v, err := NewTokenValidator(cfg)
	if err != nil {
		t.Fatalf("new validator: %v", err)
	}
	if now != nil {
		v.now = now
	}
	return v
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func expectErr(t *testing.T, err, want error) {
	t.Helper()
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}
