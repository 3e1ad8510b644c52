package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/menuhub/menu-api/internal/core/domain"
	"github.com/menuhub/menu-api/internal/core/ports"
)

// Authenticator turns a username and password into an authenticated user.
type Authenticator struct {
	store    ports.CredentialStore
	hasher   *PasswordHasher
	upgrader ports.DigestUpgrader
	// dummyDigest is verified against when the username is unknown so both
	// failure paths cost one hash.
	dummyDigest string
}

// NewAuthenticator wires an Authenticator. upgrader may be nil.
func NewAuthenticator(store ports.CredentialStore, hasher *PasswordHasher, upgrader ports.DigestUpgrader) (*Authenticator, error) {
	dummy, err := hasher.Hash("menu-api/unknown-user")
	if err != nil {
		return nil, fmt.Errorf("authenticator: %w", err)
	}
	return &Authenticator{store: store, hasher: hasher, upgrader: upgrader, dummyDigest: dummy}, nil
}

// Authenticate returns domain.ErrInvalidCredentials for an unknown username
// and for a wrong password alike.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*domain.AuthenticatedUser, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	rec, err := a.store.Lookup(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			a.hasher.Verify(password, a.dummyDigest)
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	ok, needsUpgrade := a.hasher.Verify(password, rec.PasswordDigest)
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}
	if needsUpgrade && a.upgrader != nil {
		a.upgrader.Submit(rec.Username, password)
	}

	return rec.Public(), nil
}
