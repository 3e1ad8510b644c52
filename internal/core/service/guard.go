package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/menuhub/menu-api/internal/core/domain"
	"github.com/menuhub/menu-api/internal/core/ports"
)

// AuthGuard is the checkpoint protected operations call before doing any work.
type AuthGuard struct {
	validator *TokenValidator
	store     ports.CredentialStore
}

func NewAuthGuard(validator *TokenValidator, store ports.CredentialStore) *AuthGuard {
	return &AuthGuard{validator: validator, store: store}
}

// Authorize resolves token to an active user.
//
// Every token failure and an unresolvable subject are reported as
// domain.ErrUnauthorized with the cause wrapped. A disabled account yields
// domain.ErrUserDisabled.
func (g *AuthGuard) Authorize(ctx context.Context, token string) (*domain.AuthenticatedUser, error) {
	subject, err := g.validator.Validate(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	rec, err := g.store.Lookup(ctx, subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, domain.ErrSubjectUnresolved)
		}
		return nil, fmt.Errorf("authorize: %w", err)
	}

	if rec.Disabled {
		return nil, domain.ErrUserDisabled
	}
	return rec.Public(), nil
}
