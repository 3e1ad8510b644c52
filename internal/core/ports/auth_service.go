package ports

import (
	"context"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// AuthService exchanges credentials for an access token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*domain.Token, error)
}

// Authorizer is the checkpoint every protected operation calls first.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*domain.AuthenticatedUser, error)
}

// DigestUpgrader accepts accounts whose stored digest should be re-hashed with
// the current scheme. Submit must not block the caller.
type DigestUpgrader interface {
	Submit(username, password string)
}
