package ports

import (
	"context"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// CredentialStore resolves provisioned accounts by username.
// Implementations return domain.ErrUserNotFound when the username is unknown.
type CredentialStore interface {
	Lookup(ctx context.Context, username string) (*domain.UserRecord, error)
}

// DigestWriter replaces the stored password digest of an existing account.
// It is used only by the background rehasher, never by the auth core.
type DigestWriter interface {
	UpdateDigest(ctx context.Context, username, digest string) error
}
