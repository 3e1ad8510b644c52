package ports

import (
	"context"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// MenuRepository persists the menu as an ordered, id-keyed collection.
// Every mutating call returns the full menu as stored after the change.
type MenuRepository interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Get(ctx context.Context, id int) (*domain.MenuItem, error)
	Append(ctx context.Context, item domain.MenuItem) ([]domain.MenuItem, error)
	Rename(ctx context.Context, id int, name string) ([]domain.MenuItem, error)
	Remove(ctx context.Context, id int) ([]domain.MenuItem, error)
}

// IdempotencyStore records request keys that have already been served.
type IdempotencyStore interface {
	// Claim reports false when key was claimed before and has not expired.
	Claim(ctx context.Context, key string) (bool, error)
	// Release forgets a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}
