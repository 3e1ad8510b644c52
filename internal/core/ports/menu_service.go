package ports

import (
	"context"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// AddMenuItemInput carries the parameters of an append request.
type AddMenuItemInput struct {
	ID             int
	Name           string
	IdempotencyKey string
}

// MenuService exposes the menu operations. Each call authorizes token before
// touching the store.
type MenuService interface {
	List(ctx context.Context, token string) ([]domain.MenuItem, error)
	Get(ctx context.Context, token string, id int) (*domain.MenuItem, error)
	Add(ctx context.Context, token string, in AddMenuItemInput) ([]domain.MenuItem, error)
	Rename(ctx context.Context, token string, id int, name string) ([]domain.MenuItem, error)
	Remove(ctx context.Context, token string, id int) ([]domain.MenuItem, error)
}
