package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/menuhub/menu-api/internal/core/domain"
	"github.com/menuhub/menu-api/internal/core/ports"
)

// MenuService guards every menu operation with the Authorizer before it
// reads or mutates the repository.
type MenuService struct {
	guard  ports.Authorizer
	repo   ports.MenuRepository
	idem   ports.IdempotencyStore
	logger zerolog.Logger
}

// NewMenuService wires a MenuService. idem may be nil, in which case
// idempotency keys are ignored.
func NewMenuService(guard ports.Authorizer, repo ports.MenuRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *MenuService {
	return &MenuService{guard: guard, repo: repo, idem: idem, logger: logger}
}

func (s *MenuService) List(ctx context.Context, token string) ([]domain.MenuItem, error) {
	if _, err := s.guard.Authorize(ctx, token); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *MenuService) Get(ctx context.Context, token string, id int) (*domain.MenuItem, error) {
	if _, err := s.guard.Authorize(ctx, token); err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, id)
}

// Add appends an item. A repeated idempotency key is rejected with
// domain.ErrDuplicateRequest without touching the menu. The key is released
// again when the append fails.
func (s *MenuService) Add(ctx context.Context, token string, in ports.AddMenuItemInput) ([]domain.MenuItem, error) {
	user, err := s.guard.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}

	claimed := ""
	if in.IdempotencyKey != "" && s.idem != nil {
		key := user.Username + ":" + in.IdempotencyKey
		fresh, err := s.idem.Claim(ctx, key)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency check failed, processing anyway")
		case !fresh:
			return nil, fmt.Errorf("add menu item %d: %w", in.ID, domain.ErrDuplicateRequest)
		default:
			claimed = key
		}
	}

	menu, err := s.repo.Append(ctx, domain.MenuItem{ID: in.ID, Name: in.Name})
	if err != nil {
		// A failed append must not burn the key.
		if claimed != "" {
			if relErr := s.idem.Release(ctx, claimed); relErr != nil {
				s.logger.Warn().Err(relErr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}
	s.logger.Info().Int("item_id", in.ID).Str("username", user.Username).Msg("menu item added")
	return menu, nil
}

func (s *MenuService) Rename(ctx context.Context, token string, id int, name string) ([]domain.MenuItem, error) {
	user, err := s.guard.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	menu, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("item_id", id).Str("username", user.Username).Msg("menu item renamed")
	return menu, nil
}

func (s *MenuService) Remove(ctx context.Context, token string, id int) ([]domain.MenuItem, error) {
	user, err := s.guard.Authorize(ctx, token)
	if err != nil {
		return nil, err
	}
	menu, err := s.repo.Remove(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Int("item_id", id).Str("username", user.Username).Msg("menu item removed")
	return menu, nil
}
