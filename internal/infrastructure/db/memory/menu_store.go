package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/menuhub/menu-api/internal/core/domain"
)

type menuDocument struct {
	Menu []domain.MenuItem `json:"menu"`
}

// MenuFileStore keeps the menu in memory and rewrites the JSON file
// ({"menu": [...]}) after every mutation.
type MenuFileStore struct {
	path  string
	mu    sync.Mutex
	items []domain.MenuItem
}

// OpenMenuFile loads path, treating a missing file as an empty menu.
func OpenMenuFile(path string) (*MenuFileStore, error) {
	s := &MenuFileStore{path: path}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read menu file: %w", err)
	}
	var doc menuDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse menu file: %w", err)
	}
	s.items = doc.Menu
	return s, nil
}

func (s *MenuFileStore) List(_ context.Context) ([]domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot(), nil
}

func (s *MenuFileStore) Get(_ context.Context, id int) (*domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == id {
			item := it
			return &item, nil
		}
	}
	return nil, domain.ErrMenuItemNotFound
}

func (s *MenuFileStore) Append(_ context.Context, item domain.MenuItem) ([]domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == item.ID {
			return nil, domain.ErrMenuItemExists
		}
	}
	return s.commit(append(s.snapshot(), item))
}

// Rename leaves the menu unchanged when no item has id.
func (s *MenuFileStore) Rename(_ context.Context, id int, name string) ([]domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.snapshot()
	for i := range next {
		if next[i].ID == id {
			next[i].Name = name
		}
	}
	return s.commit(next)
}

// Remove leaves the menu unchanged when no item has id.
func (s *MenuFileStore) Remove(_ context.Context, id int) ([]domain.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]domain.MenuItem, 0, len(s.items))
	for _, it := range s.items {
		if it.ID != id {
			next = append(next, it)
		}
	}
	return s.commit(next)
}

// commit persists next and only then makes it the in-memory state.
// Caller holds s.mu.
func (s *MenuFileStore) commit(next []domain.MenuItem) ([]domain.MenuItem, error) {
	if err := s.write(next); err != nil {
		return nil, err
	}
	s.items = next
	return s.snapshot(), nil
}

func (s *MenuFileStore) write(items []domain.MenuItem) error {
	if items == nil {
		items = []domain.MenuItem{}
	}
	raw, err := json.Marshal(menuDocument{Menu: items})
	if err != nil {
		return fmt.Errorf("encode menu: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".menu-*.json")
	if err != nil {
		return fmt.Errorf("write menu file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write menu file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write menu file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write menu file: %w", err)
	}
	return nil
}

func (s *MenuFileStore) snapshot() []domain.MenuItem {
	out := make([]domain.MenuItem, len(s.items))
	copy(out, s.items)
	return out
}
