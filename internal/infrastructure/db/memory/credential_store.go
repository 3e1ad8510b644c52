package memory

import (
	"context"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/menuhub/menu-api/internal/core/domain"
)

// DefaultSeedUsers is the account table used when no seed file is configured.
func DefaultSeedUsers() []domain.UserRecord {
	return []domain.UserRecord{{
		Username:       "asdf",
		FullName:       "John Doe",
		Email:          "johndoe@example.com",
		PasswordDigest: "$2b$12$OS5wetnUfg3Lzek.rGNG6.CHjmK5uILdLnrjZZt53WaYvm7zW2I8u",
		Disabled:       false,
	}}
}

type seedFile struct {
	Users []domain.UserRecord `yaml:"users"`
}

// LoadSeedUsers reads an account table from a YAML file of the form
//
//	users:
//	  - username: asdf
//	    email: johndoe@example.com
//	    full_name: John Doe
//	    disabled: false
//	    hashed_password: $2b$12$...
func LoadSeedUsers(path string) ([]domain.UserRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed users: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed users: %w", err)
	}
	seen := make(map[string]struct{}, len(f.Users))
	for i, u := range f.Users {
		if u.Username == "" || u.PasswordDigest == "" {
			return nil, fmt.Errorf("seed users: entry %d needs username and hashed_password", i)
		}
		if _, dup := seen[u.Username]; dup {
			return nil, fmt.Errorf("seed users: duplicate username %q", u.Username)
		}
		seen[u.Username] = struct{}{}
	}
	return f.Users, nil
}

// CredentialStore is an in-memory account table keyed by username.
type CredentialStore struct {
	mu    sync.RWMutex
	users map[string]domain.UserRecord
}

func NewCredentialStore(records []domain.UserRecord) *CredentialStore {
	users := make(map[string]domain.UserRecord, len(records))
	for _, r := range records {
		users[r.Username] = r
	}
	return &CredentialStore{users: users}
}

// Lookup returns a copy of the stored record.
func (s *CredentialStore) Lookup(_ context.Context, username string) (*domain.UserRecord, error) {
	s.mu.RLock()
	rec, ok := s.users[username]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &rec, nil
}

func (s *CredentialStore) UpdateDigest(_ context.Context, username, digest string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[username]
	if !ok {
		return domain.ErrUserNotFound
	}
	rec.PasswordDigest = digest
	s.users[username] = rec
	return nil
}
