package perms

import (
	"context"
	"sync"

	"github.com/openpress/warden/ports"
)

// MemoryPermissionStore is an in-memory implementation of the
// PermissionStore interface for tests.
type MemoryPermissionStore struct {
	grants map[string]map[string]struct{}
	mu     sync.RWMutex
}

// NewMemoryPermissionStore creates a new in-memory permission store.
func NewMemoryPermissionStore() *MemoryPermissionStore {
	return &MemoryPermissionStore{
		grants: make(map[string]map[string]struct{}),
	}
}

// LookupCodes returns all codes granted to the username.
func (s *MemoryPermissionStore) LookupCodes(ctx context.Context, username string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	granted := s.grants[username]
	codes := make([]string, 0, len(granted))
	for code := range granted {
		codes = append(codes, code)
	}
	return codes, nil
}

// Grant adds codes to the username's granted set.
func (s *MemoryPermissionStore) Grant(ctx context.Context, username string, codes ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	granted, ok := s.grants[username]
	if !ok {
		granted = make(map[string]struct{})
		s.grants[username] = granted
	}
	for _, code := range codes {
		granted[code] = struct{}{}
	}
	return nil
}

// Revoke removes codes from the username's granted set. Useful for
// exercising revocation in tests.
func (s *MemoryPermissionStore) Revoke(ctx context.Context, username string, codes ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, code := range codes {
		delete(s.grants[username], code)
	}
	return nil
}

var _ ports.PermissionStore = (*MemoryPermissionStore)(nil)
