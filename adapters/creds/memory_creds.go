package creds

import (
	"context"
	"sync"

	"github.com/openpress/warden/core"
	"github.com/openpress/warden/ports"
)

// MemoryCredentialStore is an in-memory implementation of the
// CredentialStore interface for tests.
type MemoryCredentialStore struct {
	hashes map[string]string
	mu     sync.RWMutex
}

// NewMemoryCredentialStore creates a new in-memory credential store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{
		hashes: make(map[string]string),
	}
}

// LookupHash returns the stored hash for the username.
func (s *MemoryCredentialStore) LookupHash(ctx context.Context, username string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hash, ok := s.hashes[username]
	if !ok {
		return "", core.ErrNotFound
	}
	return hash, nil
}

// SaveHash stores or replaces the hash for the username.
func (s *MemoryCredentialStore) SaveHash(ctx context.Context, username, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hashes[username] = hash
	return nil
}

var _ ports.CredentialStore = (*MemoryCredentialStore)(nil)
