package store

import (
	"context"
	"sync"
	"time"

	"github.com/openpress/warden/core"
	"github.com/openpress/warden/ports"
)

// MemoryChallengeStore is an in-memory implementation of the
// ChallengeStore interface, primarily intended for testing.
type MemoryChallengeStore struct {
	entries map[string]memoryEntry
	mu      sync.Mutex
}

type memoryEntry struct {
	answer    string
	expiresAt time.Time
}

// NewMemoryChallengeStore creates a new in-memory challenge store.
func NewMemoryChallengeStore() *MemoryChallengeStore {
	return &MemoryChallengeStore{
		entries: make(map[string]memoryEntry),
	}
}

// Put stores the answer with its expiry.
func (s *MemoryChallengeStore) Put(ctx context.Context, key, answer string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{answer: answer, expiresAt: time.Now().Add(ttl)}
	return nil
}

// Consume reads and deletes under one lock, matching the atomic
// destructive-read contract.
func (s *MemoryChallengeStore) Consume(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", core.ErrNotFound
	}
	delete(s.entries, key)

	if time.Now().After(entry.expiresAt) {
		return "", core.ErrNotFound
	}
	return entry.answer, nil
}

// Delete removes a pending challenge.
func (s *MemoryChallengeStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// MemorySessionStore is an in-memory implementation of the SessionStore
// interface for tests and single-process deployments.
type MemorySessionStore struct {
	sessions map[string]*memorySession
	ttl      time.Duration
	mu       sync.RWMutex
}

type memorySession struct {
	session   core.Session
	expiresAt time.Time
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*memorySession),
		ttl:      ttl,
	}
}

// Create persists a new session.
func (s *MemorySessionStore) Create(ctx context.Context, session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = &memorySession{
		session:   *session,
		expiresAt: time.Now().Add(s.ttl),
	}
	return nil
}

// Get loads a session and refreshes its TTL.
func (s *MemorySessionStore) Get(ctx context.Context, id string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.sessions[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		delete(s.sessions, id)
		return nil, core.ErrNotFound
	}

	entry.expiresAt = time.Now().Add(s.ttl)
	session := entry.session
	return &session, nil
}

// Update rewrites the session, refreshing its TTL.
func (s *MemorySessionStore) Update(ctx context.Context, session *core.Session) error {
	return s.Create(ctx, session)
}

// Delete removes a session. Absent IDs are not an error.
func (s *MemorySessionStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Clear removes all sessions. Useful for resetting state between tests.
func (s *MemorySessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make(map[string]*memorySession)
}

var _ ports.SessionStore = (*MemorySessionStore)(nil)
var _ ports.ChallengeStore = (*MemoryChallengeStore)(nil)
