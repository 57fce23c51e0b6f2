package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpress/warden/core"
)

func TestChallengeConsumeOnce(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k1", "ab3x", time.Minute))

	answer, err := s.Consume(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "ab3x", answer)

	_, err = s.Consume(ctx, "k1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestChallengeConsumeConcurrent(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, "k1", "ab3x", time.Minute))

	const attempts = 16
	var wg sync.WaitGroup
	hits := make(chan string, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if answer, err := s.Consume(ctx, "k1"); err == nil {
				hits <- answer
			}
		}()
	}
	wg.Wait()
	close(hits)

	// Exactly one consumer may observe the answer.
	assert.Len(t, hits, 1)
}

func TestChallengeExpiry(t *testing.T) {
	s := NewMemoryChallengeStore()
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k1", "ab3x", -time.Second))

	_, err := s.Consume(ctx, "k1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestChallengeDeleteAbsent(t *testing.T) {
	s := NewMemoryChallengeStore()
	assert.NoError(t, s.Delete(context.Background(), "missing"))
}

func TestSessionLifecycle(t *testing.T) {
	s := NewMemorySessionStore(time.Minute)
	ctx := context.Background()

	session := &core.Session{ID: "s1", Identity: "alice", CreatedAt: time.Now()}
	require.NoError(t, s.Create(ctx, session))

	loaded, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "alice", loaded.Identity)

	// Mutating the returned copy must not leak into the store.
	loaded.Identity = "mallory"
	again, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Identity)

	require.NoError(t, s.Delete(ctx, "s1"))
	_, err = s.Get(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrNotFound)

	// Deleting again is not an error.
	assert.NoError(t, s.Delete(ctx, "s1"))
}

func TestSessionExpiry(t *testing.T) {
	s := NewMemorySessionStore(-time.Second)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &core.Session{ID: "s1"}))

	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSessionClear(t *testing.T) {
	s := NewMemorySessionStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &core.Session{ID: "s1"}))
	require.NoError(t, s.Create(ctx, &core.Session{ID: "s2"}))

	s.Clear()

	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, core.ErrNotFound)
	_, err = s.Get(ctx, "s2")
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestSessionUpdate(t *testing.T) {
	s := NewMemorySessionStore(time.Minute)
	ctx := context.Background()

	session := &core.Session{ID: "s1"}
	require.NoError(t, s.Create(ctx, session))

	session.ChallengeKey = "k1"
	require.NoError(t, s.Update(ctx, session))

	loaded, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "k1", loaded.ChallengeKey)
}
