package ports

import (
	"context"
	"time"

	"github.com/openpress/warden/core"
)

// ChallengeStore is the short-lived key/value capability backing one-time
// captcha challenges. The store enforces the TTL; the core never sweeps.
type ChallengeStore interface {
	// Put stores the expected answer under key with the given TTL.
	Put(ctx context.Context, key, answer string, ttl time.Duration) error

	// Consume atomically reads and deletes the answer. Returns
	// core.ErrNotFound when the key is absent or expired. Two concurrent
	// consumers of the same key must not both observe the answer.
	Consume(ctx context.Context, key string) (string, error)

	// Delete removes a pending challenge. Absent keys are not an error.
	Delete(ctx context.Context, key string) error
}

// SessionStore persists sessions keyed by their opaque ID. Implementations
// enforce the inactivity TTL and refresh it on Get.
type SessionStore interface {
	Create(ctx context.Context, session *core.Session) error

	// Get returns the session and refreshes its TTL. Returns core.ErrNotFound
	// when the ID is unknown or expired.
	Get(ctx context.Context, id string) (*core.Session, error)

	Update(ctx context.Context, session *core.Session) error

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error
}
