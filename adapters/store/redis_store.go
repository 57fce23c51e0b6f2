package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/openpress/warden/core"
	"github.com/openpress/warden/ports"
	"github.com/redis/go-redis/v9"
)

// RedisChallengeStore implements the ChallengeStore interface using Redis.
type RedisChallengeStore struct {
	client *redis.Client
	prefix string
}

// NewRedisChallengeStore creates a new Redis challenge store.
func NewRedisChallengeStore(client *redis.Client) ports.ChallengeStore {
	return &RedisChallengeStore{
		client: client,
		prefix: "warden:captcha:",
	}
}

// Put stores the expected answer with the challenge TTL.
func (s *RedisChallengeStore) Put(ctx context.Context, key, answer string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+key, answer, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store challenge: %w", err)
	}
	return nil
}

// Consume reads and deletes the answer in one round trip. GETDEL makes the
// destructive read atomic, so concurrent consumers cannot both see it.
func (s *RedisChallengeStore) Consume(ctx context.Context, key string) (string, error) {
	answer, err := s.client.GetDel(ctx, s.prefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("failed to consume challenge: %w", err)
	}
	return answer, nil
}

// Delete removes a pending challenge.
func (s *RedisChallengeStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}

// RedisSessionStore implements the SessionStore interface using Redis.
// Sessions are stored as JSON under a fixed inactivity TTL that Get
// refreshes on every hit.
type RedisSessionStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisSessionStore creates a new Redis session store.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) ports.SessionStore {
	return &RedisSessionStore{
		client: client,
		prefix: "warden:session:",
		ttl:    ttl,
	}
}

// Create persists a new session.
func (s *RedisSessionStore) Create(ctx context.Context, session *core.Session) error {
	return s.write(ctx, session)
}

// Get loads a session and refreshes its TTL.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*core.Session, error) {
	payload, err := s.client.Get(ctx, s.prefix+id).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var session core.Session
	if err := json.Unmarshal([]byte(payload), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	if err := s.client.Expire(ctx, s.prefix+id, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("failed to refresh session TTL: %w", err)
	}

	return &session, nil
}

// Update rewrites the session, refreshing its TTL.
func (s *RedisSessionStore) Update(ctx context.Context, session *core.Session) error {
	return s.write(ctx, session)
}

// Delete removes a session. Absent IDs are not an error.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) write(ctx context.Context, session *core.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+session.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}
