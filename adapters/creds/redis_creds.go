package creds

import (
	"context"
	"fmt"

	"github.com/openpress/warden/core"
	"github.com/openpress/warden/ports"
	"github.com/redis/go-redis/v9"
)

// RedisCredentialStore implements the CredentialStore interface using
// Redis. One key per username holding the encoded password hash.
type RedisCredentialStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCredentialStore creates a new Redis credential store.
func NewRedisCredentialStore(client *redis.Client) ports.CredentialStore {
	return &RedisCredentialStore{
		client: client,
		prefix: "warden:cred:",
	}
}

// LookupHash returns the stored hash for the username.
func (s *RedisCredentialStore) LookupHash(ctx context.Context, username string) (string, error) {
	hash, err := s.client.Get(ctx, s.prefix+username).Result()
	if err != nil {
		if err == redis.Nil {
			return "", core.ErrNotFound
		}
		return "", fmt.Errorf("failed to look up credential: %w", err)
	}
	return hash, nil
}

// SaveHash stores or replaces the hash for the username. Credentials do
// not expire; rotation happens by overwriting.
func (s *RedisCredentialStore) SaveHash(ctx context.Context, username, hash string) error {
	if err := s.client.Set(ctx, s.prefix+username, hash, 0).Err(); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}
