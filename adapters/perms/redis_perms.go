package perms

import (
	"context"
	"fmt"

	"github.com/openpress/warden/ports"
	"github.com/redis/go-redis/v9"
)

// RedisPermissionStore implements the PermissionStore interface using a
// Redis set per username. SMEMBERS gives the resolved code set in one
// round trip; an unknown username is just an empty set.
type RedisPermissionStore struct {
	client *redis.Client
	prefix string
}

// NewRedisPermissionStore creates a new Redis permission store.
func NewRedisPermissionStore(client *redis.Client) ports.PermissionStore {
	return &RedisPermissionStore{
		client: client,
		prefix: "warden:perm:",
	}
}

// LookupCodes returns all codes granted to the username.
func (s *RedisPermissionStore) LookupCodes(ctx context.Context, username string) ([]string, error) {
	codes, err := s.client.SMembers(ctx, s.prefix+username).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to look up permissions: %w", err)
	}
	return codes, nil
}

// Grant adds codes to the username's granted set.
func (s *RedisPermissionStore) Grant(ctx context.Context, username string, codes ...string) error {
	if len(codes) == 0 {
		return nil
	}
	members := make([]interface{}, len(codes))
	for i, code := range codes {
		members[i] = code
	}
	if err := s.client.SAdd(ctx, s.prefix+username, members...).Err(); err != nil {
		return fmt.Errorf("failed to grant permissions: %w", err)
	}
	return nil
}
