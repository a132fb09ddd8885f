package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RevocationStore implements ports.RevocationStore. Entries expire with
// the token they revoke.
type RevocationStore struct {
	client *goredis.Client
	prefix string
}

// NewRevocationStore creates a new Redis-backed revocation store.
func NewRevocationStore(client *goredis.Client) *RevocationStore {
	return &RevocationStore{
		client: client,
		prefix: "stg:revoked:",
	}
}

// Revoke marks tokenID revoked for ttl.
func (s *RevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked.
func (s *RevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis revocation check: %w", err)
	}
	return n > 0, nil
}
