package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sui-transfer-gateway/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
)

// releaseScript deletes the marker only if it still holds the caller's token.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// InFlightGuard implements ports.InFlightGuard with SET NX locks, so the
// one-pending-transfer rule holds across gateway replicas.
type InFlightGuard struct {
	client *goredis.Client
	prefix string
}

// NewInFlightGuard creates a new Redis-backed in-flight guard.
func NewInFlightGuard(client *goredis.Client) *InFlightGuard {
	return &InFlightGuard{
		client: client,
		prefix: "stg:inflight:",
	}
}

// Acquire returns true if no transfer from sender is pending.
func (g *InFlightGuard) Acquire(ctx context.Context, sender domain.Address, token string, ttl time.Duration) (bool, error) {
	result, err := g.client.SetArgs(ctx, g.key(sender), token, goredis.SetArgs{
		Mode: "NX",
		TTL:  ttl,
	}).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis in-flight acquire: %w", err)
	}
	return result == "OK", nil
}

// Release clears the pending marker of sender if it was set with token.
func (g *InFlightGuard) Release(ctx context.Context, sender domain.Address, token string) error {
	if err := releaseScript.Run(ctx, g.client, []string{g.key(sender)}, token).Err(); err != nil {
		return fmt.Errorf("redis in-flight release: %w", err)
	}
	return nil
}

func (g *InFlightGuard) key(sender domain.Address) string {
	return g.prefix + sender.String()
}
