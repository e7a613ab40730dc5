package guard

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "chatkit:revoked:"

// RedisRevoker is a Redis-backed denylist. Entries expire together with the
// tokens they revoke, so the set never needs explicit cleanup.
type RedisRevoker struct {
	client redis.UniversalClient
}

// NewRedisRevoker creates a revoker backed by the given Redis client.
func NewRedisRevoker(client redis.UniversalClient) *RedisRevoker {
	return &RedisRevoker{client: client}
}

// IsRevoked checks the denylist for the JWT ID.
func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.client.Get(ctx, revokedKeyPrefix+jti).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke adds the JWT ID to the denylist with a TTL matching the token's
// remaining lifetime. Already-expired tokens are not stored.
func (r *RedisRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}
