package guard

import (
	"context"
	"time"
)

// Revoker handles token revocation using JWT IDs (jti claims).
// Implementations can use Redis, databases, or in-memory storage.
type Revoker interface {
	// IsRevoked checks if a JWT ID has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// Revoke marks a JWT ID as revoked until the token's natural expiry.
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
}

// NoOpRevoker is a no-op implementation that never revokes tokens. This is
// the default: a logged-out token stays cryptographically valid until its
// expiry, matching the purely structural validity model.
type NoOpRevoker struct{}

// IsRevoked always returns false.
func (NoOpRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return false, nil
}

// Revoke does nothing and returns nil.
func (NoOpRevoker) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return nil
}
