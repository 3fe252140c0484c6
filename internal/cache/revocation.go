package cache

import (
	"context"
	"time"
)

const revokedTokenPrefix = "blacklist:"

// RevokeToken marks the token id jti as revoked until it would have expired.
func RevokeToken(ctx context.Context, jti string, expiresAt time.Time) error {
	if client == nil || jti == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return client.Set(ctx, revokedTokenPrefix+jti, "1", ttl).Err()
}

// IsTokenRevoked reports whether jti was revoked. Lookup errors count as
// not revoked so a Redis outage does not lock everyone out.
func IsTokenRevoked(ctx context.Context, jti string) bool {
	if client == nil || jti == "" {
		return false
	}
	n, err := client.Exists(ctx, revokedTokenPrefix+jti).Result()
	return err == nil && n > 0
}
