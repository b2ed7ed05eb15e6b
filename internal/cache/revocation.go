package cache

import (
	"context"
	"fmt"
	"time"
)

// Revocations records logged-out token ids until their natural expiry.
type Revocations struct {
	client *Client
}

// NewRevocations wires a revocation list.
func NewRevocations(client *Client) *Revocations {
	return &Revocations{client: client}
}

func revokedKey(tokenID string) string {
	return "revoked:" + tokenID
}

// Revoke marks the token id as revoked for ttl. A non-positive ttl is a no-op.
func (r *Revocations) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	if err := r.client.Redis.Set(ctx, revokedKey(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the token id was revoked.
func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if tokenID == "" {
		return false, nil
	}
	count, err := r.client.Redis.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return count > 0, nil
}
