package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	redisclient "github.com/angelmondragon/marketplace-backend/pkg/redis"
)

type revocationStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
}

type revocationKeyer interface {
	RevokedTokenKey(jti string) string
}

// Revoker records logged-out token ids until their natural expiry.
type Revoker struct {
	store revocationStore
	keyer revocationKeyer
	now   func() time.Time
}

// RevocationChecker exposes the read-only surface needed by middleware.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NewRevoker constructs a revocation list backed by Redis.
func NewRevoker(client *redisclient.Client) (*Revoker, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &Revoker{store: client, keyer: client, now: time.Now}, nil
}

// Revoke marks jti as revoked until the given expiry. Already expired tokens are ignored.
func (r *Revoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	if strings.TrimSpace(jti) == "" {
		return fmt.Errorf("token id is required")
	}
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.store.Set(ctx, r.keyer.RevokedTokenKey(jti), "1", ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti was revoked.
func (r *Revoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	return r.store.Exists(ctx, r.keyer.RevokedTokenKey(jti))
}
