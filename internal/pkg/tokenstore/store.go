package tokenstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store remembers revoked access tokens until they would have expired anyway.
type Store interface {
	Revoke(ctx context.Context, token string, ttl time.Duration) error
	IsRevoked(ctx context.Context, token string) (bool, error)
	Close() error
}

func key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
