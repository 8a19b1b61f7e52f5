package ports

import (
	"context"
	"time"
)

// Cache stores serialized aggregates. Get reports a miss with found=false
// and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}
