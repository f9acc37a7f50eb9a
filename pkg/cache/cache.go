package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is not present.
var ErrMiss = errors.New("cache miss")

// Cache is the generic key-value store behind the persistent counter
// mirror. Values survive process restarts when backed by redis; the
// memory implementation is a best-effort stand-in for tests and
// redis-less deployments.
type Cache interface {
	// Set stores value under key. A zero ttl means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Get loads key and unmarshals the stored value into target.
	Get(ctx context.Context, key string, target interface{}) error
	// Delete removes key.
	Delete(ctx context.Context, key string) error
}
