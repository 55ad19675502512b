package port

import (
	"context"
	"errors"
	"time"
)

// Cache is the key-value contract used for read-through lookups (actor
// resolution). Implementations must be safe for concurrent use. Values are
// opaque strings; callers own their encoding.
type Cache interface {
	// Get returns ErrMiss when the key is absent. Any other error is a
	// transport or server failure.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value with ttl. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes keys and reports how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	Close() error
}

// ErrMiss signals a cache miss so callers can tell it apart from transport errors.
var ErrMiss = errors.New("cache: miss")
