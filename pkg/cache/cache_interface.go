package cache

import (
	"context"
	"time"
)

// Cache is the contract for the read-through layer in front of the stores.
type Cache interface {
	// Get unmarshals the cached value into dest. found is false on a miss and
	// dest is left untouched.
	Get(ctx context.Context, key string, dest any) (found bool, err error)

	// Set marshals value and stores it with ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
}
