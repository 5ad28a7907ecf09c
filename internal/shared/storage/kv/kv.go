// Package kv provides the TTL-keyed integer store behind the rate limiter and
// the usage counter.
package kv

import (
	"context"
	"time"
)

// Store is a key-value store holding integer values with optional expiry.
type Store interface {
	// GetInt returns the value for key and whether it exists.
	GetInt(ctx context.Context, key string) (int64, bool, error)
	// SetInt stores value under key. A ttl <= 0 means no expiry.
	SetInt(ctx context.Context, key string, value int64, ttl time.Duration) error
	// Incr atomically increments key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}
