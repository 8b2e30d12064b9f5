// Package cache defines the key-value-with-expiry contract the rest of the
// service stores its ephemeral state in: session records, verification tokens,
// and the redirect cache. The store is shared across server instances in
// production; the in-memory implementation in this package is for single-node
// deployments and tests.
package cache

import (
	"context"
	"time"
)

// Store is a key-value store with per-key TTL. A ttl of zero means the entry
// never expires.
type Store interface {
	// Set writes a value unconditionally.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX writes a value only if the key does not already exist and
	// reports whether the write happened.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Get returns the value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// GetDel atomically returns the value and removes the key. When two
	// callers race on the same key, exactly one observes it.
	GetDel(ctx context.Context, key string) (string, bool, error)

	// Del removes the key. Deleting an absent key is not an error.
	Del(ctx context.Context, key string) error
}
