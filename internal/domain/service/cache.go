package service

import (
	"context"
	"time"
)

// Cache is an advisory key/value cache. None of its methods report errors:
// a fault behaves like a miss (Get) or a no-op (Set, Delete).
type Cache interface {
	// Get decodes the value stored at key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst any) bool

	// Set stores value at key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration)

	// Delete removes key.
	Delete(ctx context.Context, key string)

	// Probe reports whether the backend answers.
	Probe(ctx context.Context) bool
}
