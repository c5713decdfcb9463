package cache

import (
	"context"
	"time"
)

// Store is a best-effort key-value cache backend. Every read reports only
// present or absent: an absent result is indistinguishable whether it comes
// from a true miss or from the backend being unreachable. Writes are
// fire-and-forget; implementations log failures and never surface them.
//
// Implementations must be thread-safe for concurrent use.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool)

	// Set stores a value with no expiry.
	Set(ctx context.Context, key, value string)

	// SetTTL stores a value that expires after ttl.
	SetTTL(ctx context.Context, key, value string, ttl time.Duration)

	// Delete removes a single key.
	Delete(ctx context.Context, key string)

	// DeletePrefix removes every key under the given prefix using
	// incremental scanning, never a blocking full-keyspace listing.
	// Reports whether the deletion ran to completion.
	DeletePrefix(ctx context.Context, prefix string) bool

	// Available reports whether the backend is currently reachable.
	Available(ctx context.Context) bool
}

// Disabled is a Store that always reports absent and ignores writes. It is
// selected at startup when no cache backend is configured, so call sites
// never branch on cache availability.
type Disabled struct{}

var _ Store = Disabled{}

func (Disabled) Get(ctx context.Context, key string) (string, bool) { return "", false }

func (Disabled) Set(ctx context.Context, key, value string) {}

func (Disabled) SetTTL(ctx context.Context, key, value string, ttl time.Duration) {}

func (Disabled) Delete(ctx context.Context, key string) {}

func (Disabled) DeletePrefix(ctx context.Context, prefix string) bool { return true }

func (Disabled) Available(ctx context.Context) bool { return false }
