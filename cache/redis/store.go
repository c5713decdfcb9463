// Package redis implements the cache.Store interface over a Redis server
// using go-redis/v9. All operations degrade gracefully: errors are logged and
// reported as misses, and prefix invalidation uses SCAN (not KEYS, which
// blocks the server).
package redis

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/guidex/cache"
	"github.com/redis/go-redis/v9"
)

// opTimeout bounds every cache operation so an unresponsive Redis can never
// stall a request; a timed-out read is just a miss.
const opTimeout = 2 * time.Second

// scanCount is the per-iteration COUNT hint for SCAN-based prefix deletion.
const scanCount = 100

// Store wraps a go-redis client as a cache.Store.
type Store struct {
	rdb    *redis.Client
	logger *slog.Logger
}

var _ cache.Store = (*Store)(nil)

// New creates a Redis-backed store. The connection is not probed here;
// Available reports reachability and every operation tolerates an
// unreachable server.
func New(addr, password string, db int) *Store {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Store{
		rdb:    rdb,
		logger: slog.Default().With("component", "redis-cache"),
	}
}

// Get returns the value for key, treating any backend error as a miss.
func (s *Store) Get(ctx context.Context, key string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	value, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("redis GET failed", "key", key, "err", err)
		}
		return "", false
	}
	return value, true
}

// Set stores a value with no expiry. Failures are logged only.
func (s *Store) Set(ctx context.Context, key, value string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		s.logger.Warn("redis SET failed", "key", key, "err", err)
	}
}

// SetTTL stores a value that expires after ttl. Failures are logged only.
func (s *Store) SetTTL(ctx context.Context, key, value string, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Warn("redis SETEX failed", "key", key, "err", err)
	}
}

// Delete removes a single key. Failures are logged only.
func (s *Store) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("redis DEL failed", "key", key, "err", err)
	}
}

// DeletePrefix removes every key matching prefix* via incremental SCAN.
// Prefix deletion runs during re-indexing and may cover many keys, so it
// gets a longer leash than single-key operations.
func (s *Store) DeletePrefix(ctx context.Context, prefix string) bool {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pattern := prefix + "*"
	iter := s.rdb.Scan(ctx, 0, pattern, scanCount).Iterator()
	var deleted int64
	for iter.Next(ctx) {
		if err := s.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn("redis DEL failed during prefix delete", "key", iter.Val(), "err", err)
			return false
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn("redis SCAN failed", "pattern", pattern, "err", err)
		return false
	}
	s.logger.Info("cache prefix invalidated", "pattern", pattern, "keys_deleted", deleted)
	return true
}

// Available reports whether Redis answers a PING.
func (s *Store) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	return s.rdb.Ping(ctx).Err() == nil
}

// Close closes the underlying Redis connection.
func (s *Store) Close() error {
	return s.rdb.Close()
}
