// Package cache provides a TTL cache for remote API responses on top of
// [kv.Store]. Values are raw bytes; expiry is enforced by the kv layer
// (native TTL in Badger, deadline checks in the in-memory store), so a
// cached entry simply stops existing once its TTL elapses.
//
// There is no active eviction: expired entries are dropped lazily and the
// working set is expected to stay small (one entry per distinct upstream
// request).
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/schwiftylabs/portal/pkg/kv"
)

// ErrMiss is returned by Get when a key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// DefaultTTL is the time-to-live applied by Set when not overridden.
const DefaultTTL = 60 * time.Minute

// Cache is a string-keyed TTL cache over a kv.Store. Multiple caches can
// share one store as long as their prefixes differ.
type Cache struct {
	store  kv.Store
	ttl    time.Duration
	prefix kv.Key
	log    *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets the default time-to-live for Set. A ttl <= 0 disables expiry.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithPrefix sets the kv key prefix under which entries are stored.
// Default is "cache".
func WithPrefix(prefix ...string) Option {
	return func(c *Cache) { c.prefix = kv.Key(prefix) }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// New creates a Cache on top of the given store. The store's lifecycle is
// the caller's: Cache never closes it.
func New(store kv.Store, opts ...Option) *Cache {
	c := &Cache{
		store:  store,
		ttl:    DefaultTTL,
		prefix: kv.Key{"cache"},
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the default time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the cached value for key, or ErrMiss if it is absent or
// expired.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.store.Get(ctx, c.key(key))
	if errors.Is(err, kv.ErrNotFound) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache: get %q: %w", key, err)
	}
	c.log.Debug("cache hit", "key", key)
	return val, nil
}

// Set stores value under key with the default TTL, overwriting any previous
// entry.
func (c *Cache) Set(ctx context.Context, key string, value []byte) error {
	return c.SetTTL(ctx, key, value, c.ttl)
}

// SetTTL stores value under key with an explicit TTL. A ttl <= 0 stores the
// entry without expiry.
func (c *Cache) SetTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.store.SetWithTTL(ctx, c.key(key), value, ttl); err != nil {
		return fmt.Errorf("cache: set %q: %w", key, err)
	}
	c.log.Debug("cache set", "key", key, "bytes", len(value), "ttl", ttl)
	return nil
}

// Delete removes the entry for key. No error if it does not exist.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.store.Delete(ctx, c.key(key)); err != nil {
		return fmt.Errorf("cache: delete %q: %w", key, err)
	}
	return nil
}

// key builds the kv key for a cache key. The caller's key is query-escaped
// into a single segment: cache keys are derived from URLs and may contain
// the kv separator.
func (c *Cache) key(key string) kv.Key {
	return append(append(kv.Key{}, c.prefix...), url.QueryEscape(key))
}
