package kv

import (
	"bytes"
	"context"
	"iter"
	"slices"
	"strings"
	"sync"
	"time"
)

// Memory keeps the whole store in a map. Safe for concurrent use; meant for
// tests and for running without a data directory.
type Memory struct {
	mu    sync.RWMutex
	items map[string]item
	opts  *Options

	// now is overridable in tests for deterministic expiry.
	now func() time.Time
}

// item is one stored value. Value slices are copied on write and never
// mutated afterwards, so readers may hold references across the lock.
type item struct {
	data     []byte
	deadline time.Time // zero when the item never expires
}

// live reports whether the item is still readable at time t. An item is dead
// exactly at its deadline, matching Badger's discard-at-expiry behavior.
func (it item) live(t time.Time) bool {
	return it.deadline.IsZero() || t.Before(it.deadline)
}

// NewMemory creates an empty in-memory store. A nil opts uses the default
// separator.
func NewMemory(opts *Options) *Memory {
	return &Memory{
		items: make(map[string]item),
		opts:  opts,
		now:   time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	k := string(m.opts.encode(key))
	m.mu.RLock()
	it, ok := m.items[k]
	m.mu.RUnlock()
	if !ok || !it.live(m.now()) {
		return nil, ErrNotFound
	}
	return bytes.Clone(it.data), nil
}

func (m *Memory) Set(ctx context.Context, key Key, value []byte) error {
	return m.SetWithTTL(ctx, key, value, 0)
}

func (m *Memory) SetWithTTL(_ context.Context, key Key, value []byte, ttl time.Duration) error {
	it := item{data: bytes.Clone(value)}
	if ttl > 0 {
		it.deadline = m.now().Add(ttl)
	}
	k := string(m.opts.encode(key))
	m.mu.Lock()
	m.items[k] = it
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key) error {
	k := string(m.opts.encode(key))
	m.mu.Lock()
	delete(m.items, k)
	m.mu.Unlock()
	return nil
}

func (m *Memory) List(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	// A non-empty prefix matches only whole segments: listing "a:b" must
	// not include "a:bc", so the separator is part of the match.
	var want string
	if p := m.opts.encode(prefix); len(p) > 0 {
		want = string(p) + string(m.opts.sep())
	}

	now := m.now()
	m.mu.RLock()
	keys := make([]string, 0, len(m.items))
	vals := make(map[string][]byte, len(m.items))
	for k, it := range m.items {
		if !it.live(now) {
			continue
		}
		if want == "" || strings.HasPrefix(k, want) {
			keys = append(keys, k)
			vals[k] = it.data
		}
	}
	m.mu.RUnlock()
	slices.Sort(keys)

	return func(yield func(Entry, error) bool) {
		for _, k := range keys {
			e := Entry{
				Key:   m.opts.decode([]byte(k)),
				Value: bytes.Clone(vals[k]),
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

func (m *Memory) BatchSet(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.items[string(m.opts.encode(e.Key))] = item{data: bytes.Clone(e.Value)}
	}
	return nil
}

func (m *Memory) BatchDelete(_ context.Context, keys []Key) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.items, string(m.opts.encode(key)))
	}
	return nil
}

func (m *Memory) Close() error {
	return nil
}
