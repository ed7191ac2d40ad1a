package kv

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryTTLExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	t.Cleanup(func() { m.Close() })

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	key := Key{"cache", "resp"}
	if err := m.SetWithTTL(ctx, key, []byte("v"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}

	// Readable within the TTL window.
	if _, err := m.Get(ctx, key); err != nil {
		t.Fatalf("Get within TTL: %v", err)
	}

	// Still readable just before the deadline.
	clock = clock.Add(time.Minute - time.Nanosecond)
	if _, err := m.Get(ctx, key); err != nil {
		t.Fatalf("Get just before deadline: %v", err)
	}

	// Gone at the deadline.
	clock = clock.Add(time.Nanosecond)
	if _, err := m.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get at deadline: got %v, want ErrNotFound", err)
	}
}

func TestMemoryTTLZeroMeansNoExpiry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	t.Cleanup(func() { m.Close() })

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	key := Key{"cache", "forever"}
	if err := m.SetWithTTL(ctx, key, []byte("v"), 0); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}

	clock = clock.Add(100 * 365 * 24 * time.Hour)
	if _, err := m.Get(ctx, key); err != nil {
		t.Fatalf("Get after long wait: %v", err)
	}
}

func TestMemoryTTLOverwriteResetsDeadline(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	t.Cleanup(func() { m.Close() })

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	key := Key{"cache", "resp"}
	if err := m.SetWithTTL(ctx, key, []byte("v1"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}

	// Rewrite half-way through; the deadline starts over.
	clock = clock.Add(30 * time.Second)
	if err := m.SetWithTTL(ctx, key, []byte("v2"), time.Minute); err != nil {
		t.Fatalf("SetWithTTL overwrite: %v", err)
	}

	clock = clock.Add(45 * time.Second)
	got, err := m.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get after overwrite: %v", err)
	}
	if string(got) != "v2" {
		t.Fatalf("Get = %q, want %q", got, "v2")
	}

	clock = clock.Add(20 * time.Second)
	if _, err := m.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get past renewed deadline: got %v, want ErrNotFound", err)
	}
}

func TestMemoryListSkipsExpired(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	t.Cleanup(func() { m.Close() })

	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }

	if err := m.SetWithTTL(ctx, Key{"c", "short"}, []byte("a"), time.Second); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	if err := m.Set(ctx, Key{"c", "long"}, []byte("b")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	clock = clock.Add(2 * time.Second)
	var keys []string
	for entry, err := range m.List(ctx, Key{"c"}) {
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		keys = append(keys, entry.Key.String())
	}
	if len(keys) != 1 || keys[0] != "c:long" {
		t.Fatalf("List = %v, want [c:long]", keys)
	}
}

// Badger tracks expiry in whole seconds, so this test needs real time.
func TestBadgerTTLExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping badger TTL wait in short mode")
	}
	ctx := context.Background()
	s, err := NewBadger(BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	key := Key{"cache", "resp"}
	if err := s.SetWithTTL(ctx, key, []byte("v"), time.Second); err != nil {
		t.Fatalf("SetWithTTL: %v", err)
	}
	if _, err := s.Get(ctx, key); err != nil {
		t.Fatalf("Get within TTL: %v", err)
	}

	time.Sleep(2100 * time.Millisecond)
	if _, err := s.Get(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get after TTL: got %v, want ErrNotFound", err)
	}
}
