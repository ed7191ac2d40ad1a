package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/schwiftylabs/portal/pkg/cache"
	"github.com/schwiftylabs/portal/pkg/kv"
)

func newTestCache(t *testing.T, opts ...cache.Option) *cache.Cache {
	t.Helper()
	store := kv.NewMemory(nil)
	t.Cleanup(func() { store.Close() })
	return cache.New(store, opts...)
}

func TestGetMiss(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	_, err := c.Get(ctx, "character/1")
	if !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("got %v, want ErrMiss", err)
	}
}

func TestSetGet(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	body := []byte(`{"id":1,"name":"Rick Sanchez"}`)
	if err := c.Set(ctx, "character/1", body); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "character/1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != string(body) {
		t.Fatalf("Get = %q, want %q", got, body)
	}
}

func TestTTLExpiry(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	if err := c.SetTTL(ctx, "character/1", []byte("v"), 50*time.Millisecond); err != nil {
		t.Fatalf("SetTTL: %v", err)
	}
	if _, err := c.Get(ctx, "character/1"); err != nil {
		t.Fatalf("Get within TTL: %v", err)
	}

	time.Sleep(120 * time.Millisecond)
	if _, err := c.Get(ctx, "character/1"); !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("Get after TTL: got %v, want ErrMiss", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	if err := c.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("Get after delete: got %v, want ErrMiss", err)
	}
	// Deleting a missing key is fine.
	if err := c.Delete(ctx, "nope"); err != nil {
		t.Fatalf("Delete missing: %v", err)
	}
}

func TestKeysWithSeparators(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(t)

	// Keys are URL-derived and may contain the kv separator and query syntax.
	key := "character/?name=rick:morty&page=2"
	if err := c.Set(ctx, key, []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("Get = %q, want %q", got, "v")
	}
}

func TestPrefixIsolation(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory(nil)
	t.Cleanup(func() { store.Close() })

	a := cache.New(store, cache.WithPrefix("a"))
	b := cache.New(store, cache.WithPrefix("b"))

	if err := a.Set(ctx, "k", []byte("from-a")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if _, err := b.Get(ctx, "k"); !errors.Is(err, cache.ErrMiss) {
		t.Fatalf("prefix b sees prefix a's entry: %v", err)
	}
	got, err := a.Get(ctx, "k")
	if err != nil || string(got) != "from-a" {
		t.Fatalf("Get from a = %q, %v", got, err)
	}
}

func TestDefaultTTL(t *testing.T) {
	c := newTestCache(t)
	if c.TTL() != cache.DefaultTTL {
		t.Fatalf("TTL = %v, want %v", c.TTL(), cache.DefaultTTL)
	}
	c = newTestCache(t, cache.WithTTL(5*time.Minute))
	if c.TTL() != 5*time.Minute {
		t.Fatalf("TTL = %v, want 5m", c.TTL())
	}
}
