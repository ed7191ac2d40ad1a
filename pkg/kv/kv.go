// Package kv is a small key-value store with hierarchical keys. A key is a
// slice of path segments, e.g. Key{"note", "c", "42"}, stored under its
// separator-joined encoding ("note:c:42").
//
// Two backends implement the Store interface: Badger for on-disk data and an
// in-memory map for tests. Both support per-key expiry through SetWithTTL;
// an expired key reads and lists as absent.
package kv

import (
	"bytes"
	"context"
	"errors"
	"iter"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned by Get for a key that was never written, was
// deleted, or has expired.
var ErrNotFound = errors.New("kv: not found")

// Key addresses one record as a path of segments. Segments must not contain
// the separator byte; encode panics on such keys rather than letting two
// different paths collide in storage.
type Key []string

// String joins the segments with ':' for logs and error messages. Storage
// encoding goes through Options.encode instead, which honors a custom
// separator.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// Entry pairs a key with its value. List yields entries; BatchSet accepts
// them.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is the backend contract shared by Badger and Memory.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set writes key=value, replacing any previous value.
	Set(ctx context.Context, key Key, value []byte) error

	// SetWithTTL writes key=value with an expiry ttl from now. The write
	// replaces both the previous value and its expiry. ttl <= 0 stores
	// without expiry, same as Set.
	SetWithTTL(ctx context.Context, key Key, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key Key) error

	// List yields every live entry under prefix, ordered by encoded key.
	// A nil prefix lists the whole store. Expired entries never appear.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// BatchSet writes all entries in one atomic batch.
	BatchSet(ctx context.Context, entries []Entry) error

	// BatchDelete removes all keys in one atomic batch.
	BatchDelete(ctx context.Context, keys []Key) error

	// Close flushes and releases the backend.
	Close() error
}

// DefaultSeparator joins key segments in the encoded form.
const DefaultSeparator byte = ':'

// Options carries settings common to both backends. The zero value (and a
// nil *Options) means the default separator.
type Options struct {
	// Separator overrides the byte placed between encoded segments.
	Separator byte
}

func (o *Options) sep() byte {
	if o != nil && o.Separator != 0 {
		return o.Separator
	}
	return DefaultSeparator
}

// encode flattens a key into its storage form. A segment containing the
// separator is a programming error: once joined it would decode as a
// different, deeper path, so encode panics instead of writing it.
func (o *Options) encode(k Key) []byte {
	s := o.sep()
	size := len(k) // room for the separators, one short, fixed below
	if size > 0 {
		size--
	}
	for _, seg := range k {
		if strings.IndexByte(seg, s) >= 0 {
			panic("kv: key segment " + strconv.Quote(seg) + " contains separator")
		}
		size += len(seg)
	}
	buf := make([]byte, 0, size)
	for i, seg := range k {
		if i > 0 {
			buf = append(buf, s)
		}
		buf = append(buf, seg...)
	}
	return buf
}

// decode splits an encoded key back into segments.
func (o *Options) decode(b []byte) Key {
	parts := bytes.Split(b, []byte{o.sep()})
	k := make(Key, len(parts))
	for i, p := range parts {
		k[i] = string(p)
	}
	return k
}
