package kv

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger stores entries in a BadgerDB v4 database. Expiry uses badger's
// native TTL, which works at one-second granularity.
type Badger struct {
	db   *badger.DB
	opts *Options
}

// BadgerOptions configures NewBadger.
type BadgerOptions struct {
	// Options carries the separator shared with other backends.
	Options *Options

	// Dir is where badger keeps its data files. Required unless InMemory
	// is set.
	Dir string

	// InMemory opens badger without any files, for tests that want the
	// real engine.
	InMemory bool

	// Logger receives badger's internal messages. Defaults to an adapter
	// that forwards warnings and errors to slog and drops the rest.
	Logger badger.Logger
}

// NewBadger opens (creating if needed) a badger database at opts.Dir.
func NewBadger(opts BadgerOptions) (*Badger, error) {
	if opts.Dir == "" && !opts.InMemory {
		return nil, errors.New("kv: BadgerOptions.Dir is required for on-disk mode")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slogAdapter{log: slog.Default()}
	}
	cfg := badger.DefaultOptions(opts.Dir).
		WithInMemory(opts.InMemory).
		WithLogger(logger)
	db, err := badger.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("kv: open badger: %w", err)
	}
	return &Badger{db: db, opts: opts.Options}, nil
}

func (b *Badger) Get(_ context.Context, key Key) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		it, err := txn.Get(b.opts.encode(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		val, err = it.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (b *Badger) Set(ctx context.Context, key Key, value []byte) error {
	return b.SetWithTTL(ctx, key, value, 0)
}

func (b *Badger) SetWithTTL(_ context.Context, key Key, value []byte, ttl time.Duration) error {
	e := badger.NewEntry(b.opts.encode(key), value)
	if ttl > 0 {
		e = e.WithTTL(ttl)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(e)
	})
}

func (b *Badger) Delete(_ context.Context, key Key) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(b.opts.encode(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// List scans all live keys under prefix in one read transaction. A value
// read failure ends the scan; the error is yielded once.
func (b *Badger) List(_ context.Context, prefix Key) iter.Seq2[Entry, error] {
	// Scan with the separator appended so "a:b" does not pick up "a:bc".
	var scan []byte
	if p := b.opts.encode(prefix); len(p) > 0 {
		scan = append(p, b.opts.sep())
	}

	return func(yield func(Entry, error) bool) {
		err := b.db.View(func(txn *badger.Txn) error {
			o := badger.DefaultIteratorOptions
			o.Prefix = scan
			it := txn.NewIterator(o)
			defer it.Close()

			for it.Seek(scan); it.ValidForPrefix(scan); it.Next() {
				rec := it.Item()
				val, err := rec.ValueCopy(nil)
				if err != nil {
					return err
				}
				e := Entry{
					Key:   b.opts.decode(rec.KeyCopy(nil)),
					Value: val,
				}
				if !yield(e, nil) {
					return errStopIter
				}
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopIter) {
			yield(Entry{}, err)
		}
	}
}

// errStopIter signals an early break by the List consumer, not a failure.
var errStopIter = errors.New("kv: stop iteration")

func (b *Badger) BatchSet(_ context.Context, entries []Entry) error {
	batch := b.db.NewWriteBatch()
	defer batch.Cancel()
	for _, e := range entries {
		if err := batch.Set(b.opts.encode(e.Key), e.Value); err != nil {
			return err
		}
	}
	return batch.Flush()
}

func (b *Badger) BatchDelete(_ context.Context, keys []Key) error {
	batch := b.db.NewWriteBatch()
	defer batch.Cancel()
	for _, key := range keys {
		if err := batch.Delete(b.opts.encode(key)); err != nil {
			return err
		}
	}
	return batch.Flush()
}

func (b *Badger) Close() error {
	return b.db.Close()
}

// slogAdapter bridges badger's logger interface onto slog. Badger is chatty
// at info level during compaction, so only warnings and errors go through.
type slogAdapter struct {
	log *slog.Logger
}

func (a slogAdapter) Errorf(f string, v ...any) {
	a.log.Error("badger: " + strings.TrimRight(fmt.Sprintf(f, v...), "\n"))
}

func (a slogAdapter) Warningf(f string, v ...any) {
	a.log.Warn("badger: " + strings.TrimRight(fmt.Sprintf(f, v...), "\n"))
}

func (slogAdapter) Infof(string, ...any)  {}
func (slogAdapter) Debugf(string, ...any) {}
