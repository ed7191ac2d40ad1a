package search

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/sync/errgroup"

	"github.com/schwiftylabs/portal/pkg/kv"
	"github.com/schwiftylabs/portal/pkg/vecindex"
)

// Key layout:
//
//	search:embedding:{characterID} → msgpack-encoded storedRecord
var embeddingPrefix = kv.Key{"search", "embedding"}

func embeddingKey(id int) kv.Key {
	return kv.Key{"search", "embedding", strconv.Itoa(id)}
}

// IndexError records why one character failed to index.
type IndexError struct {
	CharacterID int    `json:"character_id"`
	Reason      string `json:"reason"`
}

// IndexResult summarizes an IndexCharacters run.
type IndexResult struct {
	// IndexedCount is how many of the requested characters were indexed
	// by this call.
	IndexedCount int `json:"indexed_count"`

	// Errors lists the characters that failed, ordered by id. A non-empty
	// list does not make the run an error; the rest of the batch went
	// through.
	Errors []IndexError `json:"errors,omitempty"`
}

// IndexCharacters fetches, embeds, and indexes the given characters. A nil
// or empty id list indexes ids 1 through [DefaultIndexCount]. One
// character failing does not abort the batch; failures come back in
// [IndexResult.Errors]. Cancelling ctx aborts the whole run.
//
// With Config.Workers > 1, characters are processed concurrently under
// that limit. The outcome is the same as a sequential run.
func (s *Service) IndexCharacters(ctx context.Context, ids []int) (*IndexResult, error) {
	if len(ids) == 0 {
		ids = make([]int, DefaultIndexCount)
		for i := range ids {
			ids[i] = i + 1
		}
	}

	var (
		mu     sync.Mutex
		failed []IndexError
	)
	g := new(errgroup.Group)
	g.SetLimit(s.workers)

	for _, id := range ids {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := s.indexOne(ctx, id); err != nil {
				s.log.Warn("character indexing failed", "character_id", id, "error", err)
				mu.Lock()
				failed = append(failed, IndexError{CharacterID: id, Reason: err.Error()})
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("search: index characters: %w", err)
	}

	sort.Slice(failed, func(i, j int) bool {
		return failed[i].CharacterID < failed[j].CharacterID
	})
	return &IndexResult{
		IndexedCount: len(ids) - len(failed),
		Errors:       failed,
	}, nil
}

// Reindex drops and rebuilds one character's embedding.
func (s *Service) Reindex(ctx context.Context, id int) error {
	if err := s.index.Delete(id); err != nil {
		return fmt.Errorf("search: drop character %d: %w", id, err)
	}
	if s.store != nil {
		if err := s.store.Delete(ctx, embeddingKey(id)); err != nil {
			s.log.Warn("persisted embedding delete failed", "character_id", id, "error", err)
		}
	}
	if err := s.indexOne(ctx, id); err != nil {
		return fmt.Errorf("search: reindex character %d: %w", id, err)
	}
	return nil
}

// indexOne fetches one character, embeds its profile, and stores the
// vector. Persistence is best effort: the in-memory index is already
// updated when the write fails, so the item still counts as indexed.
func (s *Service) indexOne(ctx context.Context, id int) error {
	char, err := s.chars.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch character: %w", err)
	}

	vec, err := s.embedder.Embed(ctx, char.Description())
	if err != nil {
		return fmt.Errorf("embed profile: %w", err)
	}

	rec := vecindex.Record{
		CharacterID: char.ID,
		Name:        char.Name,
		Vector:      vec,
		Meta: map[string]string{
			"species": char.Species,
			"status":  char.Status,
			"gender":  char.Gender,
		},
	}
	if err := s.index.Upsert(rec); err != nil {
		return fmt.Errorf("upsert vector: %w", err)
	}

	if s.store != nil {
		if err := s.persist(ctx, rec); err != nil {
			s.log.Warn("embedding persist failed", "character_id", id, "error", err)
		}
	}
	return nil
}

func (s *Service) persist(ctx context.Context, rec vecindex.Record) error {
	data, err := msgpack.Marshal(storedRecord{
		CharacterID: rec.CharacterID,
		Name:        rec.Name,
		Vector:      rec.Vector,
		Meta:        rec.Meta,
		IndexedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	return s.store.Set(ctx, embeddingKey(rec.CharacterID), data)
}
