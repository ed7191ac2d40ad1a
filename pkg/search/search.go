// Package search provides semantic character search over embedding vectors.
//
// A [Service] ties together a character source, an [embed.Embedder], and a
// [vecindex.Index]: indexing embeds each character's textual profile and
// stores the vector, searching embeds the query and ranks characters by
// cosine similarity. With a [kv.Store] attached, indexed embeddings survive
// restarts.
//
//	svc, err := search.New(ctx, search.Config{
//	    Characters: client.Characters,
//	    Embedder:   embedder,
//	})
//	res, err := svc.IndexCharacters(ctx, nil) // first 50 characters
//	hits, err := svc.Search(ctx, "genius scientist with a drinking problem", 5)
package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/schwiftylabs/portal/pkg/embed"
	"github.com/schwiftylabs/portal/pkg/kv"
	"github.com/schwiftylabs/portal/pkg/rickmorty"
	"github.com/schwiftylabs/portal/pkg/vecindex"
)

const (
	// DefaultTopK is the result count when Search is called with topK <= 0.
	DefaultTopK = 5

	// DefaultIndexCount is how many characters IndexCharacters covers when
	// called with no explicit ids (ids 1 through DefaultIndexCount).
	DefaultIndexCount = 50
)

// ErrIndexNotReady is returned by Search before any character has been
// indexed.
var ErrIndexNotReady = errors.New("search: no characters indexed, index characters first")

// CharacterSource supplies character records for indexing and result
// enrichment. *rickmorty.CharacterService satisfies it.
type CharacterSource interface {
	Get(ctx context.Context, id int) (*rickmorty.Character, error)
}

// Config configures a new [Service].
type Config struct {
	// Characters supplies the character records. Required.
	Characters CharacterSource

	// Embedder converts character profiles to vectors. Required.
	Embedder embed.Embedder

	// QueryEmbedder converts search queries to vectors. Optional: defaults
	// to Embedder. Splitting the two lets document and query embeddings
	// use different task types.
	QueryEmbedder embed.Embedder

	// Index is the vector index. Optional: defaults to an in-memory index.
	Index vecindex.Index

	// Store persists indexed embeddings so the index survives restarts.
	// Optional: nil disables persistence.
	Store kv.Store

	// Workers bounds how many characters are indexed concurrently.
	// Optional: values below 2 index sequentially.
	Workers int

	// Logger is used for per-item indexing failures. Optional: defaults
	// to slog.Default().
	Logger *slog.Logger
}

// Service is the semantic search service.
type Service struct {
	chars    CharacterSource
	embedder embed.Embedder
	query    embed.Embedder
	index    vecindex.Index
	store    kv.Store
	workers  int
	log      *slog.Logger
}

// Result is one search hit, most similar first.
type Result struct {
	// CharacterID and Name identify the matched character.
	CharacterID int    `json:"character_id"`
	Name        string `json:"character_name"`

	// Similarity is the cosine similarity between query and profile,
	// in [-1, 1].
	Similarity float64 `json:"similarity"`

	// Rank is the 1-based position in the result list.
	Rank int `json:"rank"`

	// Meta carries the indexed metadata (species, status, gender).
	Meta map[string]string `json:"metadata,omitempty"`

	// Character is the full character record. Nil when the record could
	// not be fetched; the ranking is unaffected.
	Character *rickmorty.Character `json:"character,omitempty"`
}

// New creates a Service. When cfg.Store is set, previously persisted
// embeddings are loaded into the index before New returns, so a restarted
// service is searchable without re-indexing.
func New(ctx context.Context, cfg Config) (*Service, error) {
	if cfg.Characters == nil {
		return nil, errors.New("search: Config.Characters is required")
	}
	if cfg.Embedder == nil {
		return nil, errors.New("search: Config.Embedder is required")
	}

	s := &Service{
		chars:    cfg.Characters,
		embedder: cfg.Embedder,
		query:    cfg.QueryEmbedder,
		index:    cfg.Index,
		store:    cfg.Store,
		workers:  cfg.Workers,
		log:      cfg.Logger,
	}
	if s.query == nil {
		s.query = cfg.Embedder
	}
	if s.index == nil {
		s.index = vecindex.NewMemory()
	}
	if s.workers < 1 {
		s.workers = 1
	}
	if s.log == nil {
		s.log = slog.Default()
	}

	if s.store != nil {
		if err := s.warmLoad(ctx); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Search returns the topK characters most similar to the natural-language
// query. topK <= 0 defaults to [DefaultTopK]. Returns [ErrIndexNotReady]
// when nothing has been indexed yet.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]Result, error) {
	if s.index.Len() == 0 {
		return nil, ErrIndexNotReady
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vec, err := s.query.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("search: embed query: %w", err)
	}

	matches, err := s.index.Query(vec, topK)
	if err != nil {
		return nil, fmt.Errorf("search: query index: %w", err)
	}

	results := make([]Result, len(matches))
	for i, m := range matches {
		r := Result{
			CharacterID: m.CharacterID,
			Name:        m.Name,
			Similarity:  m.Similarity,
			Rank:        m.Rank,
			Meta:        m.Meta,
		}
		char, err := s.chars.Get(ctx, m.CharacterID)
		if err != nil {
			s.log.Warn("search result enrichment failed",
				"character_id", m.CharacterID, "error", err)
		} else {
			r.Character = char
		}
		results[i] = r
	}
	return results, nil
}

// IndexedCount returns how many characters are currently indexed.
func (s *Service) IndexedCount() int {
	return s.index.Len()
}

// Indexed reports whether the character is currently indexed.
func (s *Service) Indexed(id int) bool {
	return s.index.Has(id)
}

// Close releases the underlying vector index.
func (s *Service) Close() error {
	return s.index.Close()
}

// storedRecord is the persisted form of one indexed character.
type storedRecord struct {
	CharacterID int               `msgpack:"character_id"`
	Name        string            `msgpack:"name"`
	Vector      []float32         `msgpack:"vector"`
	Meta        map[string]string `msgpack:"meta,omitempty"`
	IndexedAt   time.Time         `msgpack:"indexed_at"`
}

// warmLoad restores persisted embeddings into the vector index. Malformed
// entries are skipped; upsert rejections (dimension drift between runs)
// are logged and skipped.
func (s *Service) warmLoad(ctx context.Context) error {
	loaded := 0
	for entry, err := range s.store.List(ctx, embeddingPrefix) {
		if err != nil {
			return fmt.Errorf("search: load persisted embeddings: %w", err)
		}
		var rec storedRecord
		if err := msgpack.Unmarshal(entry.Value, &rec); err != nil {
			continue // skip malformed entries
		}
		err := s.index.Upsert(vecindex.Record{
			CharacterID: rec.CharacterID,
			Name:        rec.Name,
			Vector:      rec.Vector,
			Meta:        rec.Meta,
		})
		if err != nil {
			s.log.Warn("persisted embedding rejected",
				"character_id", rec.CharacterID, "error", err)
			continue
		}
		loaded++
	}
	if loaded > 0 {
		s.log.Info("restored persisted embeddings", "count", loaded)
	}
	return nil
}
