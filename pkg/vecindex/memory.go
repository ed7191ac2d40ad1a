package vecindex

import (
	"fmt"
	"sort"
	"sync"
)

// Memory is an in-memory Index implementation using a brute-force cosine
// scan. Every query touches every record, O(n·d).
//
// It is safe for concurrent use.
type Memory struct {
	mu      sync.RWMutex
	records map[int]Record
	dim     int
}

// NewMemory creates a new in-memory embedding index.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[int]Record),
	}
}

func (m *Memory) Upsert(rec Record) error {
	if len(rec.Vector) == 0 {
		return fmt.Errorf("vecindex: record %d has an empty vector", rec.CharacterID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.dim == 0 {
		m.dim = len(rec.Vector)
	} else if len(rec.Vector) != m.dim {
		return fmt.Errorf("%w: record %d has %d dimensions, index has %d",
			ErrDimensionMismatch, rec.CharacterID, len(rec.Vector), m.dim)
	}

	// Copy vector and metadata so callers can't mutate stored state.
	cp := rec
	cp.Vector = make([]float32, len(rec.Vector))
	copy(cp.Vector, rec.Vector)
	if rec.Meta != nil {
		cp.Meta = make(map[string]string, len(rec.Meta))
		for k, v := range rec.Meta {
			cp.Meta[k] = v
		}
	}
	m.records[rec.CharacterID] = cp
	return nil
}

func (m *Memory) Query(vector []float32, topK int) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.records) == 0 {
		return nil, ErrEmptyIndex
	}
	if len(vector) != m.dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			ErrDimensionMismatch, len(vector), m.dim)
	}
	if topK <= 0 {
		return nil, nil
	}

	type scored struct {
		id  int
		sim float64
	}
	results := make([]scored, 0, len(m.records))
	for id, rec := range m.records {
		results = append(results, scored{id: id, sim: Cosine(vector, rec.Vector)})
	}

	// Descending similarity; equal similarities order by ascending id so
	// results are deterministic.
	sort.Slice(results, func(i, j int) bool {
		if results[i].sim != results[j].sim {
			return results[i].sim > results[j].sim
		}
		return results[i].id < results[j].id
	})

	if len(results) > topK {
		results = results[:topK]
	}

	matches := make([]Match, len(results))
	for i, r := range results {
		rec := m.records[r.id]
		matches[i] = Match{
			CharacterID: r.id,
			Name:        rec.Name,
			Similarity:  r.sim,
			Meta:        rec.Meta,
			Rank:        i + 1,
		}
	}
	return matches, nil
}

func (m *Memory) Delete(id int) error {
	m.mu.Lock()
	delete(m.records, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Has(id int) bool {
	m.mu.RLock()
	_, ok := m.records[id]
	m.mu.RUnlock()
	return ok
}

func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

func (m *Memory) Dimension() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dim
}

func (m *Memory) Close() error {
	return nil
}
