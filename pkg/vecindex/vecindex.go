// Package vecindex provides an embedding index over character records:
// cosine-similarity search across dense float32 vectors keyed by character id.
//
// The [Index] interface defines the contract for storage and query.
// The built-in implementation ([NewMemory]) is a brute-force full scan,
// which is the right tool at this scale (tens to low hundreds of records);
// for larger corpora, swap in a client that talks to Milvus, Qdrant, or
// similar.
package vecindex

import (
	"errors"
	"math"
)

// Sentinel errors.
var (
	// ErrDimensionMismatch is returned when a vector's length differs from
	// the index dimensionality. The dimensionality is fixed by the first
	// successful upsert.
	ErrDimensionMismatch = errors.New("vecindex: dimension mismatch")

	// ErrEmptyIndex is returned by Query when the index holds no records.
	ErrEmptyIndex = errors.New("vecindex: empty index")
)

// Record is one indexed character: its embedding vector plus the metadata
// carried into search results. Records are replaced wholesale when the same
// CharacterID is upserted again.
type Record struct {
	CharacterID int
	Name        string
	Vector      []float32
	Meta        map[string]string
}

// Match is a single result from a similarity query.
type Match struct {
	// CharacterID is the id of the matched record.
	CharacterID int

	// Name is the record's display name.
	Name string

	// Similarity is the cosine similarity between the query and the matched
	// vector, in [-1, 1]. Higher values indicate higher similarity.
	Similarity float64

	// Meta is the metadata stored with the record.
	Meta map[string]string

	// Rank is the 1-based position of this match in the result order.
	Rank int
}

// Index is the interface for cosine-similarity search over embedding records.
//
// All implementations must be safe for concurrent use.
type Index interface {
	// Upsert adds or replaces the record with rec.CharacterID. The vector
	// length of the first successful upsert fixes the index dimensionality;
	// later vectors of a different length are rejected with
	// ErrDimensionMismatch before any mutation.
	Upsert(rec Record) error

	// Query returns the topK records most similar to the query vector,
	// ordered by descending similarity with ties broken by ascending
	// CharacterID. A topK larger than Len is clamped; topK <= 0 returns nil.
	// Returns ErrEmptyIndex when no records are stored and
	// ErrDimensionMismatch when the query vector has the wrong length.
	Query(vector []float32, topK int) ([]Match, error)

	// Delete removes a record by id. No error if the id does not exist.
	// The index dimensionality stays fixed even when the last record is
	// removed.
	Delete(id int) error

	// Has reports whether a record with the given id is stored.
	Has(id int) bool

	// Len returns the number of stored records.
	Len() int

	// Dimension returns the index dimensionality, or 0 before the first
	// upsert.
	Dimension() int

	// Close releases resources held by the index.
	Close() error
}

// Cosine computes the cosine similarity between two vectors: the dot product
// divided by the product of the norms, in [-1, 1]. Returns 0 if either vector
// has zero norm (a zero vector has no direction) or the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		ai, bi := float64(a[i]), float64(b[i])
		dot += ai * bi
		normA += ai * ai
		normB += bi * bi
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// Clamp to [-1, 1] to handle floating point errors.
	if similarity > 1 {
		similarity = 1
	}
	if similarity < -1 {
		similarity = -1
	}
	return similarity
}
