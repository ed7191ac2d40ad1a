// Package embed turns text into dense vectors via remote embedding APIs.
//
// Two providers are implemented: [Gemini] (text-embedding-004,
// gemini-embedding-001) and [OpenAI] (text-embedding-3-small,
// text-embedding-3-large, plus any compatible endpoint through WithBaseURL).
//
//	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: "..."})
//	e := embed.NewGemini(client, embed.WithTaskType(embed.TaskRetrievalDocument))
//	vec, err := e.Embed(ctx, "wubba lubba dub dub")
//
// Neither provider retries failed calls. Rate limits surface as
// [ErrRateLimited] so the caller decides how to back off.
package embed

import (
	"context"
	"errors"
)

// Embedder is the provider-independent embedding interface.
type Embedder interface {
	// Embed embeds one text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch embeds texts in order. Implementations split oversized
	// batches across API calls transparently.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension reports the vector length this embedder produces.
	Dimension() int
}

var (
	// ErrEmptyInput flags an empty text or an empty batch.
	ErrEmptyInput = errors.New("embed: empty input")

	// ErrRateLimited flags quota rejections. Retry after backing off.
	ErrRateLimited = errors.New("embed: rate limited")

	// ErrUnavailable flags calls the provider cannot serve at all: bad
	// credentials, server errors, or the service being down.
	ErrUnavailable = errors.New("embed: provider unavailable")
)

// TaskType hints the provider at the downstream use of the vectors.
// Retrieval quality improves when documents and queries are embedded with
// matching task types. Providers without this knob ignore it.
type TaskType string

const (
	// TaskRetrievalDocument marks texts being indexed for later retrieval.
	TaskRetrievalDocument TaskType = "RETRIEVAL_DOCUMENT"

	// TaskRetrievalQuery marks search queries against an indexed corpus.
	TaskRetrievalQuery TaskType = "RETRIEVAL_QUERY"

	// TaskSemanticSimilarity marks texts compared directly to each other.
	TaskSemanticSimilarity TaskType = "SEMANTIC_SIMILARITY"
)
