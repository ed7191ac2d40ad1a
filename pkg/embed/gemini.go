package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"
)

// Gemini embedding models.
const (
	// ModelGeminiEmbedding004 is the text-embedding-004 model (768 dims).
	ModelGeminiEmbedding004 = "text-embedding-004"

	// ModelGeminiEmbedding001 is the gemini-embedding-001 model
	// (3072 dims by default, truncatable via WithDimension).
	ModelGeminiEmbedding001 = "gemini-embedding-001"
)

const (
	geminiMaxBatch     = 100 // API limit per embedContent request
	geminiDefaultDim   = 768
	geminiDefaultModel = ModelGeminiEmbedding004
)

// Gemini implements [Embedder] using the Gemini embedding API.
//
// For retrieval workloads, embed the corpus with WithTaskType(TaskRetrievalDocument)
// and queries with a second embedder using TaskRetrievalQuery. Both can share
// one genai client.
type Gemini struct {
	client   *genai.Client
	model    string
	dim      int
	taskType TaskType
}

var _ Embedder = (*Gemini)(nil)

// NewGemini creates a Gemini embedder on an existing genai client.
// The client's lifecycle is the caller's.
func NewGemini(client *genai.Client, opts ...Option) *Gemini {
	cfg := config{
		model: geminiDefaultModel,
		dim:   geminiDefaultDim,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &Gemini{
		client:   client,
		model:    cfg.model,
		dim:      cfg.dim,
		taskType: cfg.taskType,
	}
}

// Embed embeds one text.
func (g *Gemini) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}
	vecs, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in order. Inputs beyond the per-request limit of
// 100 are sent across multiple requests.
func (g *Gemini) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([][]float32, 0, len(texts))
	for chunk := range slices.Chunk(texts, geminiMaxBatch) {
		vecs, err := g.embedChunk(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed chunk at %d: %w", len(out), err)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// Dimension reports the vector length this embedder produces. Output vectors
// are truncated to this length server-side.
func (g *Gemini) Dimension() int {
	return g.dim
}

// Model reports the model identifier in use.
func (g *Gemini) Model() string {
	return g.model
}

// TaskType reports the configured task type, or "" if unset.
func (g *Gemini) TaskType() TaskType {
	return g.taskType
}

func (g *Gemini) embedChunk(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(t)},
			Role:  "user",
		}
	}

	cfg := &genai.EmbedContentConfig{}
	if g.taskType != "" {
		cfg.TaskType = string(g.taskType)
	}
	if g.dim > 0 {
		d := int32(g.dim)
		cfg.OutputDimensionality = &d
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, classifyGeminiErr(err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	out := make([][]float32, len(texts))
	for i, emb := range resp.Embeddings {
		if emb == nil || len(emb.Values) == 0 {
			return nil, fmt.Errorf("empty embedding at index %d", i)
		}
		out[i] = emb.Values
	}
	return out, nil
}

// classifyGeminiErr maps genai transport failures onto the package sentinels
// so callers can branch without knowing the SDK's error types.
func classifyGeminiErr(err error) error {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		switch code := apiErr.HTTPCode(); {
		case code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case code == http.StatusUnauthorized || code == http.StatusForbidden || code >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return err
}
