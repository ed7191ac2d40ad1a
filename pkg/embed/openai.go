package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI embedding models.
const (
	// ModelOpenAI3Small is text-embedding-3-small, 1536 dims unless truncated.
	ModelOpenAI3Small = "text-embedding-3-small"

	// ModelOpenAI3Large is text-embedding-3-large, 3072 dims unless truncated.
	ModelOpenAI3Large = "text-embedding-3-large"

	// ModelOpenAIAda002 is the legacy ada model, fixed at 1536 dims.
	ModelOpenAIAda002 = "text-embedding-ada-002"
)

const (
	openAIMaxBatch     = 2048 // inputs per request, API limit
	openAIDefaultDim   = 1536
	openAIDefaultModel = ModelOpenAI3Small
)

// OpenAI implements [Embedder] against the OpenAI embeddings endpoint.
// Any OpenAI-compatible provider works through WithBaseURL.
type OpenAI struct {
	client *openai.Client
	model  string
	dim    int
}

var _ Embedder = (*OpenAI)(nil)

// NewOpenAI builds an embedder for the given API key. Without options it
// uses text-embedding-3-small at 1536 dimensions.
func NewOpenAI(apiKey string, opts ...Option) *OpenAI {
	cfg := config{
		model:      openAIDefaultModel,
		dim:        openAIDefaultDim,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(&cfg)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
		// Rate limits are the caller's to handle; see ErrRateLimited.
		option.WithMaxRetries(0),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	client := openai.NewClient(clientOpts...)

	return &OpenAI{client: &client, model: cfg.model, dim: cfg.dim}
}

// Embed embeds one text.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, ErrEmptyInput
	}
	vecs, err := o.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in order. Inputs beyond the per-request limit of
// 2048 are sent across multiple requests.
func (o *OpenAI) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([][]float32, 0, len(texts))
	for chunk := range slices.Chunk(texts, openAIMaxBatch) {
		vecs, err := o.embedChunk(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("embed chunk at %d: %w", len(out), err)
		}
		out = append(out, vecs...)
	}
	return out, nil
}

// Dimension reports the vector length this embedder produces.
func (o *OpenAI) Dimension() int {
	return o.dim
}

// Model reports the model identifier in use.
func (o *OpenAI) Model() string {
	return o.model
}

func (o *OpenAI) embedChunk(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := o.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model:          o.model,
		Input:          openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Dimensions:     openai.Int(int64(o.dim)),
		EncodingFormat: openai.EmbeddingNewParamsEncodingFormatFloat,
	})
	if err != nil {
		return nil, classifyOpenAIErr(err)
	}

	// Items may arrive in any order; place each by its index.
	out := make([][]float32, len(texts))
	filled := 0
	for _, item := range resp.Data {
		i := int(item.Index)
		if i < 0 || i >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range for %d inputs", i, len(texts))
		}
		if out[i] == nil {
			filled++
		}
		out[i] = toFloat32(item.Embedding)
	}
	if filled != len(out) {
		return nil, fmt.Errorf("embedding response covered %d of %d inputs", filled, len(texts))
	}
	return out, nil
}

// classifyOpenAIErr maps openai-go API failures onto the package sentinels.
func classifyOpenAIErr(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case apiErr.StatusCode == http.StatusUnauthorized ||
			apiErr.StatusCode == http.StatusForbidden ||
			apiErr.StatusCode >= http.StatusInternalServerError:
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return err
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
