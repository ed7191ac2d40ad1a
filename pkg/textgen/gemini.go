package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/genai"
)

// Gemini generation models.
const (
	// ModelGeminiFlash is the fast, low-cost Gemini model.
	ModelGeminiFlash = "gemini-2.5-flash"

	// ModelGeminiPro is the strongest Gemini model.
	ModelGeminiPro = "gemini-2.5-pro"
)

const geminiDefaultModel = ModelGeminiFlash

// Gemini implements [Generator] using the Gemini API.
type Gemini struct {
	client      *genai.Client
	model       string
	system      string
	temperature *float32
	maxTokens   int
}

var _ Generator = (*Gemini)(nil)

// NewGemini creates a Gemini generator on an existing genai client.
// The client's lifecycle is the caller's.
func NewGemini(client *genai.Client, opts ...Option) *Gemini {
	cfg := config{model: geminiDefaultModel}
	for _, o := range opts {
		o(&cfg)
	}
	return &Gemini{
		client:      client,
		model:       cfg.model,
		system:      cfg.system,
		temperature: cfg.temperature,
		maxTokens:   cfg.maxTokens,
	}
}

// Model returns the Gemini model identifier.
func (g *Gemini) Model() string {
	return g.model
}

// Generate returns the model's reply for the given prompt.
//
// A reply truncated by the token cap is returned as-is; other abnormal
// finish reasons are errors.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	contents := []*genai.Content{{
		Parts: []*genai.Part{genai.NewPartFromText(prompt)},
		Role:  "user",
	}}

	cfg := &genai.GenerateContentConfig{}
	if g.system != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{genai.NewPartFromText(g.system)},
		}
	}
	if g.maxTokens > 0 {
		cfg.MaxOutputTokens = int32(g.maxTokens)
	}
	if g.temperature != nil {
		cfg.Temperature = g.temperature
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", classifyGeminiErr(err)
	}
	if len(resp.Candidates) == 0 {
		return "", ErrNoContent
	}

	cand := resp.Candidates[0]
	switch cand.FinishReason {
	case genai.FinishReasonStop, genai.FinishReasonMaxTokens, "":
	default:
		return "", fmt.Errorf("textgen: unexpected finish reason %q", cand.FinishReason)
	}
	if cand.Content == nil {
		return "", ErrNoContent
	}

	var sb strings.Builder
	for _, p := range cand.Content.Parts {
		if p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrNoContent
	}
	return sb.String(), nil
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
