// Package textgen provides a text generation interface and remote API
// implementations.
//
// A Generator turns a single prompt into a single reply. Model, system
// instruction, temperature, and token limit are fixed at construction so a
// Generator can be handed to callers as a ready-to-use capability.
//
// # Implementations
//
//   - [Gemini]: Gemini models via google.golang.org/genai
//   - [OpenAI]: OpenAI chat completions
//
// Neither implementation retries failed calls: rate limits surface as
// [ErrRateLimited] so the caller decides how to back off.
package textgen

import (
	"context"
	"errors"
)

// Generator produces a text reply for a prompt.
type Generator interface {
	// Generate returns the model's reply for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Common errors.
var (
	// ErrEmptyPrompt is returned when the prompt is empty or whitespace.
	ErrEmptyPrompt = errors.New("textgen: empty prompt")

	// ErrNoContent is returned when the provider answered without usable
	// text (no candidates, no choices, or empty content).
	ErrNoContent = errors.New("textgen: no content in response")

	// ErrRateLimited is returned when the provider rejects a call for
	// quota/rate reasons. Callers may retry after backing off.
	ErrRateLimited = errors.New("textgen: rate limited")

	// ErrUnavailable is returned when the provider cannot serve the call:
	// bad credentials, server errors, or the service being down.
	ErrUnavailable = errors.New("textgen: provider unavailable")
)
