package textgen

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAI generation models.
const (
	// ModelGPT4oMini is the fast, low-cost GPT-4o variant.
	ModelGPT4oMini = "gpt-4o-mini"

	// ModelGPT4o is the full GPT-4o model.
	ModelGPT4o = "gpt-4o"
)

const openAIDefaultModel = ModelGPT4oMini

// OpenAI implements [Generator] using the OpenAI chat completions API.
//
// This can also be used with any OpenAI-compatible provider by setting
// WithBaseURL.
type OpenAI struct {
	client      *openai.Client
	model       string
	system      string
	temperature *float32
	maxTokens   int
}

var _ Generator = (*OpenAI)(nil)

// NewOpenAI creates an OpenAI generator. An API key from
// https://platform.openai.com/api-keys is required.
func NewOpenAI(apiKey string, opts ...Option) *OpenAI {
	cfg := config{
		model:      openAIDefaultModel,
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

	return &OpenAI{
		client:      &client,
		model:       cfg.model,
		system:      cfg.system,
		temperature: cfg.temperature,
		maxTokens:   cfg.maxTokens,
	}
}

// Model returns the OpenAI model identifier.
func (o *OpenAI) Model() string {
	return o.model
}

// Generate returns the model's reply for the given prompt.
func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}

	var messages []openai.ChatCompletionMessageParamUnion
	if o.system != "" {
		messages = append(messages, openai.SystemMessage(o.system))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:    o.model,
		Messages: messages,
	}
	if o.maxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(o.maxTokens))
	}
	if o.temperature != nil {
		params.Temperature = openai.Float(float64(*o.temperature))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyOpenAIErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoContent
	}
	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", ErrNoContent
	}
	return text, nil
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
