package embed

import "net/http"

// config collects the knobs shared by every embedder constructor.
type config struct {
	model      string
	dim        int
	taskType   TaskType
	baseURL    string
	httpClient *http.Client
}

// Option configures an embedder at construction time.
type Option func(*config)

// WithModel overrides the default model name.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithDimension overrides the output vector length. Models with fixed
// dimensions, like text-embedding-ada-002, ignore it.
func WithDimension(dim int) Option {
	return func(c *config) { c.dim = dim }
}

// WithTaskType sets the embedding task type. Only Gemini models use this;
// the OpenAI API has no equivalent and ignores it.
func WithTaskType(t TaskType) Option {
	return func(c *config) { c.taskType = t }
}

// WithBaseURL points the client at a different API endpoint, for
// OpenAI-compatible providers and for tests.
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithHTTPClient substitutes the transport, http.DefaultClient otherwise.
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) { c.httpClient = client }
}
