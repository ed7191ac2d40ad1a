package textgen

import "net/http"

// config collects the knobs shared by every generator constructor.
type config struct {
	model       string
	system      string
	temperature *float32
	maxTokens   int
	baseURL     string
	httpClient  *http.Client
}

// Option configures a generator at construction time.
type Option func(*config)

// WithModel overrides the default generation model.
func WithModel(model string) Option {
	return func(c *config) { c.model = model }
}

// WithSystem sets a system instruction prepended to every call.
func WithSystem(system string) Option {
	return func(c *config) { c.system = system }
}

// WithTemperature sets the sampling temperature. When unset, the provider's
// default applies.
func WithTemperature(t float32) Option {
	return func(c *config) { c.temperature = &t }
}

// WithMaxTokens caps the reply length in tokens. Zero means no explicit cap.
func WithMaxTokens(n int) Option {
	return func(c *config) { c.maxTokens = n }
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
