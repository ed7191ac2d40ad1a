// Package rickmorty provides a client for the public Rick and Morty REST API
// (https://rickandmortyapi.com).
//
// The API is read-only and unauthenticated. The client retries transient
// failures with exponential backoff and can serve repeated lookups from a
// [cache.Cache]:
//
//	client := rickmorty.NewClient(rickmorty.WithCache(c))
//	char, err := client.Characters.Get(ctx, 1)
//	locs, err := client.Locations.All(ctx)
package rickmorty

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/schwiftylabs/portal/pkg/cache"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://rickandmortyapi.com/api"

	// DefaultTimeout bounds each HTTP request.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries bounds retry attempts for transient failures.
	DefaultMaxRetries = 3
)

// maxBatchIDs caps how many ids go into a single multi-id request.
const maxBatchIDs = 100

// Client is the Rick and Morty API client.
type Client struct {
	// Characters provides character lookup operations.
	Characters *CharacterService

	// Locations provides location lookup operations.
	Locations *LocationService

	config *clientConfig
	http   *httpClient
}

type clientConfig struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	maxRetries int
	cache      *cache.Cache
	log        *slog.Logger
}

// Option configures the client at construction time.
type Option func(*clientConfig)

// WithBaseURL points the client at a different API root, mostly for tests.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) { c.baseURL = url }
}

// WithHTTPClient substitutes the transport. Overrides WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) { c.httpClient = client }
}

// WithTimeout bounds each HTTP request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) { c.timeout = timeout }
}

// WithRetry caps how often a transient failure is retried. Zero disables
// retries.
func WithRetry(maxRetries int) Option {
	return func(c *clientConfig) { c.maxRetries = maxRetries }
}

// WithCache attaches a response cache. Successful GET responses are stored
// and served from it until they expire. Name search always goes upstream.
func WithCache(cache *cache.Cache) Option {
	return func(c *clientConfig) { c.cache = cache }
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *clientConfig) { c.log = log }
}

// NewClient builds a client for the public API. Options override the
// defaults above.
func NewClient(opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL:    DefaultBaseURL,
		timeout:    DefaultTimeout,
		maxRetries: DefaultMaxRetries,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: cfg.timeout}
	}

	c := &Client{
		config: cfg,
		http:   newHTTPClient(cfg),
	}
	c.Characters = newCharacterService(c)
	c.Locations = newLocationService(c)
	return c
}

// BaseURL reports the API root in use.
func (c *Client) BaseURL() string {
	return c.config.baseURL
}
