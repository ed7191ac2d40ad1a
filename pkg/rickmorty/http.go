package rickmorty

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/schwiftylabs/portal/pkg/cache"
)

// httpClient is the transport layer under both services: caching, retries,
// and error mapping live here.
type httpClient struct {
	client     *http.Client
	baseURL    string
	maxRetries int
	cache      *cache.Cache
	log        *slog.Logger
}

func newHTTPClient(cfg *clientConfig) *httpClient {
	return &httpClient{
		client:     cfg.httpClient,
		baseURL:    cfg.baseURL,
		maxRetries: cfg.maxRetries,
		cache:      cfg.cache,
		log:        cfg.log,
	}
}

// get fetches path (plus optional query) and decodes the JSON response into
// result. When cacheable and a cache is attached, the raw body is served
// from and written to the cache, keyed by path and sorted query.
func (h *httpClient) get(ctx context.Context, path string, query url.Values, cacheable bool, result any) error {
	u := path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if cacheable && h.cache != nil {
		if body, err := h.cache.Get(ctx, u); err == nil {
			if err := json.Unmarshal(body, result); err == nil {
				return nil
			}
			// Undecodable entry: drop it and refetch.
			_ = h.cache.Delete(ctx, u)
		}
	}

	body, err := h.fetch(ctx, u)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("rickmorty: decode %s: %w", u, err)
	}

	if cacheable && h.cache != nil {
		if err := h.cache.Set(ctx, u, body); err != nil {
			h.log.Warn("response cache write failed", "key", u, "error", err)
		}
	}
	return nil
}

// fetch performs a GET, retrying transient failures with exponential
// backoff (1s, 2s, 4s, ...).
func (h *httpClient) fetch(ctx context.Context, u string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(1<<(attempt-1)) * time.Second):
			}
		}

		body, err := h.doGet(ctx, u)
		if err == nil {
			return body, nil
		}
		lastErr = err

		// API errors say whether a retry can help; network errors always
		// get retried.
		if apiErr, ok := AsError(err); ok && !apiErr.Retryable() {
			return nil, err
		}
	}
	return nil, lastErr
}

// doGet performs a single HTTP GET request.
func (h *httpClient) doGet(ctx context.Context, u string) ([]byte, error) {
	full := h.baseURL + u

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "portal-rickmorty-go/1.0")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp.StatusCode, full, body)
	}
	return body, nil
}

// parseError builds an *Error from a non-200 response. The upstream API
// reports failures as {"error": "..."}.
func parseError(status int, url string, body []byte) *Error {
	e := &Error{HTTPStatus: status, URL: url}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		e.Message = payload.Error
	} else {
		e.Message = http.StatusText(status)
	}
	return e
}
