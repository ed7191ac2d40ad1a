package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/schwiftylabs/portal/pkg/embed"
	"github.com/schwiftylabs/portal/pkg/eval"
	"github.com/schwiftylabs/portal/pkg/notes"
	"github.com/schwiftylabs/portal/pkg/rickmorty"
	"github.com/schwiftylabs/portal/pkg/search"
	"github.com/schwiftylabs/portal/pkg/textgen"
)

func errConfig(field string) error {
	return fmt.Errorf("httpapi: config field %s is required", field)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// validationError is a client mistake. It maps to 400 with its message.
type validationError struct {
	msg string
}

func (e *validationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &validationError{msg: fmt.Sprintf(format, args...)}
}

// decodeJSON decodes the request body into dst. A malformed body is a
// validation error, not a server error.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &validationError{msg: "Invalid JSON body"}
	}
	return nil
}

// pathInt parses the named path segment as a positive integer.
func pathInt(r *http.Request, name, label string) (int, error) {
	n, err := strconv.Atoi(r.PathValue(name))
	if err != nil || n < 1 {
		return 0, validationf("Invalid %s", label)
	}
	return n, nil
}

// fail maps err to an HTTP status and writes the error envelope.
//
// Mapping: validation and "index characters first" are the client's fault
// (400), missing resources are 404, provider rate limits are 429, upstream
// API failures and unusable judge replies are 502, a missing or down AI
// provider is 503, everything else is 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr     *validationError
		apiErr   *rickmorty.Error
		scoreErr *eval.ScoreParseError
		urlErr   *url.Error
	)

	status := http.StatusInternalServerError
	msg := "An unexpected error occurred"

	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		msg = verr.msg
	case errors.Is(err, search.ErrIndexNotReady):
		status = http.StatusBadRequest
		msg = "No character embeddings found. Please index characters first."
	case errors.Is(err, notes.ErrNotFound):
		status = http.StatusNotFound
		msg = "Note not found"
	case errors.As(err, &apiErr):
		switch {
		case apiErr.IsNotFound():
			status = http.StatusNotFound
			msg = apiErr.Message
			if msg == "" {
				msg = "Resource not found"
			}
		case apiErr.IsRateLimit():
			status = http.StatusTooManyRequests
			msg = "Rate limited by the Rick and Morty API. Try again shortly."
		default:
			status = http.StatusBadGateway
			msg = "External API request failed"
		}
	case errors.Is(err, textgen.ErrRateLimited) || errors.Is(err, embed.ErrRateLimited):
		status = http.StatusTooManyRequests
		msg = "Rate limited by the AI provider. Try again shortly."
	case errors.As(err, &scoreErr):
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success":      false,
			"error":        "Judge reply carried no score",
			"raw_response": scoreErr.Raw,
		})
		return
	case errors.Is(err, textgen.ErrUnavailable) || errors.Is(err, embed.ErrUnavailable):
		status = http.StatusServiceUnavailable
		msg = "AI provider unavailable. Try again shortly."
	case errors.As(err, &urlErr):
		status = http.StatusBadGateway
		msg = "External API request failed"
	}

	if status >= 500 {
		s.log.Error("request failed",
			"error", err,
			"path", r.URL.Path,
			"status", status,
			"request_id", RequestIDFrom(r.Context()),
		)
	}
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}

// failAIDisabled answers routes whose backing AI service was never built.
func (s *Server) failAIDisabled(w http.ResponseWriter) {
	writeJSON(w, http.StatusServiceUnavailable, map[string]any{
		"success": false,
		"error":   "AI provider not configured. Set GEMINI_API_KEY or OPENAI_API_KEY in the environment.",
	})
}
