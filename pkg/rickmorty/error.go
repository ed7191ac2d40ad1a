package rickmorty

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a failed API request.
type Error struct {
	// HTTPStatus is the status code of the failed request.
	HTTPStatus int

	// Message is what the API reported, or the status text when the body
	// carried none.
	Message string

	// URL is the request URL that failed.
	URL string
}

func (e *Error) Error() string {
	return fmt.Sprintf("rickmorty: %s (status=%d, url=%s)", e.Message, e.HTTPStatus, e.URL)
}

// IsNotFound reports whether the requested resource does not exist.
func (e *Error) IsNotFound() bool {
	return e.HTTPStatus == http.StatusNotFound
}

// IsRateLimit reports whether the API rejected the request for rate reasons.
func (e *Error) IsRateLimit() bool {
	return e.HTTPStatus == http.StatusTooManyRequests
}

// IsServerError reports whether the API failed on its side.
func (e *Error) IsServerError() bool {
	return e.HTTPStatus >= 500
}

// Retryable reports whether repeating the request may succeed.
func (e *Error) Retryable() bool {
	return e.IsRateLimit() || e.IsServerError()
}

// AsError unwraps err into an *Error:
//
//	if e, ok := rickmorty.AsError(err); ok && e.IsNotFound() {
//	    // handle the missing resource
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
