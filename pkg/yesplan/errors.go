package yesplan

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey is returned at client construction when no API
	// key is configured. Requests are never attempted without one.
	ErrMissingAPIKey = errors.New("yesplan: API key is not configured")

	// ErrUnauthorized maps upstream 401/403 responses.
	ErrUnauthorized = errors.New("yesplan: request not authorized")

	// ErrRateLimited maps an upstream 429 response.
	ErrRateLimited = errors.New("yesplan: upstream rate limit hit")

	// ErrRateLimitExceeded is raised by the local endpoint guard when
	// the same endpoint shape is called too many times in a row.
	ErrRateLimitExceeded = errors.New("yesplan: too many consecutive calls to the same endpoint")

	// ErrNotFound maps an upstream 404 response.
	ErrNotFound = errors.New("yesplan: not found")
)

// APIError carries any other non-2xx upstream response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yesplan: API returned status %d: %s", e.StatusCode, e.Body)
}
