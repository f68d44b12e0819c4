package pubmed

import (
	"errors"
	"fmt"
)

// Common errors returned by the PubMed client.
var (
	// ErrEmptyQuery indicates a search was attempted with no query.
	ErrEmptyQuery = errors.New("empty PubMed query")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with PubMed")

	// ErrInvalidResponse indicates an unexpected E-utilities payload.
	ErrInvalidResponse = errors.New("invalid response from PubMed")
)

// APIError represents a non-success response from E-utilities or the public
// record pages.
type APIError struct {
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("PubMed API error (status %d): %s", e.StatusCode, e.URL)
}

// IsRateLimited reports whether the error is an HTTP 429 from the service.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 429
}
