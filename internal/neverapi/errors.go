package neverapi

import (
	"errors"
	"fmt"
)

// Common errors returned by the taxonomy client.
var (
	// ErrNotFound indicates a name or id did not resolve to any record.
	ErrNotFound = errors.New("taxon not found")

	// ErrIncompleteEntry indicates a response entry is missing a required field.
	ErrIncompleteEntry = errors.New("incomplete taxonomy entry")

	// ErrEmptyResult indicates a request expected at least one entry and got zero.
	ErrEmptyResult = errors.New("empty result from taxonomy API")

	// ErrRateLimited indicates the rate limit was still exceeded after retrying.
	ErrRateLimited = errors.New("taxonomy API rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error communicating with taxonomy API")

	// ErrInvalidResponse indicates an unexpected API response shape.
	ErrInvalidResponse = errors.New("invalid response from taxonomy API")
)

// APIError represents a non-2xx response from the taxonomy API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("taxonomy API error (status %d, endpoint %s): %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("taxonomy API error (status %d, endpoint %s)", e.StatusCode, e.Endpoint)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrEmptyResult) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
