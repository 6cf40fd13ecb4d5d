package client

import (
	"errors"
	"fmt"
)

// Sentinel errors for server-side failure classes. Check with errors.Is; the
// full response detail stays available via errors.As on *APIError.
var (
	ErrItemNotFound   = errors.New("item not found")
	ErrInvalidQuery   = errors.New("invalid query")
	ErrInvalidFilters = errors.New("invalid filters")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrUnavailable    = errors.New("service unavailable")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode  int
	Code        string
	Message     string
	Suggestions []string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hardfind: %s (%s, HTTP %d)", e.Message, e.Code, e.StatusCode)
}

// Unwrap maps the server error code onto the matching sentinel.
func (e *APIError) Unwrap() error {
	switch e.Code {
	case "item_not_found":
		return ErrItemNotFound
	case "invalid_query":
		return ErrInvalidQuery
	case "invalid_filters":
		return ErrInvalidFilters
	case "unauthorized":
		return ErrUnauthorized
	case "backend_unavailable", "embedding_provider_error", "keyword_search_not_supported":
		return ErrUnavailable
	default:
		return nil
	}
}

type errorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}
