package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrItemNotFound signals a missing catalog item.
	ErrItemNotFound = errors.New("item not found")
	// ErrInvalidQuery signals a request that carries neither free text nor structured filters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidFilters signals structured filters that fail validation.
	ErrInvalidFilters = errors.New("invalid filters")
	// ErrBackendUnavailable signals that the catalog backend could not be reached.
	ErrBackendUnavailable = errors.New("catalog backend unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrEmbeddingQuotaExceeded signals that the embedding token budget ran out.
	ErrEmbeddingQuotaExceeded = errors.New("embedding quota exceeded")
	// ErrKeywordSearchNotSupported signals that the backend lacks keyword search.
	ErrKeywordSearchNotSupported = errors.New("keyword search not supported by backend")
)

// AmbiguousSKUError wraps ErrItemNotFound with prefix-match suggestions so the
// caller can offer close SKUs when an exact lookup misses.
type AmbiguousSKUError struct {
	SKU         string
	Suggestions []string
}

func (e *AmbiguousSKUError) Error() string {
	return fmt.Sprintf("%s: %q matches %d similar SKUs", ErrItemNotFound.Error(), e.SKU, len(e.Suggestions))
}

func (e *AmbiguousSKUError) Unwrap() error { return ErrItemNotFound }

// NewAmbiguousSKU creates an ambiguous SKU lookup error.
func NewAmbiguousSKU(sku string, suggestions []string) error {
	return &AmbiguousSKUError{SKU: sku, Suggestions: suggestions}
}
