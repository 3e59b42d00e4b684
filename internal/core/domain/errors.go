package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Semantic search cannot run without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorUnavailable indicates the vector searcher is not configured.
	ErrVectorUnavailable = errors.New("vector search unavailable")

	// ErrKeywordUnavailable indicates full-text search is not available.
	// The retrieval cascade treats this as a recoverable condition and
	// falls through to fuzzy substring search rather than failing.
	ErrKeywordUnavailable = errors.New("keyword search unavailable")

	// ErrSubstringUnavailable indicates the substring searcher is not
	// configured. This is the last cascade step, so it does propagate.
	ErrSubstringUnavailable = errors.New("substring search unavailable")
)
