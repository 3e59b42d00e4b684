package driven

import (
	"context"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

// KeywordSearcher provides full-text search over document chunks.
//
// Implementations must signal unavailability distinctly by returning
// domain.ErrKeywordUnavailable so the retrieval cascade can fall through
// to substring search rather than failing the whole request.
type KeywordSearcher interface {
	// KeywordSearch returns up to k chunks matching the query terms.
	KeywordSearch(ctx context.Context, query string, k int) ([]domain.DocumentChunk, error)
}

// SubstringSearcher provides case-insensitive substring matching over
// document chunks. This is the final fallback in the retrieval cascade.
type SubstringSearcher interface {
	// SubstringSearch returns up to k chunks whose content contains the
	// pattern, case-insensitively.
	SubstringSearch(ctx context.Context, pattern string, k int) ([]domain.DocumentChunk, error)
}
