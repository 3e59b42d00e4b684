package driven

import (
	"context"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

// ChunkWriter persists chunks produced by the offline ingestion pipeline.
// Runtime retrieval never writes; this port exists for the loader only.
type ChunkWriter interface {
	// Add stores a chunk together with its embedding.
	Add(ctx context.Context, chunk domain.DocumentChunk, embedding []float32) error

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)
}
