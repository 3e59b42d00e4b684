package driven

import (
	"context"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

// VectorSearcher provides semantic similarity search over document chunks.
type VectorSearcher interface {
	// NearestNeighbours finds up to k chunks with cosine similarity to the
	// query embedding of at least minSimilarity, ordered by similarity
	// descending. Similarity is derived as 1 - cosine distance; for
	// normalised embeddings the store returns values in [0,1].
	NearestNeighbours(ctx context.Context, embedding []float32, k int, minSimilarity float64) ([]domain.SearchResult, error)
}
