// Package memory provides an in-memory document store, used in tests and
// for small corpora where persistence is not needed.
package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/earlyed-hq/asked/internal/core/domain"
	"github.com/earlyed-hq/asked/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.VectorSearcher    = (*Store)(nil)
	_ driven.KeywordSearcher   = (*Store)(nil)
	_ driven.SubstringSearcher = (*Store)(nil)
	_ driven.ChunkWriter       = (*Store)(nil)
)

type entry struct {
	chunk     domain.DocumentChunk
	embedding []float32
}

// Store holds chunks and their embeddings in memory. Safe for concurrent
// use.
type Store struct {
	mu      sync.RWMutex
	entries []entry
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// Add stores a chunk together with its embedding.
func (s *Store) Add(_ context.Context, chunk domain.DocumentChunk, embedding []float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry{chunk: chunk, embedding: embedding})
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// NearestNeighbours finds up to k chunks with cosine similarity of at
// least minSimilarity, ordered by similarity descending.
func (s *Store) NearestNeighbours(
	_ context.Context, embedding []float32, k int, minSimilarity float64,
) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var results []domain.SearchResult
	for _, e := range s.entries {
		sim := cosineSimilarity(embedding, e.embedding)
		if sim >= minSimilarity {
			results = append(results, domain.SearchResult{DocumentChunk: e.chunk, Similarity: sim})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// KeywordSearch returns up to k chunks containing every term of the
// query. Terms shorter than three characters are ignored.
func (s *Store) KeywordSearch(_ context.Context, query string, k int) ([]domain.DocumentChunk, error) {
	terms := searchTerms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var chunks []domain.DocumentChunk
	for _, e := range s.entries {
		content := strings.ToLower(e.chunk.Content)
		if containsAll(content, terms) {
			chunks = append(chunks, e.chunk)
			if len(chunks) == k {
				break
			}
		}
	}
	return chunks, nil
}

// SubstringSearch returns up to k chunks whose content contains the
// pattern, case-insensitively.
func (s *Store) SubstringSearch(_ context.Context, pattern string, k int) ([]domain.DocumentChunk, error) {
	p := strings.ToLower(pattern)
	if p == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var chunks []domain.DocumentChunk
	for _, e := range s.entries {
		if strings.Contains(strings.ToLower(e.chunk.Content), p) {
			chunks = append(chunks, e.chunk)
			if len(chunks) == k {
				break
			}
		}
	}
	return chunks, nil
}

func searchTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) >= 3 {
			terms = append(terms, w)
		}
	}
	return terms
}

func containsAll(content string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(content, t) {
			return false
		}
	}
	return true
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
