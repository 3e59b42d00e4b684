package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

func addChunk(t *testing.T, s *Store, content, source string, embedding []float32) {
	t.Helper()
	require.NoError(t, s.Add(context.Background(), domain.DocumentChunk{
		Content:  content,
		Metadata: domain.ChunkMetadata{Source: source},
	}, embedding))
}

func TestStore_AddAndCount(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	addChunk(t, s, "ratios for toddlers", "EYFS Framework", []float32{1, 0})
	addChunk(t, s, "safeguarding duties", "KCSiE 2025", []float32{0, 1})

	n, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestStore_NearestNeighbours(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	addChunk(t, s, "exact match", "a", []float32{1, 0, 0})
	addChunk(t, s, "close match", "b", []float32{0.9, 0.1, 0})
	addChunk(t, s, "orthogonal", "c", []float32{0, 0, 1})

	results, err := s.NearestNeighbours(ctx, []float32{1, 0, 0}, 10, 0.5)

	require.NoError(t, err)
	require.Len(t, results, 2, "orthogonal vector falls below the threshold")
	assert.Equal(t, "exact match", results[0].Content)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-6)
	assert.Equal(t, "close match", results[1].Content)
	assert.Greater(t, results[0].Similarity, results[1].Similarity)
}

func TestStore_NearestNeighboursLimit(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		addChunk(t, s, "content", "src", []float32{1, 0})
	}

	results, err := s.NearestNeighbours(ctx, []float32{1, 0}, 3, 0.0)

	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestStore_KeywordSearch(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	addChunk(t, s, "Staff ratios apply at all times in the nursery.", "EYFS Framework", []float32{1})
	addChunk(t, s, "Staff must read part one of the guidance.", "KCSiE 2025", []float32{1})

	chunks, err := s.KeywordSearch(ctx, "nursery staff ratios", 10)

	require.NoError(t, err)
	require.Len(t, chunks, 1, "every term must be present")
	assert.Equal(t, "EYFS Framework", chunks[0].Metadata.Source)
}

func TestStore_KeywordSearchShortTermsIgnored(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	addChunk(t, s, "ratio guidance", "src", []float32{1})

	chunks, err := s.KeywordSearch(ctx, "a an of", 10)

	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestStore_SubstringSearch(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	addChunk(t, s, "The Designated Safeguarding Lead must attend training.", "KCSiE 2025", []float32{1})
	addChunk(t, s, "Indoor space requirements per child.", "EYFS Framework", []float32{1})

	chunks, err := s.SubstringSearch(ctx, "designated safeguarding", 10)

	require.NoError(t, err)
	require.Len(t, chunks, 1, "matching is case-insensitive")
	assert.Equal(t, "KCSiE 2025", chunks[0].Metadata.Source)
}

func TestStore_SubstringSearchEmptyPattern(t *testing.T) {
	s := NewStore()

	chunks, err := s.SubstringSearch(context.Background(), "", 10)

	require.NoError(t, err)
	assert.Empty(t, chunks)
}
