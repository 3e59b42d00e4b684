package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlyed-hq/asked/internal/cache"
	"github.com/earlyed-hq/asked/internal/core/domain"
)

// --- Mock implementations with call-count instrumentation ---

// mockEmbedder implements driven.EmbeddingService for testing.
type mockEmbedder struct {
	embedding []float32
	embedErr  error
	calls     int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	if m.embedding != nil {
		return m.embedding, nil
	}
	return make([]float32, 8), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.calls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, 8)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int     { return 8 }
func (m *mockEmbedder) ModelName() string   { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error        { return nil }

// mockVector implements driven.VectorSearcher. Each call pops the next
// result set from the queue; an exhausted queue yields no results.
type mockVector struct {
	queue      [][]domain.SearchResult
	err        error
	calls      int
	thresholds []float64
}

func (m *mockVector) NearestNeighbours(
	_ context.Context, _ []float32, _ int, minSimilarity float64,
) ([]domain.SearchResult, error) {
	m.calls++
	m.thresholds = append(m.thresholds, minSimilarity)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) == 0 {
		return nil, nil
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	return next, nil
}

// mockKeyword implements driven.KeywordSearcher.
type mockKeyword struct {
	chunks []domain.DocumentChunk
	err    error
	calls  int
}

func (m *mockKeyword) KeywordSearch(_ context.Context, _ string, _ int) ([]domain.DocumentChunk, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.chunks, nil
}

// mockSubstring implements driven.SubstringSearcher, popping result sets
// per call and recording the patterns tried.
type mockSubstring struct {
	queue    [][]domain.DocumentChunk
	err      error
	calls    int
	patterns []string
}

func (m *mockSubstring) SubstringSearch(_ context.Context, pattern string, _ int) ([]domain.DocumentChunk, error) {
	m.calls++
	m.patterns = append(m.patterns, pattern)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.queue) == 0 {
		return nil, nil
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	return next, nil
}

// --- Test helpers ---

func chunk(content, source string) domain.DocumentChunk {
	return domain.DocumentChunk{
		Content:  content,
		Metadata: domain.ChunkMetadata{Source: source},
	}
}

func scored(content, source string, similarity float64) domain.SearchResult {
	return domain.SearchResult{DocumentChunk: chunk(content, source), Similarity: similarity}
}

func newRetrievalFixture() (*RetrievalService, *mockEmbedder, *mockVector, *mockKeyword, *mockSubstring) {
	embedder := &mockEmbedder{}
	vector := &mockVector{}
	keyword := &mockKeyword{}
	substring := &mockSubstring{}
	svc := NewRetrievalService(embedder, vector, keyword, substring,
		cache.NewService(time.Hour), DefaultRetrievalConfig())
	return svc, embedder, vector, keyword, substring
}

func enhancedQuery(processed string, variations ...string) domain.EnhancedQuery {
	return domain.EnhancedQuery{ProcessedQuery: processed, Variations: variations}
}

// --- Tests ---

func TestRetrieval_SemanticFirstHit_ShortCircuitsCascade(t *testing.T) {
	svc, _, vector, keyword, substring := newRetrievalFixture()
	vector.queue = [][]domain.SearchResult{{scored("ratios text", "EYFS Framework", 0.82)}}
	ctx := context.Background()

	results, method, err := svc.Search(ctx, "raw", enhancedQuery("processed"), domain.SettingNursery)

	require.NoError(t, err)
	assert.Equal(t, domain.MethodSemantic, method)
	assert.Len(t, results, 1)
	assert.Equal(t, 1, vector.calls)
	assert.Equal(t, 0, keyword.calls, "later strategies must not run after a hit")
	assert.Equal(t, 0, substring.calls)
}

func TestRetrieval_VariationRetry(t *testing.T) {
	svc, embedder, vector, _, _ := newRetrievalFixture()
	vector.queue = [][]domain.SearchResult{
		nil, // processed query: empty
		{scored("ratio guidance", "EYFS Framework", 0.75)}, // first variation: hit
	}
	ctx := context.Background()

	results, method, err := svc.Search(ctx, "raw",
		enhancedQuery("staff ratios", "adult ratios", "never tried"), domain.SettingNursery)

	require.NoError(t, err)
	assert.Equal(t, domain.MethodSemantic, method)
	assert.Len(t, results, 1)
	assert.Equal(t, 2, vector.calls)
	assert.Equal(t, 2, embedder.calls, "each retried query needs its own embedding")
}

func TestRetrieval_VariationRetryCap(t *testing.T) {
	svc, _, vector, _, substring := newRetrievalFixture()
	substring.queue = [][]domain.DocumentChunk{{chunk("found", "KCSiE 2025")}}
	ctx := context.Background()

	_, _, err := svc.Search(ctx, "raw",
		enhancedQuery("processed", "v1", "v2", "v3", "v4", "v5"), domain.SettingNursery)

	require.NoError(t, err)
	// 1 processed + 3 variation retries (capped) + 1 relaxed retry.
	assert.Equal(t, 5, vector.calls)
}

func TestRetrieval_RelaxedThreshold(t *testing.T) {
	svc, _, vector, _, _ := newRetrievalFixture()
	vector.queue = [][]domain.SearchResult{
		nil, // default threshold: empty
		{scored("loose match", "KCSiE 2025", 0.45)}, // relaxed: hit
	}
	ctx := context.Background()

	results, method, err := svc.Search(ctx, "raw", enhancedQuery("visitor policy"), domain.SettingNursery)

	require.NoError(t, err)
	assert.Equal(t, domain.MethodSemantic, method)
	assert.Len(t, results, 1)
	require.Len(t, vector.thresholds, 2)
	assert.InDelta(t, 0.6, vector.thresholds[0], 1e-9)
	assert.InDelta(t, 0.4, vector.thresholds[1], 1e-9)
}

func TestRetrieval_TopicAdjustedThresholds(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		threshold float64
	}{
		{"eyfs query widens recall", "EYFS Early Years Foundation Stage ratios", 0.5},
		{"safeguarding query widens recall", "safeguarding duties", 0.5},
		{"annex query narrows", "what is in annex c", 0.7},
		{"appendix query narrows", "appendix b checks", 0.7},
		{"plain query uses default", "visitor sign-in policy", 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, vector, _, _ := newRetrievalFixture()
			vector.queue = [][]domain.SearchResult{{scored("text", "src", 0.9)}}

			_, _, err := svc.Search(context.Background(), tt.query, enhancedQuery(tt.query), "")

			require.NoError(t, err)
			require.NotEmpty(t, vector.thresholds)
			assert.InDelta(t, tt.threshold, vector.thresholds[0], 1e-9)
		})
	}
}

func TestRetrieval_KeywordFallback(t *testing.T) {
	svc, _, vector, keyword, substring := newRetrievalFixture()
	keyword.chunks = []domain.DocumentChunk{chunk("keyword hit", "Ofsted Handbook")}
	ctx := context.Background()

	results, method, err := svc.Search(ctx, "raw", enhancedQuery("processed"), "")

	require.NoError(t, err)
	assert.Equal(t, domain.MethodKeyword, method)
	require.Len(t, results, 1)
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9, "keyword matches carry fixed similarity")
	assert.Equal(t, 2, vector.calls, "initial + relaxed semantic passes ran first")
	assert.Equal(t, 0, substring.calls)
}

func TestRetrieval_KeywordErrorFallsThroughToFuzzy(t *testing.T) {
	svc, _, _, keyword, substring := newRetrievalFixture()
	keyword.err = domain.ErrKeywordUnavailable
	substring.queue = [][]domain.DocumentChunk{{chunk("fuzzy hit", "EYFS Framework")}}
	ctx := context.Background()

	results, method, err := svc.Search(ctx, "raw", enhancedQuery("processed"), "")

	require.NoError(t, err, "keyword unavailability must not fail the request")
	assert.Equal(t, domain.MethodFuzzy, method)
	require.Len(t, results, 1)
	assert.InDelta(t, 0.8, results[0].Similarity, 1e-9, "fuzzy matches carry fixed similarity")
	assert.Equal(t, 1, keyword.calls)
	assert.Equal(t, 1, substring.calls)
}

func TestRetrieval_NilKeywordSearcherFallsThroughToFuzzy(t *testing.T) {
	embedder := &mockEmbedder{}
	vector := &mockVector{}
	substring := &mockSubstring{queue: [][]domain.DocumentChunk{{chunk("hit", "src")}}}
	svc := NewRetrievalService(embedder, vector, nil, substring,
		cache.NewService(time.Hour), DefaultRetrievalConfig())

	_, method, err := svc.Search(context.Background(), "raw", enhancedQuery("processed"), "")

	require.NoError(t, err)
	assert.Equal(t, domain.MethodFuzzy, method)
}

func TestRetrieval_FuzzyTriesPatternsInOrder(t *testing.T) {
	svc, _, _, keyword, substring := newRetrievalFixture()
	keyword.err = errors.New("fts offline")
	substring.queue = [][]domain.DocumentChunk{
		nil, // raw query: empty
		{chunk("processed hit", "src")},
	}
	ctx := context.Background()

	_, method, err := svc.Search(ctx, "raw question",
		enhancedQuery("processed question", "variation one", "variation two"), "")

	require.NoError(t, err)
	assert.Equal(t, domain.MethodFuzzy, method)
	assert.Equal(t, []string{"raw question", "processed question"}, substring.patterns)
}

func TestRetrieval_Exhausted(t *testing.T) {
	svc, _, _, _, _ := newRetrievalFixture()
	ctx := context.Background()

	results, method, err := svc.Search(ctx, "raw", enhancedQuery("processed", "v1"), "")

	require.NoError(t, err, "strategy exhaustion is a valid outcome, not an error")
	assert.Empty(t, results)
	assert.Equal(t, domain.MethodNone, method)
}

func TestRetrieval_EmbeddingErrorPropagates(t *testing.T) {
	svc, embedder, _, keyword, substring := newRetrievalFixture()
	embedder.embedErr = errors.New("embedding service down")
	ctx := context.Background()

	_, _, err := svc.Search(ctx, "raw", enhancedQuery("processed"), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding service down")
	assert.Equal(t, 0, keyword.calls, "I/O failures must not trigger fallback strategies")
	assert.Equal(t, 0, substring.calls)
}

func TestRetrieval_VectorErrorPropagates(t *testing.T) {
	svc, _, vector, _, _ := newRetrievalFixture()
	vector.err = errors.New("store timeout")
	ctx := context.Background()

	_, _, err := svc.Search(ctx, "raw", enhancedQuery("processed"), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store timeout")
}

func TestRetrieval_SubstringErrorPropagates(t *testing.T) {
	svc, _, _, keyword, substring := newRetrievalFixture()
	keyword.err = domain.ErrKeywordUnavailable
	substring.err = errors.New("db locked")
	ctx := context.Background()

	_, _, err := svc.Search(ctx, "raw", enhancedQuery("processed"), "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db locked")
}

func TestRetrieval_ResultsCached(t *testing.T) {
	svc, embedder, vector, _, _ := newRetrievalFixture()
	vector.queue = [][]domain.SearchResult{{scored("text", "src", 0.9)}}
	ctx := context.Background()
	enhanced := enhancedQuery("staff ratios")

	first, method1, err := svc.Search(ctx, "raw", enhanced, domain.SettingNursery)
	require.NoError(t, err)

	second, method2, err := svc.Search(ctx, "raw", enhanced, domain.SettingNursery)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, method1, method2)
	assert.Equal(t, 1, embedder.calls, "cached search must not re-embed")
	assert.Equal(t, 1, vector.calls, "cached search must not hit the store")
}

func TestRetrieval_ResultsSortedBySimilarity(t *testing.T) {
	svc, _, vector, _, _ := newRetrievalFixture()
	vector.queue = [][]domain.SearchResult{{
		scored("low", "a", 0.61),
		scored("high", "b", 0.93),
		scored("mid", "c", 0.72),
	}}
	ctx := context.Background()

	results, _, err := svc.Search(ctx, "raw", enhancedQuery("processed"), "")

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "high", results[0].Content)
	assert.Equal(t, "mid", results[1].Content)
	assert.Equal(t, "low", results[2].Content)
}
