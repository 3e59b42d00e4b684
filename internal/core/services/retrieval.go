package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/earlyed-hq/asked/internal/cache"
	"github.com/earlyed-hq/asked/internal/core/domain"
	"github.com/earlyed-hq/asked/internal/core/ports/driven"
	"github.com/earlyed-hq/asked/internal/logger"
)

// Similarity sentinels for the non-semantic strategies.
const (
	keywordSimilarity = 1.0
	fuzzySimilarity   = 0.8
)

// RetrievalConfig tunes the cascading search.
type RetrievalConfig struct {
	// MatchCount is how many candidates each strategy requests.
	MatchCount int

	// DefaultThreshold is the minimum cosine similarity for semantic search.
	DefaultThreshold float64

	// RecallThreshold applies to EYFS/safeguarding-flavoured queries,
	// trading precision for recall.
	RecallThreshold float64

	// PrecisionThreshold applies to annex/appendix queries, where loose
	// matches are rarely useful.
	PrecisionThreshold float64

	// RelaxedThreshold is the fallback threshold when the initial semantic
	// pass and variation retries come back empty.
	RelaxedThreshold float64

	// MaxVariationRetries caps semantic retries with generated variations.
	MaxVariationRetries int

	// MaxFuzzyVariations caps how many variations the fuzzy fallback tries
	// after the raw and processed queries.
	MaxFuzzyVariations int

	// EmbeddingTTL bounds the embedding cache.
	EmbeddingTTL time.Duration

	// ResultsTTL bounds the raw-results cache.
	ResultsTTL time.Duration
}

// DefaultRetrievalConfig returns the canonical cascade tuning.
func DefaultRetrievalConfig() RetrievalConfig {
	return RetrievalConfig{
		MatchCount:          8,
		DefaultThreshold:    0.6,
		RecallThreshold:     0.5,
		PrecisionThreshold:  0.7,
		RelaxedThreshold:    0.4,
		MaxVariationRetries: 3,
		MaxFuzzyVariations:  2,
		EmbeddingTTL:        10 * time.Minute,
		ResultsTTL:          5 * time.Minute,
	}
}

// RetrievalService orchestrates the cascading multi-strategy search:
// semantic, variation retry, threshold relaxation, keyword, fuzzy.
// Each step runs only after the previous one is confirmed empty.
type RetrievalService struct {
	embedder  driven.EmbeddingService
	vector    driven.VectorSearcher
	keyword   driven.KeywordSearcher
	substring driven.SubstringSearcher
	caches    *cache.Service
	cfg       RetrievalConfig
}

// NewRetrievalService creates a retrieval service. The keyword searcher
// may be nil; it is then treated as unavailable and the cascade falls
// through to fuzzy search.
func NewRetrievalService(
	embedder driven.EmbeddingService,
	vector driven.VectorSearcher,
	keyword driven.KeywordSearcher,
	substring driven.SubstringSearcher,
	caches *cache.Service,
	cfg RetrievalConfig,
) *RetrievalService {
	if cfg.MatchCount <= 0 {
		cfg = DefaultRetrievalConfig()
	}
	return &RetrievalService{
		embedder:  embedder,
		vector:    vector,
		keyword:   keyword,
		substring: substring,
		caches:    caches,
		cfg:       cfg,
	}
}

// Search runs the cascade for one enhanced query, returning the ranked
// candidates and the strategy that produced them. An empty result with
// domain.MethodNone and a nil error means every strategy exhausted; that
// is a valid outcome, not a failure.
func (s *RetrievalService) Search(
	ctx context.Context, rawQuery string, enhanced domain.EnhancedQuery, setting domain.Setting,
) ([]domain.SearchResult, domain.SearchMethod, error) {
	logger.Section("Retrieval Cascade")

	cacheKey := resultsCacheKey(enhanced.ProcessedQuery, setting)
	if cached, ok := s.caches.Results.Get(cacheKey); ok {
		logger.Debug("retrieval: cache hit (%d results, method=%s)", len(cached.Results), cached.Method)
		return cached.Results, cached.Method, nil
	}

	results, method, err := s.cascade(ctx, rawQuery, enhanced)
	if err != nil {
		return nil, domain.MethodNone, err
	}

	sortBySimilarity(results)
	s.caches.Results.Set(cacheKey, domain.RankedResults{Results: results, Method: method}, s.cfg.ResultsTTL)

	logger.Info("retrieval: %d results via %s", len(results), method)
	return results, method, nil
}

func (s *RetrievalService) cascade(
	ctx context.Context, rawQuery string, enhanced domain.EnhancedQuery,
) ([]domain.SearchResult, domain.SearchMethod, error) {
	threshold := s.initialThreshold(enhanced.ProcessedQuery)
	logger.Debug("retrieval: initial threshold %.2f", threshold)

	// 1. Semantic search on the processed query.
	results, err := s.semantic(ctx, enhanced.ProcessedQuery, threshold)
	if err != nil {
		return nil, domain.MethodNone, err
	}
	if len(results) > 0 {
		return results, domain.MethodSemantic, nil
	}

	// 2. Retry with generated query variations at the same threshold.
	for i, variation := range enhanced.Variations {
		if i >= s.cfg.MaxVariationRetries {
			break
		}
		logger.Debug("retrieval: variation retry %q", variation)
		results, err = s.semantic(ctx, variation, threshold)
		if err != nil {
			return nil, domain.MethodNone, err
		}
		if len(results) > 0 {
			return results, domain.MethodSemantic, nil
		}
	}

	// 3. Relax the threshold for the processed query.
	logger.Debug("retrieval: relaxing threshold to %.2f", s.cfg.RelaxedThreshold)
	results, err = s.semantic(ctx, enhanced.ProcessedQuery, s.cfg.RelaxedThreshold)
	if err != nil {
		return nil, domain.MethodNone, err
	}
	if len(results) > 0 {
		return results, domain.MethodSemantic, nil
	}

	// 4. Keyword search. Failure here is a recovery point, not a failure
	// point: unavailability falls through to fuzzy search.
	results, err = s.keywordSearch(ctx, enhanced.ProcessedQuery)
	if err != nil {
		logger.Warn("retrieval: keyword search failed, falling through to fuzzy: %v", err)
	} else if len(results) > 0 {
		return results, domain.MethodKeyword, nil
	}

	// 5. Fuzzy substring search over raw query, processed query, then the
	// first variations, stopping at the first non-empty set.
	results, err = s.fuzzySearch(ctx, rawQuery, enhanced)
	if err != nil {
		return nil, domain.MethodNone, err
	}
	if len(results) > 0 {
		return results, domain.MethodFuzzy, nil
	}

	// All strategies exhausted.
	return nil, domain.MethodNone, nil
}

// initialThreshold picks a topic-adjusted starting threshold: annex and
// appendix lookups want precision, EYFS and safeguarding questions want
// recall, everything else uses the default.
func (s *RetrievalService) initialThreshold(query string) float64 {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "annex") || strings.Contains(q, "appendix"):
		return s.cfg.PrecisionThreshold
	case strings.Contains(q, "eyfs") || strings.Contains(q, "early years foundation stage") ||
		strings.Contains(q, "safeguard"):
		return s.cfg.RecallThreshold
	default:
		return s.cfg.DefaultThreshold
	}
}

func (s *RetrievalService) semantic(ctx context.Context, query string, threshold float64) ([]domain.SearchResult, error) {
	if s.vector == nil {
		return nil, domain.ErrVectorUnavailable
	}

	embedding, err := s.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	results, err := s.vector.NearestNeighbours(ctx, embedding, s.cfg.MatchCount, threshold)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}

// embed generates the query embedding through the embedding cache.
func (s *RetrievalService) embed(ctx context.Context, text string) ([]float32, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	key := cache.EmbeddingKey(text)
	if embedding, ok := s.caches.Embeddings.Get(key); ok {
		return embedding, nil
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	s.caches.Embeddings.Set(key, embedding, s.cfg.EmbeddingTTL)
	return embedding, nil
}

func (s *RetrievalService) keywordSearch(ctx context.Context, query string) ([]domain.SearchResult, error) {
	if s.keyword == nil {
		return nil, domain.ErrKeywordUnavailable
	}

	chunks, err := s.keyword.KeywordSearch(ctx, query, s.cfg.MatchCount)
	if err != nil {
		return nil, err
	}
	return withFixedSimilarity(chunks, keywordSimilarity), nil
}

func (s *RetrievalService) fuzzySearch(
	ctx context.Context, rawQuery string, enhanced domain.EnhancedQuery,
) ([]domain.SearchResult, error) {
	if s.substring == nil {
		return nil, domain.ErrSubstringUnavailable
	}

	patterns := []string{rawQuery, enhanced.ProcessedQuery}
	for i, v := range enhanced.Variations {
		if i >= s.cfg.MaxFuzzyVariations {
			break
		}
		patterns = append(patterns, v)
	}

	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		logger.Debug("retrieval: fuzzy pattern %q", pattern)
		chunks, err := s.substring.SubstringSearch(ctx, pattern, s.cfg.MatchCount)
		if err != nil {
			return nil, fmt.Errorf("substring search: %w", err)
		}
		if len(chunks) > 0 {
			return withFixedSimilarity(chunks, fuzzySimilarity), nil
		}
	}

	return nil, nil
}

func withFixedSimilarity(chunks []domain.DocumentChunk, similarity float64) []domain.SearchResult {
	results := make([]domain.SearchResult, len(chunks))
	for i, c := range chunks {
		results[i] = domain.SearchResult{DocumentChunk: c, Similarity: similarity}
	}
	return results
}

func sortBySimilarity(results []domain.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
}

func resultsCacheKey(query string, setting domain.Setting) string {
	return "res:" + normaliseKey(query) + ":" + string(setting)
}

func normaliseKey(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
