package services

import (
	"context"
	"strings"
	"time"

	"github.com/earlyed-hq/asked/internal/cache"
	"github.com/earlyed-hq/asked/internal/core/domain"
	"github.com/earlyed-hq/asked/internal/core/ports/driving"
	"github.com/earlyed-hq/asked/internal/knowledge"
	"github.com/earlyed-hq/asked/internal/logger"
)

// Ensure ContextService implements the interface.
var _ driving.ContextProvider = (*ContextService)(nil)

// OffTopicMessage is returned as the context for small-talk queries. The
// downstream model passes it through, so it is written as the answer
// itself rather than as an instruction.
const OffTopicMessage = "I can only help with questions about UK childcare compliance - " +
	"things like EYFS requirements, staffing ratios, safeguarding and Ofsted " +
	"inspections. Please ask me something in that area."

// ContextConfig holds the orchestrator's cache TTL policy. Low-value
// answers are deliberately cached for less time so transient retrieval
// gaps self-heal faster.
type ContextConfig struct {
	// OffTopicTTL bounds cached off-topic short-circuit answers.
	OffTopicTTL time.Duration

	// EmptyTTL bounds cached empty-result answers.
	EmptyTTL time.Duration

	// HighConfidenceTTL bounds answers scoring at least HighConfidenceScore.
	HighConfidenceTTL time.Duration

	// LowConfidenceTTL bounds all other successful answers.
	LowConfidenceTTL time.Duration

	// HighConfidenceScore is the score boundary between the two TTLs.
	HighConfidenceScore float64
}

// DefaultContextConfig returns the canonical TTL policy.
func DefaultContextConfig() ContextConfig {
	return ContextConfig{
		OffTopicTTL:         1 * time.Minute,
		EmptyTTL:            30 * time.Second,
		HighConfidenceTTL:   10 * time.Minute,
		LowConfidenceTTL:    5 * time.Minute,
		HighConfidenceScore: 0.7,
	}
}

// ContextService is the top-level entry point: it composes scope
// detection, the knowledge base gate, query enhancement, the retrieval
// cascade, confidence scoring and context assembly into one deterministic
// pipeline invoked per user question.
type ContextService struct {
	scope     *ScopeDetector
	enhancer  *QueryEnhancer
	retrieval *RetrievalService
	scorer    *Scorer
	assembler *Assembler
	kb        *knowledge.Matcher
	caches    *cache.Service
	cfg       ContextConfig
}

// NewContextService creates the orchestrator. All collaborators are
// injected; none are constructed lazily.
func NewContextService(
	scope *ScopeDetector,
	enhancer *QueryEnhancer,
	retrieval *RetrievalService,
	scorer *Scorer,
	assembler *Assembler,
	kb *knowledge.Matcher,
	caches *cache.Service,
	cfg ContextConfig,
) *ContextService {
	if cfg.HighConfidenceTTL == 0 {
		cfg = DefaultContextConfig()
	}
	return &ContextService{
		scope:     scope,
		enhancer:  enhancer,
		retrieval: retrieval,
		scorer:    scorer,
		assembler: assembler,
		kb:        kb,
		caches:    caches,
		cfg:       cfg,
	}
}

// GetRelevantContext runs the full pipeline for one question.
func (s *ContextService) GetRelevantContext(
	ctx context.Context, query string, setting domain.Setting,
) (domain.ContextResult, error) {
	logger.Section("Context Pipeline")
	logger.Debug("query=%q setting=%q", query, setting)

	query = strings.TrimSpace(query)
	if query == "" {
		return domain.ContextResult{Confidence: emptyConfidence()}, nil
	}

	// Unambiguous small talk skips everything. The answer is reported as
	// high-confidence semantic so off-topic handling is indistinguishable
	// downstream from a confident answer: it IS the answer.
	if s.scope.ShortCircuit(query) {
		logger.Info("off-topic short-circuit")
		result := domain.ContextResult{
			Context: OffTopicMessage,
			Confidence: domain.SearchConfidence{
				Score:          1.0,
				Method:         domain.MethodSemantic,
				ResultCount:    1,
				BestSimilarity: 1.0,
			},
		}
		s.caches.Contexts.Set(contextCacheKey(query, setting), result, s.cfg.OffTopicTTL)
		return result, nil
	}

	cacheKey := contextCacheKey(query, setting)
	if cached, ok := s.caches.Contexts.Get(cacheKey); ok {
		logger.Debug("context cache hit")
		return cached, nil
	}

	// Known edge cases answer from the curated knowledge base, but only
	// when the match is strong and the query carries no recency/breadth
	// signal that demands full-document retrieval.
	if !knowledge.IsPriorityQuery(query) {
		if entry, ok := s.kb.StrongMatch(query, setting); ok {
			logger.Info("knowledge base answer: %s", entry.ID)
			result := domain.ContextResult{
				Context: "[Knowledge Base - " + entry.Source + "]\n" + entry.Answer,
				Confidence: domain.SearchConfidence{
					Score:          0.9,
					Method:         domain.MethodSemantic,
					ResultCount:    1,
					BestSimilarity: 1.0,
				},
			}
			s.caches.Contexts.Set(cacheKey, result, s.cfg.HighConfidenceTTL)
			return result, nil
		}
	}

	enhanced := s.enhancer.Enhance(query)

	results, method, err := s.retrieval.Search(ctx, query, enhanced, setting)
	if err != nil {
		// External-service errors propagate unchanged; retrying blindly
		// could mask a systemic outage.
		return domain.ContextResult{}, err
	}

	confidence := s.scorer.Calculate(results, method)

	if confidence.ResultCount == 0 {
		logger.Info("all strategies exhausted, nothing found")
		result := domain.ContextResult{Confidence: confidence}
		s.caches.Contexts.Set(cacheKey, result, s.cfg.EmptyTTL)
		return result, nil
	}

	result := domain.ContextResult{
		Context:          s.assembler.Assemble(enhanced.ProcessedQuery, results),
		ResponseTemplate: enhanced.ResponseTemplate,
		Confidence:       confidence,
	}

	ttl := s.cfg.LowConfidenceTTL
	if confidence.Score >= s.cfg.HighConfidenceScore {
		ttl = s.cfg.HighConfidenceTTL
	}
	s.caches.Contexts.Set(cacheKey, result, ttl)

	logger.Info("context assembled: %d chars, confidence %.2f via %s",
		len(result.Context), confidence.Score, confidence.Method)
	return result, nil
}

func emptyConfidence() domain.SearchConfidence {
	return domain.SearchConfidence{Score: 0, Method: domain.MethodNone, ResultCount: 0, BestSimilarity: 0}
}

func contextCacheKey(query string, setting domain.Setting) string {
	return "ctx:" + normaliseKey(query) + ":" + string(setting)
}
