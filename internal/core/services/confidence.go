package services

import "github.com/earlyed-hq/asked/internal/core/domain"

// Bands holds the hand-tuned confidence band boundaries. The defaults are
// load-bearing: behavioural parity requires the exact thresholds, so they
// are configurable but should not be changed casually.
type Bands struct {
	// Semantic bands keyed on best similarity (exclusive lower bounds).
	SemanticHigh float64 // > high  -> 0.9
	SemanticMid  float64 // > mid   -> 0.7
	SemanticLow  float64 // > low   -> 0.5, else 0.3

	// Keyword bands keyed on result count (exclusive lower bounds).
	KeywordMany int // > many -> 0.8
	KeywordSome int // > some -> 0.6, else 0.4

	// Fuzzy bands keyed on result count (exclusive lower bounds).
	FuzzyMany int // > many -> 0.5
	FuzzySome int // > some -> 0.3, else 0.2
}

// DefaultBands returns the canonical band boundaries.
func DefaultBands() Bands {
	return Bands{
		SemanticHigh: 0.7,
		SemanticMid:  0.5,
		SemanticLow:  0.3,
		KeywordMany:  3,
		KeywordSome:  1,
		FuzzyMany:    5,
		FuzzySome:    2,
	}
}

// Scorer derives a confidence summary from a candidate result set.
// Pure and deterministic: no I/O, no state beyond the band boundaries.
type Scorer struct {
	bands Bands
}

// NewScorer creates a scorer with the given bands.
func NewScorer(bands Bands) *Scorer {
	return &Scorer{bands: bands}
}

// Calculate derives the confidence for a result set produced by the given
// retrieval method.
//
// Empty results always yield {0, none, 0, 0}; the method argument is
// ignored in that case so the empty invariant cannot be violated.
func (s *Scorer) Calculate(results []domain.SearchResult, method domain.SearchMethod) domain.SearchConfidence {
	if len(results) == 0 {
		return domain.SearchConfidence{Score: 0, Method: domain.MethodNone, ResultCount: 0, BestSimilarity: 0}
	}

	best := 0.0
	for _, r := range results {
		if r.Similarity > best {
			best = r.Similarity
		}
	}

	var score float64
	switch method {
	case domain.MethodSemantic:
		switch {
		case best > s.bands.SemanticHigh:
			score = 0.9
		case best > s.bands.SemanticMid:
			score = 0.7
		case best > s.bands.SemanticLow:
			score = 0.5
		default:
			score = 0.3
		}
	case domain.MethodKeyword:
		switch {
		case len(results) > s.bands.KeywordMany:
			score = 0.8
		case len(results) > s.bands.KeywordSome:
			score = 0.6
		default:
			score = 0.4
		}
	case domain.MethodFuzzy:
		switch {
		case len(results) > s.bands.FuzzyMany:
			score = 0.5
		case len(results) > s.bands.FuzzySome:
			score = 0.3
		default:
			score = 0.2
		}
	default:
		score = 0.3
	}

	return domain.SearchConfidence{
		Score:          score,
		Method:         method,
		ResultCount:    len(results),
		BestSimilarity: best,
	}
}
