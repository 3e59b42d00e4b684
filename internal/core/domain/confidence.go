package domain

// SearchMethod tags which retrieval strategy produced a result set.
type SearchMethod string

// Retrieval strategies, in cascade order.
const (
	MethodSemantic SearchMethod = "semantic"
	MethodKeyword  SearchMethod = "keyword"
	MethodFuzzy    SearchMethod = "fuzzy"
	MethodNone     SearchMethod = "none"
)

// SearchConfidence summarises retrieval quality for one query.
//
// Invariant: Method == MethodNone iff ResultCount == 0 iff Score == 0.
type SearchConfidence struct {
	// Score is a heuristic confidence in [0,1]. It is hand-tuned, not a
	// calibrated probability.
	Score float64

	// Method is the strategy that ultimately produced the result set.
	Method SearchMethod

	// ResultCount is the number of candidates retained.
	ResultCount int

	// BestSimilarity is the maximum similarity among candidates, 0 if none.
	BestSimilarity float64
}
