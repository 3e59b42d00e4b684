package domain

// ContextResult is the orchestrator's return value: a ranked, budgeted,
// source-attributed context block ready to feed a language model.
type ContextResult struct {
	// Context is the assembled context string. Empty means no relevant
	// information was found; callers map that to a user-facing message.
	Context string

	// ResponseTemplate structures the downstream answer, or empty for
	// a generic unstructured format.
	ResponseTemplate string

	// Confidence summarises retrieval quality.
	Confidence SearchConfidence
}
