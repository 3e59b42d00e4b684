package domain

// IntentType classifies what shape of answer a query is asking for.
type IntentType string

// Intent types, in the order the enhancer checks them. First match wins.
const (
	IntentDefinition     IntentType = "definition"
	IntentProcess        IntentType = "process"
	IntentRequirement    IntentType = "requirement"
	IntentTiming         IntentType = "timing"
	IntentResponsibility IntentType = "responsibility"
	IntentGeneral        IntentType = "general"
)

// QueryIntent is the detected intent of a query, derived purely from
// query text pattern matching. Never persisted.
type QueryIntent struct {
	Type       IntentType
	Confidence float64
}

// EnhancedQuery is the output of query enhancement.
type EnhancedQuery struct {
	// ProcessedQuery has acronyms expanded and terms normalised.
	ProcessedQuery string

	// Intent is the detected query intent.
	Intent QueryIntent

	// Variations are alternate phrasings used for retry attempts,
	// not for parallel fan-out. Duplicates removed.
	Variations []string

	// ResponseTemplate structures the downstream answer when intent
	// confidence is high enough; empty means use a generic format.
	ResponseTemplate string
}
