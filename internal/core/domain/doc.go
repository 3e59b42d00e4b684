// Package domain defines the core business entities for AskEd.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - DocumentChunk: A retrievable passage of regulatory text
//   - SearchResult: A chunk with a similarity score
//   - SearchConfidence: A summary of retrieval quality for one query
//   - KnowledgeBaseEntry: A hand-curated question/answer fact
//   - ContextResult: The assembled, source-attributed context block
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
