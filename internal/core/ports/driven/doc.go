// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Generates vector embeddings for queries
//   - VectorSearcher: Cosine nearest-neighbour search over chunks
//   - SubstringSearcher: ILIKE-style substring fallback search
//
// # Optional Interfaces
//
//   - KeywordSearcher: Full-text search. When it reports
//     domain.ErrKeywordUnavailable the retrieval cascade falls through
//     to substring search instead of failing the request.
//   - ChunkWriter: Chunk persistence, used only by the offline loader.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
