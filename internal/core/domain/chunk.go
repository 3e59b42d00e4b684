package domain

// ChunkMetadata describes where a passage came from.
type ChunkMetadata struct {
	// Source is the human-readable document name, e.g. "KCSiE 2025".
	// Used for citations and source-priority re-ranking.
	Source string

	// Page is the 1-based page in the source document. Zero means unknown.
	Page int

	// Section is the nearest detected heading, if any.
	Section string
}

// DocumentChunk is a unit of ingested regulatory text.
// Chunks are created once by the offline ingestion pipeline and are
// immutable at runtime.
type DocumentChunk struct {
	// Content is the passage text (non-empty, trimmed).
	Content string

	// Metadata describes the chunk's origin.
	Metadata ChunkMetadata
}

// RankedResults pairs a ranked candidate set with the retrieval strategy
// that produced it. This is the unit memoised by the search cache.
type RankedResults struct {
	Results []SearchResult
	Method  SearchMethod
}

// SearchResult is a chunk scored against a query.
type SearchResult struct {
	DocumentChunk

	// Similarity is a relevance score in [0,1]. For semantic matches it is
	// cosine-derived (1 - cosine distance); keyword matches carry a fixed
	// 1.0 and fuzzy matches a fixed 0.8.
	Similarity float64
}
