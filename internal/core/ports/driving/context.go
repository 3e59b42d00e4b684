package driving

import (
	"context"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

// ContextProvider turns a free-text question into a ranked, budgeted,
// source-attributed context block for a language model.
type ContextProvider interface {
	// GetRelevantContext runs the full retrieval pipeline for one question.
	//
	// An empty Context with Confidence.Method == domain.MethodNone is a
	// valid outcome meaning nothing relevant was found; it is not an error.
	// External-service failures propagate unchanged.
	//
	// setting optionally narrows knowledge base matching to one provision
	// type; the zero value matches everything.
	GetRelevantContext(ctx context.Context, query string, setting domain.Setting) (domain.ContextResult, error)
}

// ChunkLoader loads offline-produced chunks into the document store.
type ChunkLoader interface {
	// LoadChunks embeds and stores the given chunks, returning the number
	// stored.
	LoadChunks(ctx context.Context, chunks []domain.DocumentChunk) (int, error)
}
