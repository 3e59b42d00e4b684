package mcp

import (
	"github.com/earlyed-hq/asked/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Context runs the retrieval pipeline for one question.
	Context driving.ContextProvider

	// Loader ingests pre-chunked documents. Optional; the ask tool works
	// without it.
	Loader driving.ChunkLoader
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Context == nil {
		return ErrMissingContextProvider
	}
	return nil
}
