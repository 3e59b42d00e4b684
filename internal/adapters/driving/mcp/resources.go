package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/earlyed-hq/asked/internal/knowledge"
)

// uriScheme is the custom URI scheme for AskEd resources.
const uriScheme = "asked://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource exposing the curated knowledge base, so assistants
	// can inspect which edge cases have vetted answers.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "knowledge-base",
		Name:        "knowledge-base",
		Description: "Curated edge-case questions with vetted answers and sources",
		MIMEType:    "application/json",
	}, s.handleKnowledgeBaseResource)
}

// handleKnowledgeBaseResource returns the built-in knowledge base entries.
func (s *Server) handleKnowledgeBaseResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type entryInfo struct {
		ID       string `json:"id"`
		Question string `json:"question"`
		Category string `json:"category"`
		Setting  string `json:"setting"`
		Answer   string `json:"answer"`
		Source   string `json:"source"`
	}

	entries := knowledge.Entries()
	infos := make([]entryInfo, len(entries))
	for i, e := range entries {
		infos[i] = entryInfo{
			ID:       e.ID,
			Question: e.Query,
			Category: string(e.Category),
			Setting:  string(e.Setting),
			Answer:   e.Answer,
			Source:   e.Source,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling knowledge base: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
