package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the childcare compliance question to answer"`
	Setting  string `json:"setting,omitempty" jsonschema:"the provision type: nursery, club or both (default both)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	// Context is the assembled, source-attributed context block. Empty when
	// nothing relevant was found.
	Context string `json:"context"`

	// ResponseTemplate structures the downstream answer, when the query
	// intent was classified confidently.
	ResponseTemplate string `json:"response_template,omitempty"`

	Confidence ConfidenceOutput `json:"confidence"`
}

// ConfidenceOutput summarises how the context was found and how much to
// trust it.
type ConfidenceOutput struct {
	Score          float64 `json:"score"`
	Method         string  `json:"method"`
	ResultCount    int     `json:"result_count"`
	BestSimilarity float64 `json:"best_similarity"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Retrieve cited UK childcare compliance context for a question",
	}, s.handleAsk)
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	setting, err := parseSetting(input.Setting)
	if err != nil {
		return nil, AskOutput{}, err
	}

	result, err := s.ports.Context.GetRelevantContext(ctx, input.Question, setting)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Context:          result.Context,
		ResponseTemplate: result.ResponseTemplate,
		Confidence: ConfidenceOutput{
			Score:          result.Confidence.Score,
			Method:         string(result.Confidence.Method),
			ResultCount:    result.Confidence.ResultCount,
			BestSimilarity: result.Confidence.BestSimilarity,
		},
	}, nil
}

func parseSetting(s string) (domain.Setting, error) {
	switch domain.Setting(s) {
	case "", domain.SettingBoth:
		return domain.SettingBoth, nil
	case domain.SettingNursery:
		return domain.SettingNursery, nil
	case domain.SettingClub:
		return domain.SettingClub, nil
	default:
		return "", ErrInvalidSetting
	}
}
