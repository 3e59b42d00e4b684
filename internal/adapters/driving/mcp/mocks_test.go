package mcp

import (
	"context"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

// mockContextProvider implements driving.ContextProvider for testing.
type mockContextProvider struct {
	result      domain.ContextResult
	err         error
	lastQuery   string
	lastSetting domain.Setting
}

func (m *mockContextProvider) GetRelevantContext(
	_ context.Context, query string, setting domain.Setting,
) (domain.ContextResult, error) {
	m.lastQuery = query
	m.lastSetting = setting
	if m.err != nil {
		return domain.ContextResult{}, m.err
	}
	return m.result, nil
}
