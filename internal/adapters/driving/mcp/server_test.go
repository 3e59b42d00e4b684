package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RequiresContextProvider(t *testing.T) {
	_, err := NewServer(&Ports{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingContextProvider)
}

func TestNewServer_LoaderOptional(t *testing.T) {
	server, err := NewServer(&Ports{Context: &mockContextProvider{}})

	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestServer_KnowledgeBaseResource(t *testing.T) {
	server, err := NewServer(&Ports{Context: &mockContextProvider{}})
	require.NoError(t, err)

	req := &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: uriScheme + "knowledge-base"},
	}
	result, err := server.handleKnowledgeBaseResource(context.Background(), req)

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var entries []map[string]any
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &entries))
	assert.NotEmpty(t, entries)
	assert.Contains(t, result.Contents[0].Text, "ratio-mixed-ages")
	assert.Contains(t, result.Contents[0].Text, "EYFS Framework")
}
