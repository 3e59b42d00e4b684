package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

// mockWriter implements driven.ChunkWriter.
type mockWriter struct {
	added []domain.DocumentChunk
	err   error
}

func (m *mockWriter) Add(_ context.Context, c domain.DocumentChunk, _ []float32) error {
	if m.err != nil {
		return m.err
	}
	m.added = append(m.added, c)
	return nil
}

func (m *mockWriter) Count(_ context.Context) (int, error) {
	return len(m.added), nil
}

func TestLoadChunks(t *testing.T) {
	embedder := &mockEmbedder{}
	writer := &mockWriter{}
	svc := NewLoaderService(embedder, writer)

	chunks := []domain.DocumentChunk{
		chunk("Providers must maintain ratios at all times.", "EYFS Framework"),
		chunk("All staff should read part one.", "KCSiE 2025"),
	}

	n, err := svc.LoadChunks(context.Background(), chunks)

	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Len(t, writer.added, 2)
	assert.Equal(t, 1, embedder.calls, "chunks are embedded in a single batch")
}

func TestLoadChunks_EmptyContentRejected(t *testing.T) {
	svc := NewLoaderService(&mockEmbedder{}, &mockWriter{})

	_, err := svc.LoadChunks(context.Background(), []domain.DocumentChunk{
		chunk("valid content", "EYFS Framework"),
		chunk("   ", "KCSiE 2025"),
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLoadChunks_NoChunks(t *testing.T) {
	writer := &mockWriter{}
	svc := NewLoaderService(&mockEmbedder{}, writer)

	n, err := svc.LoadChunks(context.Background(), nil)

	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, writer.added)
}

func TestLoadChunks_EmbedErrorPropagates(t *testing.T) {
	embedder := &mockEmbedder{embedErr: errors.New("model offline")}
	writer := &mockWriter{}
	svc := NewLoaderService(embedder, writer)

	_, err := svc.LoadChunks(context.Background(), []domain.DocumentChunk{
		chunk("content", "src"),
	})

	require.Error(t, err)
	assert.Empty(t, writer.added, "nothing is stored when embedding fails")
}

func TestLoadChunks_WriterErrorPropagates(t *testing.T) {
	writer := &mockWriter{err: errors.New("db closed")}
	svc := NewLoaderService(&mockEmbedder{}, writer)

	_, err := svc.LoadChunks(context.Background(), []domain.DocumentChunk{
		chunk("content", "src"),
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "db closed")
}
