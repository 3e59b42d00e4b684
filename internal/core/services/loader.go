package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/earlyed-hq/asked/internal/core/domain"
	"github.com/earlyed-hq/asked/internal/core/ports/driven"
	"github.com/earlyed-hq/asked/internal/core/ports/driving"
	"github.com/earlyed-hq/asked/internal/logger"
)

// Ensure LoaderService implements the interface.
var _ driving.ChunkLoader = (*LoaderService)(nil)

// LoaderService loads offline-produced chunks into the document store,
// embedding each passage on the way in. The chunking itself happens in
// the offline ingestion pipeline; this service only honours its output
// contract.
type LoaderService struct {
	embedder driven.EmbeddingService
	writer   driven.ChunkWriter
}

// NewLoaderService creates a loader.
func NewLoaderService(embedder driven.EmbeddingService, writer driven.ChunkWriter) *LoaderService {
	return &LoaderService{embedder: embedder, writer: writer}
}

// LoadChunks embeds and stores the given chunks, returning the number
// stored. Chunks with empty content are rejected up front.
func (s *LoaderService) LoadChunks(ctx context.Context, chunks []domain.DocumentChunk) (int, error) {
	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}
	if s.writer == nil {
		return 0, fmt.Errorf("chunk writer unavailable")
	}

	texts := make([]string, 0, len(chunks))
	valid := make([]domain.DocumentChunk, 0, len(chunks))
	for _, c := range chunks {
		c.Content = strings.TrimSpace(c.Content)
		if c.Content == "" {
			return 0, fmt.Errorf("chunk with empty content (source %q): %w", c.Metadata.Source, domain.ErrInvalidInput)
		}
		valid = append(valid, c)
		texts = append(texts, c.Content)
	}
	if len(valid) == 0 {
		return 0, nil
	}

	logger.Info("loading %d chunks via %s", len(valid), s.embedder.ModelName())

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(embeddings) != len(valid) {
		return 0, fmt.Errorf("embedding count mismatch: %d chunks, %d embeddings", len(valid), len(embeddings))
	}

	for i, c := range valid {
		if err := s.writer.Add(ctx, c, embeddings[i]); err != nil {
			return i, fmt.Errorf("store chunk %d: %w", i, err)
		}
	}

	return len(valid), nil
}
