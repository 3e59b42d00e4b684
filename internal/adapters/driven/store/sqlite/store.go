// Package sqlite provides a persistent document store backed by SQLite.
//
// Embeddings are stored as little-endian float32 blobs and scanned in
// process for nearest-neighbour search; the corpus is small enough that a
// full scan comfortably beats the operational cost of a vector extension.
// Keyword search uses an FTS5 index when available.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/earlyed-hq/asked/internal/core/domain"
	"github.com/earlyed-hq/asked/internal/core/ports/driven"
	"github.com/earlyed-hq/asked/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.VectorSearcher    = (*Store)(nil)
	_ driven.KeywordSearcher   = (*Store)(nil)
	_ driven.SubstringSearcher = (*Store)(nil)
	_ driven.ChunkWriter       = (*Store)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS chunks (
	id        TEXT PRIMARY KEY,
	content   TEXT NOT NULL,
	source    TEXT NOT NULL DEFAULT '',
	page      INTEGER NOT NULL DEFAULT 0,
	section   TEXT NOT NULL DEFAULT '',
	embedding BLOB NOT NULL
);
`

const ftsSchema = `
CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(id UNINDEXED, content);
`

// Store is a SQLite-backed document store. Safe for concurrent use; the
// underlying *sql.DB serialises access.
type Store struct {
	db  *sql.DB
	fts bool
}

// Open opens (creating if necessary) the database at path and ensures the
// schema. FTS5 unavailability is tolerated: keyword search then reports
// domain.ErrKeywordUnavailable and the retrieval cascade falls through.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	fts := true
	if _, err := db.Exec(ftsSchema); err != nil {
		logger.Warn("sqlite: FTS5 unavailable, keyword search disabled: %v", err)
		fts = false
	}

	return &Store{db: db, fts: fts}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Add stores a chunk together with its embedding.
func (s *Store) Add(ctx context.Context, chunk domain.DocumentChunk, embedding []float32) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	id := uuid.NewString()
	_, err = tx.ExecContext(ctx,
		`INSERT INTO chunks (id, content, source, page, section, embedding) VALUES (?, ?, ?, ?, ?, ?)`,
		id, chunk.Content, chunk.Metadata.Source, chunk.Metadata.Page, chunk.Metadata.Section,
		encodeEmbedding(embedding),
	)
	if err != nil {
		return fmt.Errorf("insert chunk: %w", err)
	}

	if s.fts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO chunks_fts (id, content) VALUES (?, ?)`, id, chunk.Content)
		if err != nil {
			return fmt.Errorf("index chunk: %w", err)
		}
	}

	return tx.Commit()
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// NearestNeighbours scans all stored embeddings and returns up to k
// chunks with cosine similarity of at least minSimilarity, ordered by
// similarity descending.
func (s *Store) NearestNeighbours(
	ctx context.Context, embedding []float32, k int, minSimilarity float64,
) ([]domain.SearchResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT content, source, page, section, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	defer rows.Close()

	var results []domain.SearchResult
	for rows.Next() {
		var chunk domain.DocumentChunk
		var blob []byte
		if err := rows.Scan(&chunk.Content, &chunk.Metadata.Source,
			&chunk.Metadata.Page, &chunk.Metadata.Section, &blob); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		sim := cosineSimilarity(embedding, decodeEmbedding(blob))
		if sim >= minSimilarity {
			results = append(results, domain.SearchResult{DocumentChunk: chunk, Similarity: sim})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// KeywordSearch returns up to k chunks matching the query terms via the
// FTS5 index, best match first.
func (s *Store) KeywordSearch(ctx context.Context, query string, k int) ([]domain.DocumentChunk, error) {
	if !s.fts {
		return nil, domain.ErrKeywordUnavailable
	}

	match := ftsMatchQuery(query)
	if match == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT c.content, c.source, c.page, c.section
		FROM chunks_fts f
		JOIN chunks c ON c.id = f.id
		WHERE chunks_fts MATCH ?
		ORDER BY rank
		LIMIT ?`, match, k)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

// SubstringSearch returns up to k chunks whose content contains the
// pattern, case-insensitively. instr avoids LIKE wildcard escaping.
func (s *Store) SubstringSearch(ctx context.Context, pattern string, k int) ([]domain.DocumentChunk, error) {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT content, source, page, section
		FROM chunks
		WHERE instr(lower(content), ?) > 0
		LIMIT ?`, pattern, k)
	if err != nil {
		return nil, fmt.Errorf("substring search: %w", err)
	}
	defer rows.Close()

	return collectChunks(rows)
}

func collectChunks(rows *sql.Rows) ([]domain.DocumentChunk, error) {
	var chunks []domain.DocumentChunk
	for rows.Next() {
		var c domain.DocumentChunk
		if err := rows.Scan(&c.Content, &c.Metadata.Source, &c.Metadata.Page, &c.Metadata.Section); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return chunks, nil
}

// ftsMatchQuery turns a free-text query into an FTS5 OR query with each
// term quoted, so user punctuation cannot break the match syntax.
func ftsMatchQuery(query string) string {
	var terms []string
	for _, w := range strings.Fields(query) {
		w = strings.Trim(w, `"'.,;:!?()`)
		if len(w) >= 3 {
			terms = append(terms, `"`+strings.ReplaceAll(w, `"`, ``)+`"`)
		}
	}
	return strings.Join(terms, " OR ")
}

func encodeEmbedding(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(x))
	}
	return buf
}

func decodeEmbedding(buf []byte) []float32 {
	v := make([]float32, len(buf)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return v
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
