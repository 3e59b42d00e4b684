package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earlyed-hq/asked/internal/core/domain"
)

func sourced(source string, page int, section string, content string, similarity float64) domain.SearchResult {
	return domain.SearchResult{
		DocumentChunk: domain.DocumentChunk{
			Content:  content,
			Metadata: domain.ChunkMetadata{Source: source, Page: page, Section: section},
		},
		Similarity: similarity,
	}
}

func TestAssemble_EmptyResults(t *testing.T) {
	assembler := NewAssembler(DefaultAssemblerConfig())

	assert.Empty(t, assembler.Assemble("any query", nil))
}

func TestAssemble_CitationFormat(t *testing.T) {
	assembler := NewAssembler(DefaultAssemblerConfig())

	tests := []struct {
		name   string
		result domain.SearchResult
		want   string
	}{
		{
			"full citation",
			sourced("KCSiE 2025", 12, "Part one", "All staff should read part one.", 0.9),
			"[KCSiE 2025, p.12, Part one]\nAll staff should read part one.",
		},
		{
			"no page",
			sourced("EYFS Framework", 0, "Section 3.28", "Ratios apply at all times.", 0.9),
			"[EYFS Framework, Section 3.28]\nRatios apply at all times.",
		},
		{
			"no section",
			sourced("Ofsted Handbook", 7, "", "Inspectors will check the register.", 0.9),
			"[Ofsted Handbook, p.7]\nInspectors will check the register.",
		},
		{
			"source only",
			sourced("EYFS Updates March 2025", 0, "", "Amended from September.", 0.9),
			"[EYFS Updates March 2025]\nAmended from September.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assembler.Assemble("visitor policy", []domain.SearchResult{tt.result}))
		})
	}
}

func TestAssemble_TopPassagesBySimilarity(t *testing.T) {
	assembler := NewAssembler(DefaultAssemblerConfig())

	results := []domain.SearchResult{
		sourced("A", 0, "", "passage one", 0.62),
		sourced("B", 0, "", "passage two", 0.91),
		sourced("C", 0, "", "passage three", 0.74),
		sourced("D", 0, "", "passage four", 0.55),
		sourced("E", 0, "", "passage five", 0.83),
		sourced("F", 0, "", "passage six", 0.51),
		sourced("G", 0, "", "passage seven", 0.49),
	}

	got := assembler.Assemble("visitor policy", results)

	passages := strings.Split(got, "\n\n---\n\n")
	require.Len(t, passages, 5, "default budget is five passages")
	assert.True(t, strings.HasPrefix(passages[0], "[B]"))
	assert.True(t, strings.HasPrefix(passages[1], "[E]"))
	assert.True(t, strings.HasPrefix(passages[2], "[C]"))
	assert.NotContains(t, got, "passage six")
	assert.NotContains(t, got, "passage seven")
}

func TestAssemble_UpdatesPromotedForEYFSQueries(t *testing.T) {
	assembler := NewAssembler(DefaultAssemblerConfig())

	results := []domain.SearchResult{
		sourced("EYFS Framework", 0, "", "framework one", 0.95),
		sourced("EYFS Updates March 2025", 0, "", "update one", 0.58),
		sourced("KCSiE 2025", 0, "", "kcsie one", 0.90),
		sourced("EYFS Updates March 2025", 0, "", "update two", 0.66),
		sourced("Ofsted Handbook", 0, "", "handbook one", 0.85),
		sourced("EYFS Updates March 2025", 0, "", "update three", 0.52),
		sourced("EYFS Updates March 2025", 0, "", "update four", 0.61),
		sourced("EYFS Updates March 2025", 0, "", "update five", 0.49),
		sourced("EYFS Framework", 0, "", "framework two", 0.80),
	}

	got := assembler.Assemble("what changed in the eyfs this year", results)

	passages := strings.Split(got, "\n\n---\n\n")
	require.Len(t, passages, 6, "re-ranking widens inclusion to 4 updates + 2 others")

	// Top four updates by similarity come first, despite lower scores.
	assert.Contains(t, passages[0], "update two")
	assert.Contains(t, passages[1], "update four")
	assert.Contains(t, passages[2], "update one")
	assert.Contains(t, passages[3], "update three")

	// Then the top two passages from everything else.
	assert.Contains(t, passages[4], "framework one")
	assert.Contains(t, passages[5], "kcsie one")

	assert.NotContains(t, got, "update five")
	assert.NotContains(t, got, "handbook one")
}

func TestAssemble_NoPromotionWithoutEYFSQuery(t *testing.T) {
	assembler := NewAssembler(DefaultAssemblerConfig())

	results := []domain.SearchResult{
		sourced("KCSiE 2025", 0, "", "kcsie one", 0.90),
		sourced("EYFS Updates March 2025", 0, "", "update one", 0.58),
	}

	got := assembler.Assemble("safeguarding referrals", results)

	passages := strings.Split(got, "\n\n---\n\n")
	require.Len(t, passages, 2)
	assert.Contains(t, passages[0], "kcsie one", "plain similarity order without the eyfs signal")
}

func TestAssemble_NoPromotionWithoutUpdatesCandidates(t *testing.T) {
	assembler := NewAssembler(DefaultAssemblerConfig())

	results := []domain.SearchResult{
		sourced("EYFS Framework", 0, "", "framework one", 0.7),
		sourced("KCSiE 2025", 0, "", "kcsie one", 0.9),
	}

	got := assembler.Assemble("eyfs ratios", results)

	passages := strings.Split(got, "\n\n---\n\n")
	require.Len(t, passages, 2)
	assert.Contains(t, passages[0], "kcsie one")
}

func TestAssemble_CharacterBudget(t *testing.T) {
	cfg := DefaultAssemblerConfig()
	cfg.MaxContextChars = 80
	assembler := NewAssembler(cfg)

	long := strings.Repeat("x", 60)
	results := []domain.SearchResult{
		sourced("A", 0, "", long, 0.9),
		sourced("B", 0, "", long, 0.8),
	}

	got := assembler.Assemble("visitor policy", results)

	assert.Contains(t, got, "[A]")
	assert.NotContains(t, got, "[B]", "second passage would exceed the budget")
}

func TestAssemble_FirstPassageAlwaysIncluded(t *testing.T) {
	cfg := DefaultAssemblerConfig()
	cfg.MaxContextChars = 10
	assembler := NewAssembler(cfg)

	results := []domain.SearchResult{
		sourced("EYFS Framework", 0, "", strings.Repeat("y", 500), 0.9),
	}

	got := assembler.Assemble("ratios", results)

	assert.Contains(t, got, "[EYFS Framework]", "an oversized best passage is kept, not dropped")
}
