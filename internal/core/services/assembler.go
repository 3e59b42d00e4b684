package services

import (
	"fmt"
	"strings"

	"github.com/earlyed-hq/asked/internal/core/domain"
	"github.com/earlyed-hq/asked/internal/logger"
)

// AssemblerConfig tunes context assembly.
type AssemblerConfig struct {
	// MaxPassages is the default number of passages included.
	MaxPassages int

	// UpdatesSource marks the time-sensitive amendments document whose
	// passages are promoted for EYFS-flavoured queries.
	UpdatesSource string

	// UpdatesCount and OthersCount split the widened inclusion budget when
	// the updates re-ranking applies (UpdatesCount + OthersCount passages).
	UpdatesCount int
	OthersCount  int

	// MaxContextChars is the overall context size budget in characters.
	MaxContextChars int

	// Separator joins formatted passages.
	Separator string
}

// DefaultAssemblerConfig returns the canonical assembly tuning.
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		MaxPassages:     5,
		UpdatesSource:   "EYFS Updates",
		UpdatesCount:    4,
		OthersCount:     2,
		MaxContextChars: 8000,
		Separator:       "\n\n---\n\n",
	}
}

// Assembler re-ranks, trims and formats candidate passages into the final
// source-attributed context block.
type Assembler struct {
	cfg AssemblerConfig
}

// NewAssembler creates an assembler.
func NewAssembler(cfg AssemblerConfig) *Assembler {
	if cfg.MaxPassages <= 0 {
		cfg = DefaultAssemblerConfig()
	}
	return &Assembler{cfg: cfg}
}

// Assemble produces the context string for a query from ranked results.
//
// Recency-sensitive regulatory amendments must not be crowded out by
// larger, older documents with marginally higher generic similarity: for
// EYFS-flavoured queries whose candidates include passages from the
// updates source, updates-sourced passages are placed first (top 4) ahead
// of the rest (top 2), widening the inclusion to 6 passages.
func (a *Assembler) Assemble(query string, results []domain.SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	selected := a.selectPassages(query, results)

	var b strings.Builder
	included := 0
	for _, r := range selected {
		passage := formatPassage(r)
		if included > 0 && b.Len()+len(a.cfg.Separator)+len(passage) > a.cfg.MaxContextChars {
			logger.Debug("assemble: context budget reached after %d passages", included)
			break
		}
		if included > 0 {
			b.WriteString(a.cfg.Separator)
		}
		b.WriteString(passage)
		included++
	}

	logger.Debug("assemble: %d passages, %d chars", included, b.Len())
	return b.String()
}

func (a *Assembler) selectPassages(query string, results []domain.SearchResult) []domain.SearchResult {
	if a.isUpdatesQuery(query, results) {
		return a.updatesFirst(results)
	}

	sorted := make([]domain.SearchResult, len(results))
	copy(sorted, results)
	sortBySimilarity(sorted)
	return truncate(sorted, a.cfg.MaxPassages)
}

func (a *Assembler) isUpdatesQuery(query string, results []domain.SearchResult) bool {
	q := strings.ToLower(query)
	if !strings.Contains(q, "eyfs") && !strings.Contains(q, "early years foundation stage") {
		return false
	}
	for _, r := range results {
		if strings.Contains(r.Metadata.Source, a.cfg.UpdatesSource) {
			return true
		}
	}
	return false
}

// updatesFirst splits candidates into updates-sourced and others, sorts
// each group independently by similarity, and concatenates updates first.
func (a *Assembler) updatesFirst(results []domain.SearchResult) []domain.SearchResult {
	var updates, others []domain.SearchResult
	for _, r := range results {
		if strings.Contains(r.Metadata.Source, a.cfg.UpdatesSource) {
			updates = append(updates, r)
		} else {
			others = append(others, r)
		}
	}

	sortBySimilarity(updates)
	sortBySimilarity(others)

	selected := truncate(updates, a.cfg.UpdatesCount)
	return append(selected, truncate(others, a.cfg.OthersCount)...)
}

// formatPassage renders one passage with its citation line.
func formatPassage(r domain.SearchResult) string {
	parts := []string{r.Metadata.Source}
	if r.Metadata.Page > 0 {
		parts = append(parts, fmt.Sprintf("p.%d", r.Metadata.Page))
	}
	if r.Metadata.Section != "" {
		parts = append(parts, r.Metadata.Section)
	}
	return "[" + strings.Join(parts, ", ") + "]\n" + r.Content
}

func truncate(results []domain.SearchResult, n int) []domain.SearchResult {
	if len(results) > n {
		return results[:n]
	}
	return results
}
