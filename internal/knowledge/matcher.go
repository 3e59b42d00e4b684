package knowledge

import (
	"regexp"
	"strings"

	"github.com/earlyed-hq/asked/internal/core/domain"
	"github.com/earlyed-hq/asked/internal/logger"
)

// Matcher answers queries from the static knowledge base.
type Matcher struct {
	entries []domain.KnowledgeBaseEntry
}

// NewMatcher creates a matcher over the given entries. With no entries,
// the built-in knowledge base is used.
func NewMatcher(entries ...domain.KnowledgeBaseEntry) *Matcher {
	if len(entries) == 0 {
		entries = Entries()
	}
	return &Matcher{entries: entries}
}

// Search returns entries applicable to the setting where the query contains
// one of the entry's keywords, or the query and the entry's canonical
// phrasing are substrings of each other. Matching is case-insensitive.
func (m *Matcher) Search(query string, setting domain.Setting) []domain.KnowledgeBaseEntry {
	q := normalise(query)
	if q == "" {
		return nil
	}

	var matched []domain.KnowledgeBaseEntry
	for _, e := range m.entries {
		if !e.Setting.AppliesTo(setting) {
			continue
		}
		if keywordHits(q, e) > 0 || mutualSubstring(q, normalise(e.Query)) {
			matched = append(matched, e)
		}
	}
	return matched
}

// StrongMatch applies the two-tier strength gate: an entry is only trusted
// as the answer source when the query hits at least two of its keywords or
// equals its canonical phrasing exactly. Weak single-keyword matches are
// discarded in favour of full retrieval.
func (m *Matcher) StrongMatch(query string, setting domain.Setting) (*domain.KnowledgeBaseEntry, bool) {
	q := normalise(query)
	if q == "" {
		return nil, false
	}

	var best *domain.KnowledgeBaseEntry
	bestHits := 0
	for i := range m.entries {
		e := &m.entries[i]
		if !e.Setting.AppliesTo(setting) {
			continue
		}
		if q == normalise(e.Query) {
			logger.Debug("KB exact canonical match: %s", e.ID)
			return e, true
		}
		if hits := keywordHits(q, *e); hits >= 2 && hits > bestHits {
			best = e
			bestHits = hits
		}
	}

	if best != nil {
		logger.Debug("KB strong match: %s (%d keyword hits)", best.ID, bestHits)
		return best, true
	}
	return nil, false
}

// priorityPatterns flag queries presumed to need full-document retrieval
// rather than a static curated answer: recency signals, breadth signals,
// and annex/appendix references.
var priorityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bnew\b`),
	regexp.MustCompile(`\bupdates?\b`),
	regexp.MustCompile(`\bchanges?\b`),
	regexp.MustCompile(`\blatest\b`),
	regexp.MustCompile(`\b20\d{2}\b`),
	regexp.MustCompile(`\bwhat are\b`),
	regexp.MustCompile(`\blist of\b`),
	regexp.MustCompile(`\ball the\b`),
	regexp.MustCompile(`\btell me about\b`),
	regexp.MustCompile(`\bannex\b`),
	regexp.MustCompile(`\bappendix\b`),
}

// IsPriorityQuery reports whether the knowledge base should be bypassed
// entirely for this query.
func IsPriorityQuery(query string) bool {
	q := normalise(query)
	for _, p := range priorityPatterns {
		if p.MatchString(q) {
			return true
		}
	}
	return false
}

func keywordHits(q string, e domain.KnowledgeBaseEntry) int {
	hits := 0
	for _, kw := range e.Keywords {
		if strings.Contains(q, strings.ToLower(kw)) {
			hits++
		}
	}
	return hits
}

func mutualSubstring(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func normalise(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
