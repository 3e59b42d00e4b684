package domain

// Setting identifies which provision type a query or KB entry applies to.
type Setting string

// Provision types.
const (
	SettingNursery Setting = "nursery"
	SettingClub    Setting = "club"
	SettingBoth    Setting = "both"
)

// AppliesTo reports whether an entry with this setting serves a query
// made for the given setting. An empty query setting matches everything.
func (s Setting) AppliesTo(query Setting) bool {
	return s == SettingBoth || query == "" || s == query
}

// KBCategory groups knowledge base entries by topic.
type KBCategory string

// Knowledge base categories.
const (
	CategoryRatios         KBCategory = "ratios"
	CategorySafeguarding   KBCategory = "safeguarding"
	CategoryQualifications KBCategory = "qualifications"
	CategoryPremises       KBCategory = "premises"
	CategoryPaperwork      KBCategory = "paperwork"
)

// KnowledgeBaseEntry is a static, hand-curated fact. Entries are defined
// at build time, never mutated at runtime, and matched by substring or
// keyword only.
type KnowledgeBaseEntry struct {
	// ID uniquely identifies the entry, e.g. "ratio-mixed-ages".
	ID string

	// Query is the canonical phrasing of the question.
	Query string

	// Category groups the entry by topic.
	Category KBCategory

	// Setting restricts which provision types the entry applies to.
	Setting Setting

	// Answer is the curated answer text.
	Answer string

	// Keywords are matched case-insensitively as substrings of the query.
	Keywords []string

	// Source is the document the answer derives from, used for citation.
	Source string
}
