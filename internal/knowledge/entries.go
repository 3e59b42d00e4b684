// Package knowledge holds the static, hand-curated knowledge base:
// known edge-case questions with vetted answers, checked before the
// expensive retrieval pipeline runs.
package knowledge

import "github.com/earlyed-hq/asked/internal/core/domain"

// Entries returns the built-in knowledge base. Entries are defined at
// build time and never mutated at runtime.
func Entries() []domain.KnowledgeBaseEntry {
	return []domain.KnowledgeBaseEntry{
		{
			ID:       "ratio-mixed-ages",
			Query:    "what are the ratios for mixed age groups",
			Category: domain.CategoryRatios,
			Setting:  domain.SettingNursery,
			Answer: "Where children of mixed ages are in the same group, providers must " +
				"apply the ratio for the youngest child present to the whole group, unless " +
				"children are split into distinct age groups each meeting its own ratio. " +
				"For example, a group containing any child under two must be staffed at 1:3.",
			Keywords: []string{"mixed age", "ratios", "different ages"},
			Source:   "EYFS Framework",
		},
		{
			ID:       "ratio-under-two",
			Query:    "what is the staff ratio for children under two",
			Category: domain.CategoryRatios,
			Setting:  domain.SettingNursery,
			Answer: "For children under two the ratio is one adult to three children. At " +
				"least one member of staff must hold a full and relevant level 3 " +
				"qualification, and at least half of all other staff must hold a full and " +
				"relevant level 2 qualification.",
			Keywords: []string{"under two", "under 2", "babies"},
			Source:   "EYFS Framework",
		},
		{
			ID:       "ratio-club",
			Query:    "what ratios apply in an out of school club",
			Category: domain.CategoryRatios,
			Setting:  domain.SettingClub,
			Answer: "For wraparound and holiday provision caring for children aged three " +
				"and over, a ratio of one adult to eight children applies where care is " +
				"provided for children in the early years age group. For school-age " +
				"children there is no statutory ratio, but providers must ensure adequate " +
				"supervision at all times.",
			Keywords: []string{"club ratio", "out of school", "wraparound", "holiday club"},
			Source:   "EYFS Framework",
		},
		{
			ID:       "dsl-role",
			Query:    "who should be the designated safeguarding lead",
			Category: domain.CategorySafeguarding,
			Setting:  domain.SettingBoth,
			Answer: "Every setting must have a practitioner designated to take lead " +
				"responsibility for safeguarding. The designated safeguarding lead must " +
				"attend a child protection training course that enables them to identify, " +
				"understand and respond appropriately to signs of possible abuse and " +
				"neglect, and must provide support and training to other staff.",
			Keywords: []string{"designated safeguarding lead", "dsl", "lead practitioner"},
			Source:   "KCSiE 2025",
		},
		{
			ID:       "safeguarding-concern",
			Query:    "how do I report a safeguarding concern about a child",
			Category: domain.CategorySafeguarding,
			Setting:  domain.SettingBoth,
			Answer: "Concerns about a child's welfare should be reported to the designated " +
				"safeguarding lead without delay. If the concern involves a member of " +
				"staff, it must be referred to the local authority designated officer " +
				"(LADO). Where a child is in immediate danger, contact the police or " +
				"children's social care directly.",
			Keywords: []string{"report a concern", "safeguarding concern", "referral"},
			Source:   "KCSiE 2025",
		},
		{
			ID:       "paediatric-first-aid",
			Query:    "who needs a paediatric first aid certificate",
			Category: domain.CategoryQualifications,
			Setting:  domain.SettingBoth,
			Answer: "At least one person with a current paediatric first aid certificate " +
				"must be on the premises and available at all times when children are " +
				"present, and must accompany children on outings. Certificates must be " +
				"renewed every three years.",
			Keywords: []string{"first aid", "pfa", "paediatric"},
			Source:   "EYFS Framework",
		},
		{
			ID:       "dbs-checks",
			Query:    "which staff need a dbs check",
			Category: domain.CategorySafeguarding,
			Setting:  domain.SettingBoth,
			Answer: "All staff and volunteers working directly with children require an " +
				"enhanced DBS check with barred list information before starting " +
				"unsupervised work. Providers must also make any other checks necessary " +
				"to satisfy themselves that staff are suitable.",
			Keywords: []string{"dbs", "disclosure and barring", "vetting"},
			Source:   "Ofsted Early Years Inspection Handbook",
		},
		{
			ID:       "manager-qualification",
			Query:    "what qualification does a nursery manager need",
			Category: domain.CategoryQualifications,
			Setting:  domain.SettingNursery,
			Answer: "In group settings the manager must hold at least a full and relevant " +
				"level 3 qualification, and providers should aspire to a manager with a " +
				"level 6 qualification. The named deputy must be capable of taking charge " +
				"in the manager's absence.",
			Keywords: []string{"manager qualification", "level 3", "deputy"},
			Source:   "EYFS Framework",
		},
		{
			ID:       "indoor-space",
			Query:    "how much indoor space is required per child",
			Category: domain.CategoryPremises,
			Setting:  domain.SettingNursery,
			Answer: "Indoor space requirements are 3.5 square metres per child under two, " +
				"2.5 square metres per two-year-old, and 2.3 square metres per child aged " +
				"three to five. These are minimums of usable space, measured wall to wall.",
			Keywords: []string{"indoor space", "square metres", "premises"},
			Source:   "EYFS Framework",
		},
		{
			ID:       "accident-records",
			Query:    "how long must accident records be kept",
			Category: domain.CategoryPaperwork,
			Setting:  domain.SettingBoth,
			Answer: "Providers must keep a record of accidents and first aid treatment and " +
				"inform parents or carers on the day. Records relating to individual " +
				"children are retained for a reasonable period; a common approach is " +
				"until the child's 21st birthday for accident records.",
			Keywords: []string{"accident record", "accident book", "retention"},
			Source:   "EYFS Framework",
		},
	}
}
