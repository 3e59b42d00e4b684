package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/earlyed-hq/asked/internal/core/domain"
	"github.com/earlyed-hq/asked/internal/logger"
)

// acronym maps a sector acronym to its expanded form. Expansion keeps the
// acronym in place ("DSL" -> "DSL Designated Safeguarding Lead") so exact
// acronym matches downstream are preserved.
type acronym struct {
	short    string
	expanded string
	pattern  *regexp.Regexp
}

func newAcronym(short, expanded string) acronym {
	return acronym{
		short:    short,
		expanded: expanded,
		pattern:  regexp.MustCompile(`(?i)\b` + short + `\b`),
	}
}

var acronyms = []acronym{
	newAcronym("KCSiE", "Keeping Children Safe in Education"),
	newAcronym("EYFS", "Early Years Foundation Stage"),
	newAcronym("DSL", "Designated Safeguarding Lead"),
	newAcronym("DBS", "Disclosure and Barring Service"),
	newAcronym("PFA", "Paediatric First Aid"),
	newAcronym("SEND", "Special Educational Needs and Disabilities"),
	newAcronym("SENCO", "Special Educational Needs Coordinator"),
	newAcronym("LADO", "Local Authority Designated Officer"),
}

// termNormalisations rewrite colloquial phrasings to the canonical forms
// used in the source documents, improving embedding and keyword match
// likelihood.
var termNormalisations = []struct {
	pattern     *regexp.Regexp
	replacement string
}{
	{regexp.MustCompile(`(?i)\bunder[- ]2s?\b`), "children under two"},
	{regexp.MustCompile(`(?i)\bunder[- ]3s?\b`), "children under three"},
	{regexp.MustCompile(`(?i)\bpre[- ]?schoolers?\b`), "preschool children"},
	{regexp.MustCompile(`(?i)\blittle ones\b`), "young children"},
	{regexp.MustCompile(`(?i)\bkids\b`), "children"},
	{regexp.MustCompile(`(?i)\bafter[- ]school club\b`), "out of school club"},
}

// intentRule pairs a pattern with an intent classification. Rules are
// evaluated in order; first match wins, so a query matching both "what is"
// and "must" classifies as definition.
type intentRule struct {
	pattern *regexp.Regexp
	intent  domain.QueryIntent
}

var intentRules = []intentRule{
	{regexp.MustCompile(`(?i)\bwhat is\b|\bwhat does .* mean\b|\bdefine\b|\bmeaning of\b`),
		domain.QueryIntent{Type: domain.IntentDefinition, Confidence: 0.9}},
	{regexp.MustCompile(`(?i)\bhow do\b|\bhow to\b|\bprocess for\b|\bsteps\b|\bprocedure\b`),
		domain.QueryIntent{Type: domain.IntentProcess, Confidence: 0.85}},
	{regexp.MustCompile(`(?i)\bmust\b|\brequired\b|\brequirements?\b|\bneed to\b|\bmandatory\b|\bhave to\b`),
		domain.QueryIntent{Type: domain.IntentRequirement, Confidence: 0.8}},
	{regexp.MustCompile(`(?i)\bwhen\b|\bhow often\b|\bhow long\b|\bdeadline\b|\bby what date\b`),
		domain.QueryIntent{Type: domain.IntentTiming, Confidence: 0.8}},
	{regexp.MustCompile(`(?i)\bwho\b|\bresponsible\b|\bresponsibilit(y|ies)\b|\bwhose\b`),
		domain.QueryIntent{Type: domain.IntentResponsibility, Confidence: 0.8}},
}

// generalIntent is the fallback when no rule matches.
var generalIntent = domain.QueryIntent{Type: domain.IntentGeneral, Confidence: 0.5}

// variationFamilies group interchangeable phrasings. When a query contains
// any member, one variation per alternative member is generated for retry
// attempts.
var variationFamilies = [][]string{
	{"ratios", "ratio", "staff ratio", "adult ratio"},
	{"safeguarding", "child protection"},
	{"training", "professional development"},
	{"paediatric first aid", "first aid"},
	{"supervision", "supervising staff"},
	{"risk assessment", "risk assessments"},
	{"key person", "key worker"},
}

// responseTemplates structure the downstream answer per intent type.
// The %s placeholder receives the query topic.
var responseTemplates = map[domain.IntentType]string{
	domain.IntentDefinition: "For definition questions about %s: state the definition, " +
		"where it is set out, and who it applies to.",
	domain.IntentProcess: "For process questions about %s: list the steps in order, " +
		"who carries out each step, and what records to keep.",
	domain.IntentRequirement: "For requirement questions about %s: specify what must be " +
		"done, the legal basis, consequences of non-compliance, and how to evidence it.",
	domain.IntentTiming: "For timing questions about %s: state the deadline or frequency, " +
		"what triggers it, and what happens if it is missed.",
	domain.IntentResponsibility: "For responsibility questions about %s: name the " +
		"accountable role, their duties, and who they escalate to.",
}

// templateConfidenceThreshold is the minimum intent confidence before a
// structured response template is returned.
const templateConfidenceThreshold = 0.7

// QueryEnhancer normalises queries, classifies intent, and generates
// retry variations.
type QueryEnhancer struct{}

// NewQueryEnhancer creates a query enhancer.
func NewQueryEnhancer() *QueryEnhancer {
	return &QueryEnhancer{}
}

// Enhance processes a raw query into its enhanced form.
func (e *QueryEnhancer) Enhance(query string) domain.EnhancedQuery {
	processed := expandAcronyms(strings.TrimSpace(query))
	processed = normaliseTerms(processed)

	intent := detectIntent(processed)
	variations := generateVariations(processed)

	logger.Debug("enhance: intent=%s (%.2f), %d variations", intent.Type, intent.Confidence, len(variations))

	return domain.EnhancedQuery{
		ProcessedQuery:   processed,
		Intent:           intent,
		Variations:       variations,
		ResponseTemplate: selectTemplate(intent, query),
	}
}

// expandAcronyms replaces every whole-word occurrence of a known acronym
// with "ACRONYM ExpandedForm". Word-boundary matching leaves words that
// merely contain an acronym (e.g. "DSLR") untouched.
func expandAcronyms(query string) string {
	for _, a := range acronyms {
		query = a.pattern.ReplaceAllString(query, a.short+" "+a.expanded)
	}
	return query
}

func normaliseTerms(query string) string {
	for _, n := range termNormalisations {
		query = n.pattern.ReplaceAllString(query, n.replacement)
	}
	return query
}

// detectIntent classifies the query by ordered pattern matching.
func detectIntent(query string) domain.QueryIntent {
	for _, rule := range intentRules {
		if rule.pattern.MatchString(query) {
			return rule.intent
		}
	}
	return generalIntent
}

// generateVariations produces alternate phrasings of the query, one per
// alternative term in each matched lexical family. Duplicates (and the
// query itself) are removed. Used for retry attempts, not parallel fan-out.
func generateVariations(query string) []string {
	lower := strings.ToLower(query)

	var variations []string
	seen := map[string]bool{lower: true}

	for _, family := range variationFamilies {
		matched := ""
		for _, term := range family {
			if strings.Contains(lower, term) {
				matched = term
				break
			}
		}
		if matched == "" {
			continue
		}
		for _, alt := range family {
			if alt == matched {
				continue
			}
			v := strings.ReplaceAll(lower, matched, alt)
			if !seen[v] {
				seen[v] = true
				variations = append(variations, v)
			}
		}
	}

	return variations
}

// selectTemplate returns a structural response template when intent
// confidence clears the threshold, otherwise empty (callers fall back to
// a generic unstructured answer format).
func selectTemplate(intent domain.QueryIntent, query string) string {
	if intent.Confidence < templateConfidenceThreshold {
		return ""
	}
	tmpl, ok := responseTemplates[intent.Type]
	if !ok {
		return ""
	}
	return fmt.Sprintf(tmpl, strings.TrimSpace(query))
}
