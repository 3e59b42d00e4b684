package services

import (
	"regexp"
	"strings"

	"github.com/earlyed-hq/asked/internal/logger"
)

// scopeRule pairs a predicate with a verdict. Rules are evaluated in
// order and the first matching rule wins, which keeps the "first match
// wins" semantics explicit rather than implicit in code order.
type scopeRule struct {
	name    string
	matches func(query string) bool
	inScope bool
}

// ScopeDetector filters obviously off-topic queries before any retrieval
// work is done.
type ScopeDetector struct {
	rules        []scopeRule
	shortCircuit []*regexp.Regexp
}

// offTopicPatterns reject greetings, small talk and generic non-childcare
// topics. Checked first.
var offTopicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(hi|hello|hey|good (morning|afternoon|evening))\b`),
	regexp.MustCompile(`\bhow are you\b`),
	regexp.MustCompile(`\b(who|what) are you\b`),
	regexp.MustCompile(`\bweather\b`),
	regexp.MustCompile(`\b(recipe|cooking|baking)\b`),
	regexp.MustCompile(`\b(football|cricket|rugby|tennis)\b`),
	regexp.MustCompile(`\b(flights?|hotels?|tourist)\b`),
	regexp.MustCompile(`\b(javascript|python|programming|software)\b`),
	regexp.MustCompile(`\b(movie|film|music|song)\b`),
}

// domainKeywords accept anything recognisably about childcare compliance.
var domainKeywords = []string{
	"kcsie", "eyfs", "ofsted", "ratio", "safeguard", "dbs",
	"nursery", "childcare", "childminder", "child protection",
	"first aid", "paediatric", "preschool", "pre-school",
	"early years", "wraparound", "dsl", "lado", "send",
	"staff", "children", "welfare", "inspection", "annex", "appendix",
}

// questionWords support the benefit-of-the-doubt fallback: unusual
// phrasings of domain questions should not be rejected outright.
var questionWords = []string{
	"what", "how", "when", "where", "why", "who", "which",
	"do", "does", "can", "must", "should", "is", "are",
}

// shortCircuitPatterns is the narrower list the orchestrator uses to cut
// the whole pipeline short. Deliberately smaller than offTopicPatterns:
// only unambiguous small talk is short-circuited end to end, while the
// full scope check stays lenient. Do not unify the two lists without
// product confirmation.
var shortCircuitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(hi|hello|hey|good (morning|afternoon|evening))\b`),
	regexp.MustCompile(`\bhow are you\b`),
	regexp.MustCompile(`\b(who|what) are you\b`),
	regexp.MustCompile(`\bweather\b`),
}

// NewScopeDetector creates a detector with the built-in rule set.
func NewScopeDetector() *ScopeDetector {
	rules := make([]scopeRule, 0, 4)

	rules = append(rules, scopeRule{
		name: "off-topic pattern",
		matches: func(q string) bool {
			for _, p := range offTopicPatterns {
				if p.MatchString(q) {
					return true
				}
			}
			return false
		},
		inScope: false,
	})

	rules = append(rules, scopeRule{
		name: "domain keyword",
		matches: func(q string) bool {
			for _, kw := range domainKeywords {
				if strings.Contains(q, kw) {
					return true
				}
			}
			return false
		},
		inScope: true,
	})

	rules = append(rules, scopeRule{
		name: "question fallback",
		matches: func(q string) bool {
			if len(q) <= 10 {
				return false
			}
			for _, w := range strings.Fields(q) {
				for _, qw := range questionWords {
					if w == qw {
						return true
					}
				}
			}
			return false
		},
		inScope: true,
	})

	return &ScopeDetector{rules: rules, shortCircuit: shortCircuitPatterns}
}

// InScope reports whether the query looks like a childcare compliance
// question. Unmatched queries are rejected.
func (d *ScopeDetector) InScope(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, rule := range d.rules {
		if rule.matches(q) {
			logger.Debug("scope: rule %q -> in scope %t", rule.name, rule.inScope)
			return rule.inScope
		}
	}
	logger.Debug("scope: no rule matched, rejecting")
	return false
}

// ShortCircuit reports whether the orchestrator should skip the entire
// pipeline and return the fixed off-topic answer.
func (d *ScopeDetector) ShortCircuit(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, p := range d.shortCircuit {
		if p.MatchString(q) {
			return true
		}
	}
	return false
}
