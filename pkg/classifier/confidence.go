package classifier

import (
	"regexp"
	"strings"

	"github.com/guardianhq/guardian/pkg/patterns"
)

// Keyword lists feeding the context bonuses. The tag bonuses inspect the
// matched substring; the phishing whole-text bonuses inspect the full input.
// Matching is whole-word and case-insensitive.
var (
	urgencyKeywords   = []string{"urgent", "immediately", "asap", "now"}
	authorityKeywords = []string{"admin", "manager", "boss", "ceo"}
)

// Confidence multipliers and floors. A single rule hit starts from
// rule weight times category weight and is nudged by contextual signals,
// never above 1.0.
const (
	urgencyBonus        = 1.10
	authorityBonus      = 1.15
	multiUrgencyBonus   = 1.10 // phishing only, >1 distinct urgency keyword
	multiAuthorityBonus = 1.05 // phishing only, >1 distinct authority keyword
	longTextBonus       = 1.05 // text longer than 100 chars
	longTextThreshold   = 100

	// Matches scoring below their category's floor are rejected outright.
	confidenceFloor       = 0.30
	socialConfidenceFloor = 0.20
	socialCompound        = 0.05 // per prior social match
	socialConfidenceCap   = 0.95
)

var wordRe = regexp.MustCompile(`[a-z]+`)

// textSignals is computed once per analyzed text and shared across all rule
// scorings.
type textSignals struct {
	urgencyHits   int // distinct urgency keywords present
	authorityHits int
	longText      bool
}

func signalsFor(text string) textSignals {
	words := map[string]bool{}
	for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
		words[w] = true
	}
	s := textSignals{longText: len(text) > longTextThreshold}
	for _, k := range urgencyKeywords {
		if words[k] {
			s.urgencyHits++
		}
	}
	for _, k := range authorityKeywords {
		if words[k] {
			s.authorityHits++
		}
	}
	return s
}

func containsKeyword(s string, keywords []string) bool {
	words := map[string]bool{}
	for _, w := range wordRe.FindAllString(strings.ToLower(s), -1) {
		words[w] = true
	}
	for _, k := range keywords {
		if words[k] {
			return true
		}
	}
	return false
}

// scoreRule computes the confidence for one rule hit. matched is the
// substring the rule matched.
func scoreRule(rule *patterns.Rule, cat patterns.Category, matched string, sig textSignals) float64 {
	conf := rule.Weight * patterns.Weight(cat)

	if rule.HasContext(patterns.ContextUrgency) && containsKeyword(matched, urgencyKeywords) {
		conf *= urgencyBonus
	}
	if rule.HasContext(patterns.ContextAuthority) && containsKeyword(matched, authorityKeywords) {
		conf *= authorityBonus
	}
	if cat == patterns.CategoryPhishing {
		if sig.urgencyHits > 1 {
			conf *= multiUrgencyBonus
		}
		if sig.authorityHits > 1 {
			conf *= multiAuthorityBonus
		}
	}
	if sig.longText {
		conf *= longTextBonus
	}
	if conf > 1 {
		conf = 1
	}
	return conf
}

// floorFor returns the minimum confidence an accepted match must reach.
func floorFor(cat patterns.Category) float64 {
	if cat == patterns.CategorySocialEng {
		return socialConfidenceFloor
	}
	return confidenceFloor
}
