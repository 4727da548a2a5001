package classifier

import (
	"fmt"
	"sort"

	"github.com/guardianhq/guardian/pkg/patterns"
)

// matchBank scans text against every rule in the bank. Accepted match spans
// never overlap: the first accepted span wins and later overlapping hits are
// dropped, scanning categories and rules in registration order. Matches
// scoring below the category floor are rejected and do not reserve a span.
//
// Most rules contribute at most one match. Social engineering rules may
// contribute every non-overlapping occurrence, with each match after the
// first compounding the category's prior confidence.
func matchBank(bank *patterns.Bank, text string) []PatternMatch {
	sig := signalsFor(text)
	var accepted []PatternMatch
	overlaps := func(start, end int) bool {
		for _, m := range accepted {
			if start < m.End && m.Start < end {
				return true
			}
		}
		return false
	}

	for _, cat := range bank.Categories() {
		socialPrior := 0
		for _, rule := range bank.Rules(cat) {
			locs := rule.Regex.FindAllStringIndex(text, -1)
			if locs == nil {
				continue
			}
			multi := cat == patterns.CategorySocialEng
			for _, loc := range locs {
				if overlaps(loc[0], loc[1]) {
					continue
				}
				conf := scoreRule(rule, cat, text[loc[0]:loc[1]], sig)
				if multi && socialPrior > 0 {
					conf *= 1 + socialCompound*float64(socialPrior)
					if conf > socialConfidenceCap {
						conf = socialConfidenceCap
					}
				}
				if conf < floorFor(cat) {
					continue
				}
				accepted = append(accepted, PatternMatch{
					Rule:       rule.Name,
					Category:   cat,
					Start:      loc[0],
					End:        loc[1],
					Confidence: conf,
				})
				if multi {
					socialPrior++
				} else {
					break
				}
			}
		}
	}
	return accepted
}

// buildThreats folds matches into one Threat per category. The category
// confidence is the strongest match lifted by diminishing returns for
// repeated hits.
func buildThreats(matches []PatternMatch) []Threat {
	byCat := map[patterns.Category][]PatternMatch{}
	var order []patterns.Category
	for _, m := range matches {
		if _, ok := byCat[m.Category]; !ok {
			order = append(order, m.Category)
		}
		byCat[m.Category] = append(byCat[m.Category], m)
	}

	threats := make([]Threat, 0, len(order))
	for _, cat := range order {
		ms := byCat[cat]
		top := 0.0
		names := make([]string, 0, len(ms))
		for _, m := range ms {
			if m.Confidence > top {
				top = m.Confidence
			}
			names = append(names, m.Rule)
		}
		conf := categoryConfidence(top, len(ms))
		sort.Strings(names)
		threats = append(threats, Threat{
			Category:        cat,
			ConfidenceScore: conf,
			Details:         fmt.Sprintf("%d pattern match(es)", len(ms)),
			MatchedPatterns: dedupe(names),
		})
	}
	return threats
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	for i, s := range sorted {
		if i == 0 || s != sorted[i-1] {
			out = append(out, s)
		}
	}
	return out
}
