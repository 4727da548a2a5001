// Package graph extracts structured entities from text (URLs, mentions,
// hashtags, IPs, emails) and derives a coordination risk score from repeated
// or duplicated entities, the signature of inauthentic mass-posting.
package graph

import (
	"regexp"
	"sort"
	"strings"
)

// Entity categories.
const (
	EntityURL     = "url"
	EntityMention = "mention"
	EntityHashtag = "hashtag"
	EntityIP      = "ip"
	EntityEmail   = "email"
)

// Pre-compiled extraction patterns, one independent scan per category.
// The IPv4 pattern validates octet ranges to avoid matching version strings.
var (
	reURL     = regexp.MustCompile(`https?://[^\s<>"]+|www\.[^\s<>"]+`)
	reMention = regexp.MustCompile(`@[A-Za-z0-9_]{2,}`)
	reHashtag = regexp.MustCompile(`#[A-Za-z0-9_]+`)
	reIPv4    = regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\.){3}(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\b`)
	reEmail   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

// Features is the per-request result of graph analysis. Deterministic and
// pure: same text, same features.
type Features struct {
	Entities             []string            `json:"entities"`
	EntityCount          int                 `json:"entity_count"`
	GraphScore           float64             `json:"graph_score"`
	CoordinationDetected bool                `json:"coordination_detected"`
	EntityCategories     map[string][]string `json:"entity_categories"`
	RiskFactors          map[string]float64  `json:"risk_factors"`
}

// Analyze scans the text and computes coordination heuristics. Three
// independent signals each contribute one coordination indicator:
// hashtag amplification, URL repetition, and mention flooding.
func Analyze(text string) Features {
	urls := reURL.FindAllString(text, -1)
	mentions := reMention.FindAllString(text, -1)
	hashtags := reHashtag.FindAllString(text, -1)
	ips := reIPv4.FindAllString(text, -1)
	emails := reEmail.FindAllString(text, -1)

	// Emails also match the mention pattern on their local part; drop
	// mentions that are inside an email address.
	mentions = filterEmailMentions(mentions, emails)

	occurrences := map[string]int{}
	categories := map[string][]string{}
	record := func(category string, found []string) {
		seen := map[string]bool{}
		for _, e := range found {
			occurrences[e]++
			if !seen[e] {
				seen[e] = true
				categories[category] = append(categories[category], e)
			}
		}
		sort.Strings(categories[category])
	}
	record(EntityURL, urls)
	record(EntityMention, mentions)
	record(EntityHashtag, hashtags)
	record(EntityIP, ips)
	record(EntityEmail, emails)

	riskFactors := map[string]float64{}
	indicators := 0

	if len(hashtags) > 2 && hasRepeat(hashtags) {
		indicators++
		riskFactors["hashtag_amplification"] = 0.3
	}
	if len(urls) > 1 && allIdentical(urls) {
		indicators++
		riskFactors["url_repetition"] = 0.3
	}
	if len(mentions) > 3 {
		indicators++
		riskFactors["mention_flooding"] = 0.25
	}

	diversity := len(occurrences)
	frequency := 0
	for _, n := range occurrences {
		frequency += n
	}

	score := (0.4*float64(diversity) + 0.3*float64(frequency) + 0.3*(float64(indicators)*0.2)) / 10
	if score > 1 {
		score = 1
	}
	if score < 0 {
		score = 0
	}

	entities := make([]string, 0, diversity)
	for e := range occurrences {
		entities = append(entities, e)
	}
	sort.Strings(entities)

	return Features{
		Entities:             entities,
		EntityCount:          diversity,
		GraphScore:           score,
		CoordinationDetected: indicators > 0,
		EntityCategories:     categories,
		RiskFactors:          riskFactors,
	}
}

func hasRepeat(items []string) bool {
	seen := map[string]bool{}
	for _, it := range items {
		if seen[it] {
			return true
		}
		seen[it] = true
	}
	return false
}

func allIdentical(items []string) bool {
	for _, it := range items[1:] {
		if it != items[0] {
			return false
		}
	}
	return true
}

func filterEmailMentions(mentions, emails []string) []string {
	if len(emails) == 0 {
		return mentions
	}
	var out []string
	for _, m := range mentions {
		inEmail := false
		for _, e := range emails {
			if strings.Contains(e, m) {
				inEmail = true
				break
			}
		}
		if !inEmail {
			out = append(out, m)
		}
	}
	return out
}
