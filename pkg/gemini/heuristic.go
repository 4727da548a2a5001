package gemini

import (
	"regexp"
	"strings"
)

// Local stand-in for model judgement when enrichment is unavailable. Cheap
// surface signals only; it errs toward false negatives.
var aiPhrases = []string{
	"as a large language model",
	"as an ai language model",
	"i cannot fulfill",
	"i'm just an ai",
	"it is important to note that",
	"in conclusion, it is worth noting",
}

var aiStarters = regexp.MustCompile(`(?i)^(certainly|absolutely|in summary|overall|furthermore),`)

var repeatedPunct = regexp.MustCompile(`[!?]{3,}`)

// LocalAIHeuristic guesses whether text reads machine-generated.
func LocalAIHeuristic(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range aiPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	if aiStarters.MatchString(strings.TrimSpace(text)) {
		return true
	}
	if len(repeatedPunct.FindAllString(text, -1)) >= 3 {
		return true
	}
	return false
}
