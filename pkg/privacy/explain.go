package privacy

import (
	"fmt"
	"strings"

	"github.com/guardianhq/guardian/pkg/config"
)

// ThreatSummary is the slice of a detected threat that explanations expose.
type ThreatSummary struct {
	Category   string   `json:"category"`
	Confidence float64  `json:"confidence"`
	Patterns   []string `json:"patterns,omitempty"`
}

// Explanation is the caller-facing account of why a score was assigned.
// Minimal carries the summary line only, medium adds per-threat categories
// and confidences, full adds matched pattern names and risk factors.
type Explanation struct {
	Summary     string             `json:"summary"`
	RiskScore   int                `json:"risk_score"`
	Threats     []ThreatSummary    `json:"threats,omitempty"`
	RiskFactors map[string]float64 `json:"risk_factors,omitempty"`
	Redactions  []string           `json:"redactions,omitempty"`
	Level       config.DetailLevel `json:"level"`
}

// BuildExplanation assembles an explanation at the requested detail level.
// Compliance mode changes the summary wording, never the score.
func BuildExplanation(score int, threats []ThreatSummary, riskFactors map[string]float64, redactions []string, level config.DetailLevel, compliance bool) Explanation {
	ex := Explanation{
		Summary:   summarize(score, len(threats), compliance),
		RiskScore: score,
		Level:     level,
	}
	if level == config.DetailMinimal {
		return ex
	}

	for _, t := range threats {
		ts := ThreatSummary{Category: t.Category, Confidence: t.Confidence}
		if level == config.DetailFull {
			ts.Patterns = t.Patterns
		}
		ex.Threats = append(ex.Threats, ts)
	}
	if level == config.DetailFull {
		ex.RiskFactors = riskFactors
		ex.Redactions = redactions
	}
	return ex
}

func summarize(score, threatCount int, compliance bool) string {
	var b strings.Builder
	switch {
	case score >= 70:
		b.WriteString("high risk")
	case score >= 40:
		b.WriteString("elevated risk")
	case score > 0:
		b.WriteString("low risk")
	default:
		b.WriteString("no risk indicators")
	}
	if threatCount > 0 {
		fmt.Fprintf(&b, ", %d threat signal(s) detected", threatCount)
	}
	if compliance {
		b.WriteString("; assessment produced under compliance reporting rules")
	}
	return b.String()
}
