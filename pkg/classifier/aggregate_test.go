package classifier

import (
	"testing"

	"github.com/guardianhq/guardian/pkg/graph"
	"github.com/guardianhq/guardian/pkg/patterns"
)

func TestCategoryConfidence(t *testing.T) {
	tests := []struct {
		name string
		top  float64
		occ  int
		want float64
	}{
		{"single match unchanged", 0.6, 1, 0.6},
		{"two matches lifted", 0.6, 2, 0.66},
		{"capped", 0.9, 5, 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := categoryConfidence(tt.top, tt.occ)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("categoryConfidence(%v, %d) = %v, want %v", tt.top, tt.occ, got, tt.want)
			}
		})
	}
}

func TestRiskScoreEmpty(t *testing.T) {
	if got := riskScore(nil, 0, nil, graph.Features{}); got != 0 {
		t.Errorf("risk = %d, want 0", got)
	}
}

func TestRiskScoreClampedHigh(t *testing.T) {
	threats := []Threat{
		{Category: patterns.CategoryMalware, ConfidenceScore: 0.95},
		{Category: patterns.CategoryPII, ConfidenceScore: 0.95},
		{Category: patterns.CategoryPhishing, ConfidenceScore: 0.95},
	}
	factors := map[string]float64{"credential_harvesting": 1.0, "known_threat": 1.0}
	g := graph.Features{GraphScore: 1.0, CoordinationDetected: true, RiskFactors: map[string]float64{"url_repetition": 0.3}}
	if got := riskScore(threats, 0, factors, g); got != 100 {
		t.Errorf("risk = %d, want clamped 100", got)
	}
}

func TestRiskScoreGraphAddition(t *testing.T) {
	g := graph.Features{GraphScore: 0.5, CoordinationDetected: true, RiskFactors: map[string]float64{"url_repetition": 0.3}}
	// 25 * 0.5 * 1.1 = 13.75, truncated.
	if got := riskScore(nil, 0, nil, g); got != 13 {
		t.Errorf("risk = %d, want 13", got)
	}
}

func TestRiskScoreSocialWeightGrows(t *testing.T) {
	threats := []Threat{{Category: patterns.CategorySocialEng, ConfidenceScore: 0.5}}
	one := riskScore(threats, 1, nil, graph.Features{})
	three := riskScore(threats, 3, nil, graph.Features{})
	if three <= one {
		t.Errorf("three matches scored %d, not above %d", three, one)
	}
}

func TestCoordinationThreatConfidence(t *testing.T) {
	th, ok := coordinationThreat(graph.Features{CoordinationDetected: true, GraphScore: 0.8})
	if !ok {
		t.Fatal("coordination threat not produced")
	}
	if th.ConfidenceScore != 0.9 {
		t.Errorf("confidence = %v, want capped at 0.9", th.ConfidenceScore)
	}
	if _, ok := coordinationThreat(graph.Features{GraphScore: 0.8}); ok {
		t.Error("threat produced without coordination")
	}
}
