package classifier

import (
	"github.com/guardianhq/guardian/pkg/graph"
	"github.com/guardianhq/guardian/pkg/intel"
	"github.com/guardianhq/guardian/pkg/patterns"
	"github.com/guardianhq/guardian/pkg/privacy"
)

// PatternMatch is one accepted rule hit. Spans are half-open byte offsets
// into the analyzed text and never overlap across accepted matches.
type PatternMatch struct {
	Rule       string            `json:"rule"`
	Category   patterns.Category `json:"category"`
	Start      int               `json:"start"`
	End        int               `json:"end"`
	Confidence float64           `json:"confidence"`
}

// Threat is the per-category aggregation surfaced to callers.
type Threat struct {
	Category        patterns.Category `json:"category"`
	ConfidenceScore float64           `json:"confidence_score"`
	Details         string            `json:"details"`
	MatchedPatterns []string          `json:"matched_patterns,omitempty"`
}

// Metadata carries everything about an analysis that is not the score or the
// threat list.
type Metadata struct {
	IsAIGenerated     *bool                `json:"is_ai_generated,omitempty"`
	Language          string               `json:"language"`
	GraphEntities     []string             `json:"graph_entities,omitempty"`
	GraphScore        float64              `json:"graph_score"`
	PropagandaScore   float64              `json:"propaganda_score"`
	PrivacyPreserving bool                 `json:"privacy_preserving"`
	EnrichmentSource  string               `json:"enrichment_source,omitempty"`
	Explanation       *privacy.Explanation `json:"explanation,omitempty"`
	Error             string               `json:"error,omitempty"`
}

// Result is the full outcome of analyzing one text.
type Result struct {
	RiskScore       int      `json:"risk_score"`
	ThreatsDetected []Threat `json:"threats_detected"`
	Metadata        Metadata `json:"metadata"`

	// Internal detail kept for explanations and tests.
	Matches     []PatternMatch `json:"-"`
	IntelResult intel.Result   `json:"-"`
	Graph       graph.Features `json:"-"`
}
