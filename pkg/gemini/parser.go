package gemini

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// generateContent response shape, trimmed to the fields we read.
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// enrichPayload is the JSON the model is instructed to emit. fromFallback is
// set when the strict decode failed and the fields were regex-salvaged.
type enrichPayload struct {
	PropagandaConfidence float64 `json:"propaganda_disinformation_confidence"`
	IsAIGenerated        bool    `json:"is_ai_generated"`
	Language             string  `json:"language"`

	fromFallback bool
}

var codeFence = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// stripCodeFences removes a surrounding markdown fence if present.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if m := codeFence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}

// parseResponse decodes the API envelope and the model's inner JSON. Every
// structural surprise is a parse error, never a panic.
func parseResponse(body []byte) (*enrichPayload, error) {
	var resp generateResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &EnrichError{Kind: KindParse, Err: fmt.Errorf("decode envelope: %w", err)}
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, &EnrichError{Kind: KindParse, Err: fmt.Errorf("empty candidates")}
	}
	raw := stripCodeFences(resp.Candidates[0].Content.Parts[0].Text)

	var payload enrichPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		if fb, ok := fallbackExtract(raw); ok {
			return fb, nil
		}
		return nil, &EnrichError{Kind: KindParse, Err: fmt.Errorf("decode payload: %w", err)}
	}
	if payload.PropagandaConfidence < 0 || payload.PropagandaConfidence > 1 {
		return nil, &EnrichError{Kind: KindParse, Err: fmt.Errorf("confidence %v out of range", payload.PropagandaConfidence)}
	}
	return &payload, nil
}

var confidenceField = regexp.MustCompile(`"propaganda_disinformation_confidence"\s*:\s*([0-9.]+)`)
var aiField = regexp.MustCompile(`"is_ai_generated"\s*:\s*(true|false)`)

// fallbackExtract salvages the two load-bearing fields from a response the
// model wrapped in prose or malformed JSON.
func fallbackExtract(raw string) (*enrichPayload, bool) {
	m := confidenceField.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	var conf float64
	if _, err := fmt.Sscanf(m[1], "%f", &conf); err != nil || conf < 0 || conf > 1 {
		return nil, false
	}
	p := &enrichPayload{PropagandaConfidence: conf, fromFallback: true}
	if am := aiField.FindStringSubmatch(raw); am != nil {
		p.IsAIGenerated = am[1] == "true"
	}
	return p, true
}
