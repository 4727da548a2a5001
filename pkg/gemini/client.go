// Package gemini enriches threat analysis with a generative model's judgement
// of propaganda likelihood and AI authorship. Enrichment is strictly additive:
// any failure degrades to the locally computed score, never to an error.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/guardianhq/guardian/pkg/httputil"
	"github.com/guardianhq/guardian/pkg/telemetry"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"

	// Confidence above which propaganda_disinformation is surfaced as a
	// distinct threat; the risk bump below scales with confidence.
	propagandaThreshold = 0.6
	riskBumpScale       = 25
)

// Outcome is the enrichment result folded into an analysis response. Source
// is "model" for a strict parse, "fallback" when fields were salvaged, and
// "local" when the request degraded to heuristics.
type Outcome struct {
	RiskScore            int     `json:"risk_score"`
	PropagandaConfidence float64 `json:"propaganda_confidence"`
	AddPropagandaThreat  bool    `json:"add_propaganda_threat"`
	IsAIGenerated        *bool   `json:"is_ai_generated"`
	Language             string  `json:"language,omitempty"`
	Degraded             bool    `json:"degraded"`
	ErrorNote            string  `json:"error_note,omitempty"`
	Source               string  `json:"source"`
}

// Client calls the generateContent endpoint with retry, caching and local
// degradation.
type Client struct {
	apiKey      string
	model       string
	baseURL     string
	maxAttempts int
	maxTextLen  int
	httpClient  *http.Client
	cache       Cache
	stats       *telemetry.Stats
	log         *logrus.Entry
}

// ClientOptions configures a Client. Zero values take sensible defaults;
// an empty APIKey disables remote calls entirely.
type ClientOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxAttempts int
	MaxTextLen  int
	HTTPClient  *http.Client
	Cache       Cache
	Stats       *telemetry.Stats
	Logger      *logrus.Logger
}

// NewClient builds an enrichment client.
func NewClient(opts ClientOptions) *Client {
	if opts.Model == "" {
		opts.Model = "gemini-1.5-flash"
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 3
	}
	if opts.MaxTextLen <= 0 {
		opts.MaxTextLen = 30000
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = httputil.EnrichClient()
	}
	if opts.Cache == nil {
		opts.Cache = NewMemoryCache(defaultCacheTTL, defaultCacheSize)
	}
	if opts.Stats == nil {
		opts.Stats = telemetry.New()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Client{
		apiKey:      opts.APIKey,
		model:       opts.Model,
		baseURL:     opts.BaseURL,
		maxAttempts: opts.MaxAttempts,
		maxTextLen:  opts.MaxTextLen,
		httpClient:  opts.HTTPClient,
		cache:       opts.Cache,
		stats:       opts.Stats,
		log:         opts.Logger.WithField("component", "gemini"),
	}
}

// Enrich augments a locally computed base score. It never returns an error:
// when the model cannot be reached or parsed, the outcome carries the base
// score, the local AI heuristic and an error note.
func (c *Client) Enrich(ctx context.Context, text string, baseScore int) *Outcome {
	if c.apiKey == "" {
		return c.degrade(text, baseScore, &EnrichError{Kind: KindNoKey, Err: errors.New("no API key configured")})
	}
	if len(text) > c.maxTextLen {
		out := c.localOutcome(text, baseScore)
		out.ErrorNote = "text too long for enrichment"
		return out
	}

	key := cacheKey(text)
	if cached, ok := c.cache.Get(ctx, key); ok {
		c.stats.IncCacheHit()
		rescored := *cached
		rescored.RiskScore = applyBump(baseScore, cached.PropagandaConfidence, cached.AddPropagandaThreat)
		return &rescored
	}
	c.stats.IncCacheMiss()

	var payload *enrichPayload
	err := retryWithBackoff(ctx, c.maxAttempts, func() error {
		var callErr error
		payload, callErr = c.call(ctx, text)
		if callErr != nil {
			c.stats.IncRetry()
		}
		return callErr
	})
	if err != nil {
		return c.degrade(text, baseScore, err)
	}

	out := &Outcome{
		PropagandaConfidence: payload.PropagandaConfidence,
		AddPropagandaThreat:  payload.PropagandaConfidence > propagandaThreshold,
		IsAIGenerated:        &payload.IsAIGenerated,
		Language:             payload.Language,
		Source:               "model",
	}
	if payload.fromFallback {
		out.Source = "fallback"
	}
	out.RiskScore = applyBump(baseScore, out.PropagandaConfidence, out.AddPropagandaThreat)
	c.cache.Set(ctx, key, out)
	return out
}

func (c *Client) call(ctx context.Context, text string) (*enrichPayload, error) {
	body, err := json.Marshal(c.buildRequest(text))
	if err != nil {
		return nil, &EnrichError{Kind: KindBadRequest, Err: err}
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &EnrichError{Kind: KindBadRequest, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.stats.IncTimeout()
		return nil, &EnrichError{Kind: KindTimeout, Err: err}
	}
	defer httputil.DrainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode)
	}
	data, err := httputil.ReadBody(resp.Body, httputil.MaxResponseSize)
	if err != nil {
		return nil, &EnrichError{Kind: KindServer, Err: err}
	}
	payload, err := parseResponse(data)
	if err != nil {
		c.stats.IncParseError()
		return nil, err
	}
	return payload, nil
}

type requestPart struct {
	Text string `json:"text"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	TopK            int     `json:"topK"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateRequest struct {
	Contents         []requestContent `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

const enrichPrompt = `Analyze the following text. Respond with ONLY a JSON object, no prose:
{"propaganda_disinformation_confidence": <0.0-1.0>, "is_ai_generated": <true|false>, "language": "<iso 639-1>"}

Text:
%s`

func (c *Client) buildRequest(text string) generateRequest {
	return generateRequest{
		Contents: []requestContent{
			{Parts: []requestPart{{Text: fmt.Sprintf(enrichPrompt, text)}}},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.3,
			TopP:            0.95,
			TopK:            40,
			MaxOutputTokens: 1024,
		},
	}
}

func (c *Client) degrade(text string, baseScore int, err error) *Outcome {
	var ee *EnrichError
	note := err.Error()
	if errors.As(err, &ee) {
		note = fmt.Sprintf("enrichment unavailable (%s)", ee.Kind)
		if ee.Kind != KindNoKey {
			c.log.WithError(err).Warn("enrichment degraded")
		}
	}
	out := c.localOutcome(text, baseScore)
	out.ErrorNote = note
	return out
}

func (c *Client) localOutcome(text string, baseScore int) *Outcome {
	ai := LocalAIHeuristic(text)
	return &Outcome{
		RiskScore:     baseScore,
		IsAIGenerated: &ai,
		Degraded:      true,
		Source:        "local",
	}
}

func applyBump(baseScore int, confidence float64, flagged bool) int {
	score := baseScore
	if flagged {
		score += int(confidence * riskBumpScale)
	}
	if score > 100 {
		score = 100
	}
	return score
}
