// Package classifier runs the full analysis pipeline: pattern matching with
// overlap resolution, graph coordination analysis, threat intel scoring, risk
// aggregation and optional model enrichment.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/guardianhq/guardian/pkg/config"
	"github.com/guardianhq/guardian/pkg/gemini"
	"github.com/guardianhq/guardian/pkg/graph"
	"github.com/guardianhq/guardian/pkg/httputil"
	"github.com/guardianhq/guardian/pkg/intel"
	"github.com/guardianhq/guardian/pkg/lang"
	"github.com/guardianhq/guardian/pkg/patterns"
	"github.com/guardianhq/guardian/pkg/privacy"
	"github.com/guardianhq/guardian/pkg/telemetry"
)

// Validation failures callers should map to a 400.
var (
	ErrEmptyText   = errors.New("text is empty")
	ErrTextTooLong = errors.New("text exceeds maximum length")
	ErrInvalidUTF8 = errors.New("text is not valid UTF-8")
)

// RequestOptions carries per-request overrides. Compliance mode changes
// explanation wording only, never scores.
type RequestOptions struct {
	ComplianceMode string
}

// Analyzer wires the pipeline stages together. All stages are safe for
// concurrent use.
type Analyzer struct {
	cfg      *config.Config
	registry *patterns.Registry
	detector *lang.Detector
	intel    *intel.Service
	enricher *gemini.Client
	stats    *telemetry.Stats
	sem      *httputil.Semaphore
	log      *logrus.Entry
}

// Options collects the analyzer's collaborators. Nil fields get defaults,
// except Config which is required.
type Options struct {
	Config   *config.Config
	Registry *patterns.Registry
	Detector *lang.Detector
	Intel    *intel.Service
	Enricher *gemini.Client
	Stats    *telemetry.Stats
	Logger   *logrus.Logger
}

// New builds an Analyzer.
func New(opts Options) *Analyzer {
	if opts.Config == nil {
		opts.Config = config.NewDefaultConfig()
	}
	if opts.Registry == nil {
		opts.Registry = patterns.NewRegistry()
	}
	if opts.Detector == nil {
		opts.Detector = lang.NewDetector()
	}
	if opts.Intel == nil {
		opts.Intel = intel.NewService(intel.Options{Logger: opts.Logger})
	}
	if opts.Stats == nil {
		opts.Stats = telemetry.New()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &Analyzer{
		cfg:      opts.Config,
		registry: opts.Registry,
		detector: opts.Detector,
		intel:    opts.Intel,
		enricher: opts.Enricher,
		stats:    opts.Stats,
		sem:      httputil.NewSemaphore(opts.Config.BatchConcurrency),
		log:      opts.Logger.WithField("component", "classifier"),
	}
}

// Stats exposes the analyzer's counters.
func (a *Analyzer) Stats() *telemetry.Stats { return a.stats }

// Analyze runs the pipeline on one text. Enrichment failures degrade the
// result; only input validation returns an error.
//
// Pattern, graph and intel stages run on the raw text so structured
// identifiers keep matching. The redacted form is what leaves the process:
// it goes to the enrichment API and into explanations.
func (a *Analyzer) Analyze(ctx context.Context, text string) (*Result, error) {
	return a.AnalyzeWithOptions(ctx, text, RequestOptions{})
}

// AnalyzeWithOptions is Analyze with per-request overrides.
func (a *Analyzer) AnalyzeWithOptions(ctx context.Context, text string, opts RequestOptions) (*Result, error) {
	start := time.Now()
	a.stats.IncRequests()

	if strings.TrimSpace(text) == "" {
		a.stats.IncError()
		return nil, ErrEmptyText
	}
	if len(text) > a.cfg.MaxTextLen {
		a.stats.IncError()
		return nil, fmt.Errorf("%w: %d > %d", ErrTextTooLong, len(text), a.cfg.MaxTextLen)
	}
	if !utf8.ValidString(text) {
		a.stats.IncError()
		return nil, ErrInvalidUTF8
	}

	red := privacy.Apply(text, a.cfg.PrivacyMode)
	language := a.detector.Detect(text)
	bank := a.registry.Bank(language)

	matches := matchBank(bank, text)
	threats := buildThreats(matches)
	socialMatches := 0
	for _, m := range matches {
		if m.Category == patterns.CategorySocialEng {
			socialMatches++
		}
	}

	g := graph.Analyze(text)
	intelRes := a.intel.AnalyzeText(text)

	base := riskScore(threats, socialMatches, intelRes.RiskFactors, g)

	// The synthetic coordination threat joins the result after scoring; the
	// graph already contributed to the score directly.
	if ct, ok := coordinationThreat(g); ok {
		threats = append(threats, ct)
	}

	res := &Result{
		RiskScore:       base,
		ThreatsDetected: threats,
		Matches:         matches,
		IntelResult:     intelRes,
		Graph:           g,
		Metadata: Metadata{
			Language:      language,
			GraphEntities: g.Entities,
			GraphScore:    g.GraphScore,
			// Every mode redacts at least SSNs and card numbers before text
			// leaves the process.
			PrivacyPreserving: true,
		},
	}

	if a.cfg.EnrichmentEnabled && a.enricher != nil {
		out := a.enricher.Enrich(ctx, red.Text, base)
		res.RiskScore = out.RiskScore
		res.Metadata.IsAIGenerated = out.IsAIGenerated
		res.Metadata.PropagandaScore = out.PropagandaConfidence
		res.Metadata.EnrichmentSource = out.Source
		res.Metadata.Error = out.ErrorNote
		if out.Language != "" {
			// The model's own language call overrides local detection when
			// it parses as a BCP-47 tag.
			if tag, ok := lang.NormalizeTag(out.Language); ok {
				res.Metadata.Language = tag
			}
		}
		if out.AddPropagandaThreat {
			res.ThreatsDetected = append(res.ThreatsDetected, Threat{
				Category:        patterns.CategoryPropaganda,
				ConfidenceScore: out.PropagandaConfidence,
				Details:         "model assessed propaganda likelihood",
			})
		}
	}

	res.Metadata.Explanation = a.explain(res, red, opts)

	a.stats.IncSuccess()
	a.stats.AddThreats(len(res.ThreatsDetected))
	a.stats.RecordLatency(time.Since(start))
	return res, nil
}

// AnalyzeBatch runs Analyze over texts with bounded concurrency. Results are
// positional; a failed item carries its error in Metadata.Error with a nil
// threat list and zero score.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, texts []string) []*Result {
	results := make([]*Result, len(texts))
	var wg sync.WaitGroup
	for i, text := range texts {
		wg.Add(1)
		go func(i int, text string) {
			defer wg.Done()
			if err := a.sem.Acquire(ctx); err != nil {
				results[i] = &Result{Metadata: Metadata{Error: err.Error()}}
				return
			}
			defer a.sem.Release()
			res, err := a.Analyze(ctx, text)
			if err != nil {
				res = &Result{Metadata: Metadata{Error: err.Error()}}
			}
			results[i] = res
		}(i, text)
	}
	wg.Wait()
	return results
}

func (a *Analyzer) explain(res *Result, red privacy.Result, opts RequestOptions) *privacy.Explanation {
	summaries := make([]privacy.ThreatSummary, 0, len(res.ThreatsDetected))
	for _, t := range res.ThreatsDetected {
		summaries = append(summaries, privacy.ThreatSummary{
			Category:   string(t.Category),
			Confidence: t.ConfidenceScore,
			Patterns:   t.MatchedPatterns,
		})
	}
	factors := map[string]float64{}
	for k, v := range res.IntelResult.RiskFactors {
		factors[k] = v
	}
	for k, v := range res.Graph.RiskFactors {
		factors[k] = v
	}
	compliance := a.cfg.ComplianceMode != "" || opts.ComplianceMode != ""
	ex := privacy.BuildExplanation(
		res.RiskScore,
		summaries,
		factors,
		red.Applied,
		a.cfg.DetailLevel,
		compliance,
	)
	return &ex
}
