// Package intel scores text against local scam heuristics and externally
// sourced phishing indicators. Feed refresh is best effort: a dead feed never
// degrades analysis beyond losing its domains.
package intel

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/guardianhq/guardian/pkg/httputil"
)

const openPhishFeedURL = "https://openphish.com/feed.txt"

// Match is one local-pattern hit with its span in the analyzed text.
type Match struct {
	Pattern     string `json:"pattern"`
	MatchedText string `json:"matched_text"`
	Category    string `json:"category"`
	Start       int    `json:"start"`
	End         int    `json:"end"`
}

// Result is the intel assessment of a single text.
type Result struct {
	Matches     []Match            `json:"matches"`
	RiskFactors map[string]float64 `json:"risk_factors"`
}

type cacheFile struct {
	SuspiciousDomains []string `json:"suspicious_domains"`
	PhishingPatterns  []string `json:"phishing_patterns"`
	ScamIndicators    []string `json:"scam_indicators"`
	LastUpdated       int64    `json:"last_updated"` // unix seconds
}

// Local pattern names persisted alongside the domains, split into credential
// or urgency lures versus scam and manipulation hooks.
func patternNames() (phishing, scam []string) {
	for _, p := range localPatterns {
		switch p.bucket {
		case BucketCredential, BucketUrgency:
			phishing = append(phishing, p.name)
		default:
			scam = append(scam, p.name)
		}
	}
	return phishing, scam
}

// Options configures feed access and caching.
type Options struct {
	CachePath       string
	CacheTTL        time.Duration
	FeedsEnabled    bool
	PhishTankAPIKey string
	RefreshTick     time.Duration
	OpenPhishURL    string
	PhishTankURL    string
	Client          *http.Client
	Logger          *logrus.Logger
}

// Service holds compiled local patterns plus the current external indicator
// set. External data is swapped atomically under the mutex on refresh.
type Service struct {
	opts Options
	log  *logrus.Entry

	mu                sync.RWMutex
	suspiciousDomains map[string]bool
	lastUpdated       time.Time
}

var reURLInText = regexp.MustCompile(`https?://[^\s<>"]+`)

// NewService builds the service and primes external indicators from the cache
// file when it is fresh, fetching otherwise. A failed initial fetch leaves
// the external set empty and is logged, not returned.
func NewService(opts Options) *Service {
	if opts.Client == nil {
		opts.Client = httputil.FeedClient()
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.OpenPhishURL == "" {
		opts.OpenPhishURL = openPhishFeedURL
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	s := &Service{
		opts:              opts,
		log:               opts.Logger.WithField("component", "intel"),
		suspiciousDomains: map[string]bool{},
	}
	if !opts.FeedsEnabled {
		return s
	}
	if s.loadCache() {
		return s
	}
	if err := s.Refresh(context.Background()); err != nil {
		s.log.WithError(err).Warn("initial threat feed fetch failed, continuing with local patterns only")
	}
	return s
}

// Start refreshes feeds on a ticker until ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	if !s.opts.FeedsEnabled || s.opts.RefreshTick <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(s.opts.RefreshTick)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.Refresh(ctx); err != nil {
					s.log.WithError(err).Warn("threat feed refresh failed")
				}
			}
		}
	}()
}

// Refresh pulls all configured feeds and rewrites the cache file. Partial
// results are kept when one feed fails but another succeeds.
func (s *Service) Refresh(ctx context.Context) error {
	domains := map[string]bool{}
	var errs []string

	if err := s.fetchOpenPhish(ctx, domains); err != nil {
		errs = append(errs, fmt.Sprintf("openphish: %v", err))
	}
	if s.opts.PhishTankAPIKey != "" && s.opts.PhishTankURL != "" {
		if err := s.fetchPhishTank(ctx, domains); err != nil {
			errs = append(errs, fmt.Sprintf("phishtank: %v", err))
		}
	}

	if len(domains) == 0 && len(errs) > 0 {
		return fmt.Errorf("all feeds failed: %s", strings.Join(errs, "; "))
	}

	now := time.Now()
	s.mu.Lock()
	s.suspiciousDomains = domains
	s.lastUpdated = now
	s.mu.Unlock()

	s.writeCache(domains, now)
	s.log.WithField("domains", len(domains)).Info("threat intel refreshed")
	if len(errs) > 0 {
		s.log.WithField("errors", strings.Join(errs, "; ")).Warn("some threat feeds failed")
	}
	return nil
}

// AnalyzeText runs local patterns and the known-domain check. Risk factors
// are keyed by bucket and clamped to 1.0 each.
func (s *Service) AnalyzeText(text string) Result {
	res := Result{RiskFactors: map[string]float64{}}

	for _, p := range localPatterns {
		loc := p.re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		res.Matches = append(res.Matches, Match{
			Pattern:     p.name,
			MatchedText: text[loc[0]:loc[1]],
			Category:    p.bucket,
			Start:       loc[0],
			End:         loc[1],
		})
		res.RiskFactors[p.bucket] += bucketWeights[p.bucket]
	}

	for _, raw := range reURLInText.FindAllString(text, -1) {
		host := hostOf(raw)
		if host == "" {
			continue
		}
		s.mu.RLock()
		known := s.suspiciousDomains[host]
		s.mu.RUnlock()
		if known {
			res.Matches = append(res.Matches, Match{
				Pattern:     "known_phishing_domain",
				MatchedText: host,
				Category:    BucketKnownThreat,
				Start:       strings.Index(text, raw),
				End:         strings.Index(text, raw) + len(raw),
			})
			res.RiskFactors[BucketKnownThreat] += bucketWeights[BucketKnownThreat]
		}
	}

	for bucket, v := range res.RiskFactors {
		if v > 1.0 {
			res.RiskFactors[bucket] = 1.0
		}
	}
	return res
}

// DomainCount reports the size of the external indicator set.
func (s *Service) DomainCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.suspiciousDomains)
}

// LastUpdated reports when external indicators were last refreshed.
func (s *Service) LastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdated
}

func (s *Service) fetchOpenPhish(ctx context.Context, domains map[string]bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.OpenPhishURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.opts.Client.Do(req)
	if err != nil {
		return err
	}
	defer httputil.DrainAndClose(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if host := hostOf(line); host != "" {
			domains[host] = true
		}
	}
	return scanner.Err()
}

func (s *Service) fetchPhishTank(ctx context.Context, domains map[string]bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.opts.PhishTankURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "phishtank/guardian")
	req.Header.Set("Api-Key", s.opts.PhishTankAPIKey)
	resp, err := s.opts.Client.Do(req)
	if err != nil {
		return err
	}
	defer httputil.DrainAndClose(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := httputil.ReadBody(resp.Body, httputil.MaxResponseSize)
	if err != nil {
		return err
	}
	var entries []struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return fmt.Errorf("decode feed: %w", err)
	}
	for _, e := range entries {
		if host := hostOf(e.URL); host != "" {
			domains[host] = true
		}
	}
	return nil
}

// loadCache reads the cache file if its last_updated stamp is within TTL.
func (s *Service) loadCache() bool {
	if s.opts.CachePath == "" {
		return false
	}
	data, err := os.ReadFile(s.opts.CachePath)
	if err != nil {
		return false
	}
	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil {
		s.log.WithError(err).Warn("threat intel cache unreadable, refetching")
		return false
	}
	updated := time.Unix(cf.LastUpdated, 0)
	if time.Since(updated) > s.opts.CacheTTL {
		return false
	}
	domains := make(map[string]bool, len(cf.SuspiciousDomains))
	for _, d := range cf.SuspiciousDomains {
		domains[d] = true
	}
	s.mu.Lock()
	s.suspiciousDomains = domains
	s.lastUpdated = updated
	s.mu.Unlock()
	s.log.WithField("domains", len(domains)).Info("threat intel loaded from cache")
	return true
}

func (s *Service) writeCache(domains map[string]bool, when time.Time) {
	if s.opts.CachePath == "" {
		return
	}
	phishing, scam := patternNames()
	cf := cacheFile{
		SuspiciousDomains: make([]string, 0, len(domains)),
		PhishingPatterns:  phishing,
		ScamIndicators:    scam,
		LastUpdated:       when.Unix(),
	}
	for d := range domains {
		cf.SuspiciousDomains = append(cf.SuspiciousDomains, d)
	}
	data, err := json.Marshal(cf)
	if err != nil {
		return
	}
	if err := os.WriteFile(s.opts.CachePath, data, 0o644); err != nil {
		s.log.WithError(err).Warn("threat intel cache write failed")
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Hostname())
}
