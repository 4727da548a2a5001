// Package config holds all runtime settings for the Guardian service.
// Everything is configurable via environment variables; a local .env file is
// loaded first when present so development setups need no exported shell
// state.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// PrivacyMode controls which PII transforms run before analysis.
type PrivacyMode string

const (
	PrivacyStandard PrivacyMode = "standard" // redact all PII classes
	PrivacyStrict   PrivacyMode = "strict"   // redact everything and generalize numbers
	PrivacyMinimal  PrivacyMode = "minimal"  // redact only SSNs and card numbers
)

// DetailLevel controls how much explainability detail is attached to results.
type DetailLevel string

const (
	DetailMinimal DetailLevel = "minimal"
	DetailMedium  DetailLevel = "medium"
	DetailFull    DetailLevel = "full"
)

// Config holds global settings. Construct once at startup and pass by
// reference; never mutate after the server starts.
type Config struct {
	// === Core ===
	Environment string // "development" or "production"
	ListenAddr  string
	APIKeys     []string // accepted client API keys; empty disables auth
	LogLevel    string

	// === Input bounds ===
	MaxTextLen   int // request boundary cap (chars)
	MaxEnrichLen int // enrichment-specific cap (chars)

	// === Pattern registry ===
	PatternsFile string // optional YAML with extra rules per language

	// === Enrichment (Gemini) ===
	EnrichmentEnabled  bool
	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string // override for tests/self-hosted proxies
	EnrichMaxAttempts  int
	EnrichCacheTTL     time.Duration
	EnrichCacheMaxSize int

	// === Threat intelligence ===
	IntelCachePath   string
	IntelCacheTTL    time.Duration
	IntelFeedsOn     bool
	PhishTankAPIKey  string
	IntelRefreshTick time.Duration

	// === Privacy / explainability ===
	PrivacyMode    PrivacyMode
	ComplianceMode string
	DetailLevel    DetailLevel

	// === Shared state backend ===
	RedisURL string // optional; memory fallback when empty

	// === Rate limiting (HTTP boundary) ===
	RateLimitEnabled bool
	RateLimitPerKey  int
	RateLimitWindow  time.Duration

	// === Batch analysis ===
	BatchConcurrency int
}

// Load reads .env (if present) and builds a Config from the environment.
func Load() *Config {
	_ = godotenv.Load()
	return NewDefaultConfig()
}

// NewDefaultConfig creates a Config with sensible defaults, each overridable
// via environment variables.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: GetEnv("GUARDIAN_ENV", "development"),
		ListenAddr:  GetEnv("GUARDIAN_LISTEN_ADDR", ":8080"),
		APIKeys:     GetEnvSlice("GUARDIAN_API_KEYS", nil),
		LogLevel:    GetEnv("GUARDIAN_LOG_LEVEL", "info"),

		MaxTextLen:   GetEnvInt("GUARDIAN_MAX_TEXT_LEN", 100000),
		MaxEnrichLen: GetEnvInt("GUARDIAN_MAX_ENRICH_LEN", 30000),

		PatternsFile: GetEnv("GUARDIAN_PATTERNS_FILE", ""),

		EnrichmentEnabled:  GetEnvBool("GUARDIAN_ENRICHMENT_ENABLED", true),
		GeminiAPIKey:       GetEnv("GEMINI_API_KEY", ""),
		GeminiModel:        GetEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:      GetEnv("GEMINI_BASE_URL", ""),
		EnrichMaxAttempts:  clampInt(GetEnvInt("GUARDIAN_ENRICH_MAX_ATTEMPTS", 3), 1, 10),
		EnrichCacheTTL:     GetEnvDuration("GUARDIAN_ENRICH_CACHE_TTL", time.Hour),
		EnrichCacheMaxSize: clampInt(GetEnvInt("GUARDIAN_ENRICH_CACHE_SIZE", 1000), 1, 100000),

		IntelCachePath:   GetEnv("GUARDIAN_INTEL_CACHE_PATH", "threat_intel_cache.json"),
		IntelCacheTTL:    GetEnvDuration("GUARDIAN_INTEL_CACHE_TTL", 24*time.Hour),
		IntelFeedsOn:     GetEnvBool("GUARDIAN_INTEL_FEEDS_ENABLED", true),
		PhishTankAPIKey:  GetEnv("PHISHTANK_API_KEY", ""),
		IntelRefreshTick: GetEnvDuration("GUARDIAN_INTEL_REFRESH_TICK", 6*time.Hour),

		PrivacyMode:    PrivacyMode(GetEnv("GUARDIAN_PRIVACY_MODE", string(PrivacyStandard))),
		ComplianceMode: GetEnv("GUARDIAN_COMPLIANCE_MODE", ""),
		DetailLevel:    DetailLevel(GetEnv("GUARDIAN_DETAIL_LEVEL", string(DetailMedium))),

		RedisURL: GetEnv("GUARDIAN_REDIS_URL", ""),

		RateLimitEnabled: GetEnvBool("GUARDIAN_RATE_LIMIT_ENABLED", true),
		RateLimitPerKey:  GetEnvInt("GUARDIAN_RATE_LIMIT_PER_KEY", 100),
		RateLimitWindow:  GetEnvDuration("GUARDIAN_RATE_LIMIT_WINDOW", time.Minute),

		BatchConcurrency: clampInt(GetEnvInt("GUARDIAN_BATCH_CONCURRENCY", 5), 1, 64),
	}
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Environment)
	return env == "production" || env == "prod"
}

// Validate checks configuration consistency. In production mode missing
// client API keys are an error; in development they only degrade to an open
// endpoint.
func (c *Config) Validate() error {
	var problems []string

	switch c.PrivacyMode {
	case PrivacyStandard, PrivacyStrict, PrivacyMinimal:
	default:
		problems = append(problems, fmt.Sprintf("invalid GUARDIAN_PRIVACY_MODE %q", c.PrivacyMode))
	}

	switch c.DetailLevel {
	case DetailMinimal, DetailMedium, DetailFull:
	default:
		problems = append(problems, fmt.Sprintf("invalid GUARDIAN_DETAIL_LEVEL %q", c.DetailLevel))
	}

	if c.MaxEnrichLen > c.MaxTextLen {
		problems = append(problems, "GUARDIAN_MAX_ENRICH_LEN must not exceed GUARDIAN_MAX_TEXT_LEN")
	}

	if c.IsProduction() && len(c.APIKeys) == 0 {
		problems = append(problems, "GUARDIAN_API_KEYS is required in production")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Helper functions for environment variable parsing.

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvDuration returns the duration value of an environment variable or a
// default value. Accepts Go duration syntax ("90s", "24h").
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

// GetEnvSlice returns a comma-separated list from an environment variable or
// a default value.
func GetEnvSlice(key string, defaultValue []string) []string {
	if v := os.Getenv(key); v != "" {
		var parts []string
		for _, p := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
