package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.MaxTextLen != 100000 {
		t.Errorf("MaxTextLen = %d, want 100000", cfg.MaxTextLen)
	}
	if cfg.MaxEnrichLen != 30000 {
		t.Errorf("MaxEnrichLen = %d, want 30000", cfg.MaxEnrichLen)
	}
	if cfg.EnrichCacheTTL != time.Hour {
		t.Errorf("EnrichCacheTTL = %v, want 1h", cfg.EnrichCacheTTL)
	}
	if cfg.IntelCacheTTL != 24*time.Hour {
		t.Errorf("IntelCacheTTL = %v, want 24h", cfg.IntelCacheTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate in development: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GUARDIAN_MAX_TEXT_LEN", "5000")
	t.Setenv("GUARDIAN_ENRICH_CACHE_TTL", "90s")
	t.Setenv("GUARDIAN_API_KEYS", "key-a, key-b,")
	t.Setenv("GUARDIAN_ENRICHMENT_ENABLED", "false")

	cfg := NewDefaultConfig()

	if cfg.MaxTextLen != 5000 {
		t.Errorf("MaxTextLen = %d, want 5000", cfg.MaxTextLen)
	}
	if cfg.EnrichCacheTTL != 90*time.Second {
		t.Errorf("EnrichCacheTTL = %v, want 90s", cfg.EnrichCacheTTL)
	}
	if len(cfg.APIKeys) != 2 || cfg.APIKeys[0] != "key-a" || cfg.APIKeys[1] != "key-b" {
		t.Errorf("APIKeys = %v, want [key-a key-b]", cfg.APIKeys)
	}
	if cfg.EnrichmentEnabled {
		t.Error("EnrichmentEnabled should be false")
	}
}

func TestValidateRejectsBadModes(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.PrivacyMode = "paranoid"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid privacy mode")
	}

	cfg = NewDefaultConfig()
	cfg.DetailLevel = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid detail level")
	}

	cfg = NewDefaultConfig()
	cfg.MaxEnrichLen = cfg.MaxTextLen + 1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when enrich cap exceeds text cap")
	}
}

func TestValidateProductionRequiresAPIKeys(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Environment = "production"
	cfg.APIKeys = nil
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing API keys in production")
	}

	cfg.APIKeys = []string{"k"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
