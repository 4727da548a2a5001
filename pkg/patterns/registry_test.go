package patterns

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRegistryHasBanks(t *testing.T) {
	r := NewRegistry()

	for _, lang := range []string{"en", "es", "fr", "de", "pt"} {
		b := r.Bank(lang)
		if b == nil {
			t.Fatalf("no bank for %s", lang)
		}
		if b.Language != lang {
			t.Errorf("bank for %s reports language %s", lang, b.Language)
		}
		if b.Len() == 0 {
			t.Errorf("bank for %s is empty", lang)
		}
	}

	if r.TotalRules() < 60 {
		t.Errorf("expected at least 60 rules across banks, got %d", r.TotalRules())
	}
}

func TestBankFallback(t *testing.T) {
	r := NewRegistry()

	b := r.Bank("ja")
	if b.Language != "en" {
		t.Errorf("unsupported language should fall back to en, got %s", b.Language)
	}
}

func TestEnglishCategoryCoverage(t *testing.T) {
	b := NewRegistry().Bank("en")

	testCases := []struct {
		category Category
		minRules int
	}{
		{CategoryPhishing, 5},
		{CategoryPII, 4},
		{CategoryMalware, 5},
		{CategoryPromptInjection, 3},
		{CategoryJailbreak, 4},
		{CategorySelfHarm, 2},
		{CategoryToxic, 2},
		{CategorySocialEng, 4},
		{CategoryMisinformation, 2},
	}

	for _, tc := range testCases {
		t.Run(string(tc.category), func(t *testing.T) {
			rules := b.Rules(tc.category)
			if len(rules) < tc.minRules {
				t.Errorf("category %s: expected at least %d rules, got %d",
					tc.category, tc.minRules, len(rules))
			}
		})
	}
}

func TestRuleWeightsInRange(t *testing.T) {
	r := NewRegistry()

	for _, lang := range r.Languages() {
		b := r.Bank(lang)
		for _, cat := range b.Categories() {
			for _, rule := range b.Rules(cat) {
				if rule.Weight <= 0 || rule.Weight > 1 {
					t.Errorf("%s/%s/%s: weight %v outside (0,1]", lang, cat, rule.Name, rule.Weight)
				}
			}
		}
	}
}

func TestCategoryWeightDefaults(t *testing.T) {
	if Weight(CategoryMalware) != 0.95 {
		t.Errorf("malware weight = %v, want 0.95", Weight(CategoryMalware))
	}
	if Weight(CategoryMisinformation) != 0.60 {
		t.Errorf("misinformation weight = %v, want 0.60", Weight(CategoryMisinformation))
	}
	if Weight(Category("unheard_of")) != 0.5 {
		t.Errorf("unknown category weight = %v, want 0.5", Weight(Category("unheard_of")))
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overrides.yaml")

	content := `languages:
  en:
    phishing_attempt:
      - name: internal_portal_lure
        pattern: '(?i)login\s+to\s+corp-portal'
        weight: 0.6
        context: [urgency]
  es:
    custom_category:
      - name: es_custom
        pattern: '(?i)oferta\s+especial'
        weight: 0.4
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	before := len(r.Bank("en").Rules(CategoryPhishing))

	added, err := r.LoadOverrides(path)
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if added != 2 {
		t.Errorf("added = %d, want 2", added)
	}

	after := r.Bank("en").Rules(CategoryPhishing)
	if len(after) != before+1 {
		t.Errorf("phishing rules = %d, want %d", len(after), before+1)
	}
	custom := after[len(after)-1]
	if custom.Name != "internal_portal_lure" || !custom.HasContext(ContextUrgency) {
		t.Errorf("override rule not appended correctly: %+v", custom)
	}

	if len(r.Bank("es").Rules(Category("custom_category"))) != 1 {
		t.Error("custom category not registered for es")
	}
}

func TestLoadOverridesRejectsBadPattern(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")

	content := `languages:
  en:
    phishing_attempt:
      - name: broken
        pattern: '(unclosed'
        weight: 0.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewRegistry().LoadOverrides(path); err == nil {
		t.Error("expected error for invalid regex")
	}
}
