package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OverrideFile is the on-disk shape for operator-supplied extra rules:
//
//	languages:
//	  en:
//	    phishing_attempt:
//	      - name: internal_portal_lure
//	        pattern: '(?i)login\s+to\s+corp-portal'
//	        weight: 0.6
//	        context: [urgency]
type OverrideFile struct {
	Languages map[string]map[string][]OverrideRule `yaml:"languages"`
}

// OverrideRule is a single rule definition from an override file.
type OverrideRule struct {
	Name    string   `yaml:"name"`
	Pattern string   `yaml:"pattern"`
	Weight  float64  `yaml:"weight"`
	Context []string `yaml:"context"`
}

// LoadOverrides reads a YAML override file and appends its rules to the
// registry. Override rules are scanned after the built-in rules of the same
// category. A malformed file is rejected as a whole; a valid file with a bad
// rule reports the rule by name.
func (r *Registry) LoadOverrides(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read overrides: %w", err)
	}

	var file OverrideFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return 0, fmt.Errorf("parse overrides: %w", err)
	}

	added := 0
	for lang, cats := range file.Languages {
		for cat, rules := range cats {
			for _, or := range rules {
				if or.Name == "" || or.Pattern == "" {
					return added, fmt.Errorf("override in %s/%s: name and pattern are required", lang, cat)
				}
				if err := r.addRule(lang, Category(cat), or.Name, or.Pattern, or.Weight, or.Context); err != nil {
					return added, fmt.Errorf("override in %s/%s: %w", lang, cat, err)
				}
				added++
			}
		}
	}
	return added, nil
}
