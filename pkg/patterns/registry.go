// Package patterns provides the per-language threat pattern banks used by the
// classifier. All regexes are compiled once when a Registry is constructed and
// shared across requests.
//
// Design principles:
// - COMPILE ONCE: rules are compiled at construction, never per-request
// - CATEGORIZED: rules are grouped by threat category and language
// - EXTENSIBLE: operator YAML overrides can add rules without code changes
package patterns

import (
	"fmt"
	"regexp"
	"sync"
)

// Category is a threat classification tag attached to every rule and to every
// Threat the classifier emits.
type Category string

const (
	CategoryPhishing        Category = "phishing_attempt"
	CategoryPII             Category = "pii_exfiltration"
	CategoryMalware         Category = "malware_instruction"
	CategoryPromptInjection Category = "prompt_injection"
	CategoryJailbreak       Category = "jailbreak_prompting"
	CategorySelfHarm        Category = "self_harm_risk"
	CategoryToxic           Category = "toxic_content"
	CategorySocialEng       Category = "social_engineering"
	CategoryMisinformation  Category = "misinformation"

	// Synthetic categories: never matched by rules, produced by other stages.
	CategoryCoordinated Category = "coordinated_behavior"
	CategoryPropaganda  Category = "propaganda_disinformation"
)

// Context tags a rule can carry. The confidence scorer applies keyword bonuses
// only to rules tagged with the corresponding context.
const (
	ContextUrgency   = "urgency"
	ContextAuthority = "authority"
	ContextFinancial = "financial"
	ContextCommand   = "command"
)

// Rule is a single weighted detection regex. Immutable after registration.
type Rule struct {
	Name    string
	Regex   *regexp.Regexp
	Weight  float64 // base contribution in (0,1]
	Context []string
}

// HasContext reports whether the rule carries the given context tag.
func (r *Rule) HasContext(tag string) bool {
	for _, c := range r.Context {
		if c == tag {
			return true
		}
	}
	return false
}

// Bank holds the rules for one language, grouped by category. Category order
// is preserved so scans are deterministic.
type Bank struct {
	Language   string
	categories []Category
	rules      map[Category][]*Rule
}

func newBank(language string) *Bank {
	return &Bank{
		Language: language,
		rules:    make(map[Category][]*Rule),
	}
}

func (b *Bank) add(name, pattern string, category Category, weight float64, context ...string) {
	if _, ok := b.rules[category]; !ok {
		b.categories = append(b.categories, category)
	}
	b.rules[category] = append(b.rules[category], &Rule{
		Name:    name,
		Regex:   regexp.MustCompile(pattern),
		Weight:  weight,
		Context: context,
	})
}

// Categories returns the categories in registration order.
func (b *Bank) Categories() []Category {
	return b.categories
}

// Rules returns the rules for a category in declaration order. Never nil.
func (b *Bank) Rules(cat Category) []*Rule {
	if rs, ok := b.rules[cat]; ok {
		return rs
	}
	return []*Rule{}
}

// Len returns the total rule count in the bank.
func (b *Bank) Len() int {
	n := 0
	for _, rs := range b.rules {
		n += len(rs)
	}
	return n
}

// Registry holds one Bank per supported language. English is the fallback
// bank for unsupported or undetected languages.
type Registry struct {
	mu    sync.RWMutex
	banks map[string]*Bank
}

// DefaultLanguage is the fallback bank used when no bank exists for the
// requested language.
const DefaultLanguage = "en"

// NewRegistry builds the built-in banks. Construct once at process start and
// inject where needed; the registry is safe for concurrent readers.
func NewRegistry() *Registry {
	r := &Registry{banks: make(map[string]*Bank)}
	r.addBank(englishBank())
	r.addBank(spanishBank())
	r.addBank(frenchBank())
	r.addBank(germanBank())
	r.addBank(portugueseBank())
	return r
}

func (r *Registry) addBank(b *Bank) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.banks[b.Language] = b
}

// Bank returns the bank for a language, falling back to English when the
// language has no bank.
func (r *Registry) Bank(language string) *Bank {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if b, ok := r.banks[language]; ok {
		return b
	}
	return r.banks[DefaultLanguage]
}

// Languages returns the languages with a registered bank.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.banks))
	for l := range r.banks {
		out = append(out, l)
	}
	return out
}

// TotalRules returns the rule count across all banks.
func (r *Registry) TotalRules() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, b := range r.banks {
		n += b.Len()
	}
	return n
}

// addRule registers an extra rule, compiling the pattern. Used by the YAML
// override loader; returns an error instead of panicking because the pattern
// comes from operator input.
func (r *Registry) addRule(language string, category Category, name, pattern string, weight float64, context []string) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("rule %q: %w", name, err)
	}
	if weight <= 0 || weight > 1 {
		return fmt.Errorf("rule %q: weight %v outside (0,1]", name, weight)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.banks[language]
	if !ok {
		b = newBank(language)
		r.banks[language] = b
	}
	if _, ok := b.rules[category]; !ok {
		b.categories = append(b.categories, category)
	}
	b.rules[category] = append(b.rules[category], &Rule{
		Name:    name,
		Regex:   re,
		Weight:  weight,
		Context: context,
	})
	return nil
}
