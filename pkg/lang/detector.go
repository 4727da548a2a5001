// Package lang provides best-effort language identification for the analyze
// pipeline. Detection is restricted to the languages that have pattern banks;
// anything else, and every failure mode, resolves to English.
package lang

import (
	"strings"
	"unicode"

	"github.com/pemistahl/lingua-go"
	"golang.org/x/text/language"
)

// Default is returned whenever detection cannot produce a supported code.
const Default = "en"

// Supported lists the languages with pattern bank coverage.
var Supported = []string{"en", "es", "fr", "de", "pt"}

var linguaLanguages = []lingua.Language{
	lingua.English,
	lingua.Spanish,
	lingua.French,
	lingua.German,
	lingua.Portuguese,
}

// minTokens is the floor under which statistical detection is skipped:
// language models are unreliable on one- or two-word inputs.
const minTokens = 3

// Detector identifies the language of input text. Safe for concurrent use;
// construct once and share.
type Detector struct {
	detector lingua.LanguageDetector
}

// NewDetector builds a detector restricted to the supported set.
func NewDetector() *Detector {
	return &Detector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(linguaLanguages...).
			Build(),
	}
}

// Detect returns the supported language code for the text. It never fails:
// short, empty, or unclassifiable input returns Default.
func (d *Detector) Detect(text string) string {
	normalized := normalize(text)
	if len(strings.Fields(normalized)) < minTokens {
		return Default
	}

	detected, ok := d.detector.DetectLanguageOf(normalized)
	if !ok {
		return Default
	}

	code := strings.ToLower(detected.IsoCode639_1().String())
	if !IsSupported(code) {
		return Default
	}
	return code
}

// IsSupported reports whether a code is in the supported set.
func IsSupported(code string) bool {
	for _, s := range Supported {
		if s == code {
			return true
		}
	}
	return false
}

// NormalizeTag canonicalizes a BCP-47-ish code ("EN-us" -> "en-US") and
// reports whether it parsed at all. Used for codes reported by the
// enrichment model, which are free-form strings.
func NormalizeTag(code string) (string, bool) {
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	return tag.String(), true
}

// normalize lowercases, strips punctuation, and collapses whitespace so the
// token-count guard sees words, not symbols.
func normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	lastSpace := true
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			// punctuation, digits, symbols: treated as word breaks
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}
