// Package privacy rewrites sensitive spans of input text before analysis and
// shapes how much detail analysis results expose, depending on the configured
// privacy mode and explainability level.
package privacy

import (
	"regexp"

	"github.com/guardianhq/guardian/pkg/config"
)

type redactor struct {
	name    string
	pattern *regexp.Regexp
	replace string
}

// Applied in order. The structured identifiers run before the looser phone
// pattern so a card or IP is not partially eaten as a phone number.
var standardRedactors = []redactor{
	{"email", regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`), "[EMAIL]"},
	{"credit_card", regexp.MustCompile(`\b(?:\d{4}[- ]?){3}\d{4}\b`), "[CARD]"},
	{"ssn", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`), "[SSN]"},
	{"ipv4", regexp.MustCompile(`\b(?:(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\.){3}(?:25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])\b`), "[IP]"},
	{"phone", regexp.MustCompile(`\+?\d{1,3}[-. ]?\(?\d{2,4}\)?[-. ]?\d{3,4}[-. ]?\d{3,4}`), "[PHONE]"},
}

var strictNumberRedactor = redactor{
	"number", regexp.MustCompile(`\b\d+\b`), "[NUMBER]",
}

// Result reports what redaction did to the input.
type Result struct {
	Text    string
	Applied []string
	Mode    config.PrivacyMode
}

// Minimal mode still scrubs the identifiers that must never leave the
// process, even when the operator opts out of broader redaction.
var minimalNames = map[string]bool{"ssn": true, "credit_card": true}

// Apply redacts text according to mode. Minimal mode redacts only SSNs and
// card numbers; standard applies the full identifier table; strict
// additionally generalizes any remaining bare number.
func Apply(text string, mode config.PrivacyMode) Result {
	res := Result{Text: text, Mode: mode}
	for _, r := range standardRedactors {
		if mode == config.PrivacyMinimal && !minimalNames[r.name] {
			continue
		}
		if r.pattern.MatchString(res.Text) {
			res.Text = r.pattern.ReplaceAllString(res.Text, r.replace)
			res.Applied = append(res.Applied, r.name)
		}
	}
	if mode == config.PrivacyStrict {
		if strictNumberRedactor.pattern.MatchString(res.Text) {
			res.Text = strictNumberRedactor.pattern.ReplaceAllString(res.Text, strictNumberRedactor.replace)
			res.Applied = append(res.Applied, strictNumberRedactor.name)
		}
	}
	return res
}
