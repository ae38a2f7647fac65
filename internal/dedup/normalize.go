// Package dedup collapses raw listings that describe the same real-world
// business into a single representative record.
package dedup

import "strings"

// legalSuffixes is the closed set of trailing legal-entity tokens stripped
// from company names before comparison.
var legalSuffixes = map[string]struct{}{
	"gmbh":    {},
	"ltd":     {},
	"inc":     {},
	"ag":      {},
	"sa":      {},
	"srl":     {},
	"sas":     {},
	"sarl":    {},
	"s.a.r.l": {},
	"eurl":    {},
}

// NormalizeName canonicalizes a company name for comparison: lowercase,
// trimmed, internal whitespace collapsed, and a single trailing legal-entity
// suffix removed.
func NormalizeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	tokens := strings.Fields(name)
	if len(tokens) == 0 {
		return ""
	}
	if _, ok := legalSuffixes[tokens[len(tokens)-1]]; ok {
		tokens = tokens[:len(tokens)-1]
	}
	return strings.Join(tokens, " ")
}

// NormalizePhone strips every non-digit and keeps the last 9 digits, which
// drops country codes and trunk prefixes. Shorter numbers are returned
// as-is.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > 9 {
		return digits[len(digits)-9:]
	}
	return digits
}
