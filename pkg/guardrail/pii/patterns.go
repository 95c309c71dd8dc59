package pii

import (
	"regexp"
	"strings"
)

// PII types reported by the scanner, in priority order.
const (
	TypeEmail      = "email"
	TypePhone      = "phone"
	TypeCreditCard = "credit_card"
	TypeIBAN       = "iban"
)

// Pattern pairs a PII type with the expression that detects it.
type Pattern struct {
	Type string
	Expr *regexp.Regexp

	// Check, when set, must accept a match for it to count.
	Check func(match string) bool
}

// MatchString reports whether text contains a match accepted by Check.
func (p Pattern) MatchString(text string) bool {
	if p.Check == nil {
		return p.Expr.MatchString(text)
	}
	for _, m := range p.Expr.FindAllString(text, -1) {
		if p.Check(m) {
			return true
		}
	}
	return false
}

// ReplaceAllString replaces every accepted match with the literal repl.
func (p Pattern) ReplaceAllString(text, repl string) string {
	return p.Expr.ReplaceAllStringFunc(text, func(m string) string {
		if p.Check != nil && !p.Check(m) {
			return m
		}
		return repl
	})
}

// defaultPatterns is ordered: the first match at a leaf wins.
var defaultPatterns = []Pattern{
	{
		Type: TypeEmail,
		Expr: regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	},
	{
		// North American 3-3-4 shapes with an optional country code, or any
		// "+" prefixed international number with at least three digit groups.
		Type: TypePhone,
		Expr: regexp.MustCompile(`(?:\+?\d{1,3}[\s.-]?)?(?:\(\d{3}\)|\b\d{3})[\s.-]?\d{3}[\s.-]?\d{4}\b|\+\d{1,3}(?:[\s.-]?\d{2,4}){3,5}\b`),
	},
	{
		// 13 to 19 digits, optionally grouped by spaces or dashes, that pass
		// the Luhn checksum. ISBNs, serials and the digit groups of a
		// printed IBAN fail it.
		Type:  TypeCreditCard,
		Expr:  regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`),
		Check: luhn,
	},
	{
		Type: TypeIBAN,
		Expr: regexp.MustCompile(`\b[A-Z]{2}\d{2}(?: ?[A-Z0-9]{4}){2,7}(?: ?[A-Z0-9]{1,3})?\b`),
	},
}

// DefaultAllowlist lists the field-name fragments that legitimately carry PII.
var DefaultAllowlist = []string{"email", "phone", "contact", "iban", "card"}

// DefaultPatterns returns a copy of the built-in PII catalog in priority order.
func DefaultPatterns() []Pattern {
	out := make([]Pattern, len(defaultPatterns))
	copy(out, defaultPatterns)
	return out
}

// Match returns the PII type of the first catalog entry matching text, or ""
// when nothing matches.
func Match(text string) string {
	return matchPatterns(defaultPatterns, text)
}

func matchPatterns(patterns []Pattern, text string) string {
	if text == "" {
		return ""
	}
	for _, p := range patterns {
		if p.MatchString(text) {
			return p.Type
		}
	}
	return ""
}

// normalizeFragments lowercases and de-duplicates allowlist fragments.
func normalizeFragments(fragments []string) []string {
	seen := make(map[string]struct{}, len(fragments))
	out := make([]string, 0, len(fragments))
	for _, f := range fragments {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// luhn reports whether the digits of s pass the Luhn checksum. Non-digits
// are ignored.
func luhn(s string) bool {
	sum, n := 0, 0
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		d := int(c - '0')
		if n%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		n++
	}
	return n > 0 && sum%10 == 0
}
