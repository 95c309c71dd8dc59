package logging

import (
	"fmt"
	"regexp"
	"strings"

	"mercator-hq/aegis/pkg/config"
	"mercator-hq/aegis/pkg/guardrail/pii"
)

// Redactor masks PII and secrets in log fields. Patterns are applied in a
// fixed order so that output is stable.
type Redactor struct {
	patterns []redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string

	// catalog is set for PII catalog entries, whose matches may need a
	// checksum before they are masked.
	catalog *pii.Pattern
}

// Secret pattern names. PII patterns use the pii package type names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternPassword    = "password"
)

// secretPatterns run before the PII catalog so that tokens are not partially
// rewritten as phone or card numbers.
var secretPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	{PatternBearerToken, `(?i)bearer\s+[a-z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternAPIKey, `(?i)(sk-[a-z0-9_-]{8,}|api[-_]?key\s*[:=]\s*[a-z0-9._-]+)`, "[REDACTED:api_key]"},
	{PatternPassword, `(?i)(password|passwd|pwd)\s*[:=]\s*\S+`, "$1=***"},
}

// NewRedactor creates a Redactor with the secret patterns, the PII catalog
// shared with the output guardrail, and any custom patterns. Invalid custom
// patterns are skipped; config validation reports them earlier.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}

	for _, p := range secretPatterns {
		r.patterns = append(r.patterns, redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range pii.DefaultPatterns() {
		r.patterns = append(r.patterns, redactPattern{
			name:        p.Type,
			regex:       p.Expr,
			replacement: "[REDACTED:" + p.Type + "]",
			catalog:     &p,
		})
	}

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		r.patterns = append(r.patterns, redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: p.Replacement,
		})
	}

	return r
}

// RedactString masks every pattern match in value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	redacted := value
	for _, pattern := range r.patterns {
		if pattern.catalog != nil {
			redacted = pattern.catalog.ReplaceAllString(redacted, pattern.replacement)
			continue
		}
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}

	return redacted
}

// RedactArgs redacts PII from variadic log arguments.
// Args are in the form: key1, value1, key2, value2, ...
func (r *Redactor) RedactArgs(args ...any) []any {
	if len(args) == 0 {
		return args
	}

	redacted := make([]any, len(args))
	copy(redacted, args)

	for i := 1; i < len(redacted); i += 2 {
		if key, ok := redacted[i-1].(string); ok && isSensitiveKey(key) {
			redacted[i] = redactValue(redacted[i])
			continue
		}

		switch v := redacted[i].(type) {
		case string:
			redacted[i] = r.RedactString(v)
		case error:
			redacted[i] = r.RedactString(v.Error())
		}
	}

	return redacted
}

// sensitiveKeys are field-name fragments whose values are always masked.
var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey",
	"authorization",
	"private_key", "privatekey",
}

// isSensitiveKey checks if a key name indicates sensitive data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// redactValue masks a sensitive value, keeping a short prefix of long strings.
func redactValue(value any) any {
	switch v := value.(type) {
	case string:
		if v == "" {
			return ""
		}
		if len(v) <= 8 {
			return "***"
		}
		return v[:4] + "***"
	case fmt.Stringer:
		return "***"
	default:
		return "***"
	}
}
