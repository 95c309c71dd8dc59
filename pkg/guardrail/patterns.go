package guardrail

import (
	"fmt"
	"regexp"
)

// Pattern is a named adversarial-prompt expression.
type Pattern struct {
	ID   string
	Expr *regexp.Regexp
}

// maliciousPatterns is evaluated in order; the first match rejects the input.
var maliciousPatterns = []Pattern{
	{
		ID:   "ignore-instructions",
		Expr: regexp.MustCompile(`(?i)\b(?:ignore|disregard|forget|override)\s+(?:all\s+|any\s+|the\s+|your\s+)*(?:previous|prior|above|earlier|preceding)\s+(?:instructions?|prompts?|rules|directions)`),
	},
	{
		ID:   "reveal-system-prompt",
		Expr: regexp.MustCompile(`(?i)\b(?:reveal|show|print|repeat|output|display|leak|tell\s+me)\s+(?:me\s+)?(?:your\s+|the\s+)?(?:system\s+prompt|system\s+(?:instructions?|message)|hidden\s+instructions?|initial\s+instructions?)|\bwhat\s+(?:is|are|was|were)\s+your\s+(?:system\s+prompt|system\s+(?:instructions?|message)|(?:hidden|initial|original)\s+instructions?|instructions\s*(?:\?|$))`),
	},
	{
		ID:   "jailbreak",
		Expr: regexp.MustCompile(`(?i)\bjail\s*break|\bDAN\s+mode\b|\bdo\s+anything\s+now\b|\b(?:enable|enter|activate)\s+developer\s+mode\b|\byou\s+are\s+no\s+longer\s+bound\s+by|\b(?:act|acting|pretend|roleplay|role-play)\s+(?:as|to\s+be)\s+(?-i:DAN)\b|\byou\s+are\s+(?:now\s+)?(?-i:DAN)\b`),
	},
	{
		ID:   "safety-bypass",
		Expr: regexp.MustCompile(`(?i)\b(?:bypass|disable|turn\s+off|circumvent|ignore)\s+(?:the\s+|your\s+|all\s+)?(?:safety(?:\s+(?:filters?|rules|checks))?|content\s+(?:filters?|policy)|guardrails?|moderation)`),
	},
	{
		ID:   "script-tag",
		Expr: regexp.MustCompile(`(?i)<\s*script\b|javascript\s*:`),
	},
	{
		ID:   "destructive-sql",
		Expr: regexp.MustCompile(`(?i)\b(?:drop|truncate)\s+(?:table|database|schema)\b|\bdelete\s+from\s+\w+|\bunion\s+select\b|\bor\s+1\s*=\s*1\b`),
	},
}

// DefaultPatterns returns a copy of the built-in adversarial prompt catalog.
func DefaultPatterns() []Pattern {
	out := make([]Pattern, len(maliciousPatterns))
	copy(out, maliciousPatterns)
	return out
}

// compilePattern compiles an operator-supplied expression case-insensitively.
func compilePattern(id, expr string) (Pattern, error) {
	re, err := regexp.Compile(`(?i)` + expr)
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern %s: %w", id, err)
	}
	return Pattern{ID: id, Expr: re}, nil
}
