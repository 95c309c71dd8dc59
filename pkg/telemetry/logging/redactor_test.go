package logging

import (
	"errors"
	"testing"

	"mercator-hq/aegis/pkg/config"
)

func TestRedactor_RedactString(t *testing.T) {
	r := NewRedactor(nil)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"email", "contact jane@example.com today", "contact [REDACTED:email] today"},
		{"phone", "call (415) 555-0100", "call [REDACTED:phone]"},
		{"card", "card 4111 1111 1111 1111 ok", "card [REDACTED:credit_card] ok"},
		{"iban", "wire to DE89370400440532013000", "wire to [REDACTED:iban]"},
		{"grouped iban", "wire to DE89 3704 0044 0532 0130 00", "wire to [REDACTED:iban]"},
		{"isbn kept", "ISBN 978-3-16-148410-0", "ISBN 978-3-16-148410-0"},
		{"bearer", "Authorization: Bearer abc.def.ghi", "Authorization: Bearer ***"},
		{"api key", "using sk-proj12345678", "using [REDACTED:api_key]"},
		{"password", "password=hunter22", "password=***"},
		{"clean", "oak side table, good condition", "oak side table, good condition"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_CustomPatterns(t *testing.T) {
	r := NewRedactor([]config.RedactPattern{
		{Name: "order", Pattern: `ord_[A-Za-z0-9]{10}`, Replacement: "ord_***"},
		{Name: "broken", Pattern: `[unclosed`, Replacement: "***"},
	})

	if got := r.RedactString("refund ord_AbCdEf1234"); got != "refund ord_***" {
		t.Errorf("RedactString() = %q", got)
	}
	want := len(secretPatterns) + 4 + 1
	if len(r.patterns) != want {
		t.Errorf("got %d patterns, want %d", len(r.patterns), want)
	}
}

func TestRedactor_RedactArgs(t *testing.T) {
	r := NewRedactor(nil)

	args := []any{
		"user_token", "abcdefghijkl",
		"short_secret", "abc",
		"note", "mail a@b.co",
		"err", errors.New("bad iban DE89370400440532013000"),
		"count", 3,
		"dangling",
	}
	got := r.RedactArgs(args...)

	if got[1] != "abcd***" {
		t.Errorf("token = %v", got[1])
	}
	if got[3] != "***" {
		t.Errorf("short secret = %v", got[3])
	}
	if got[5] != "mail [REDACTED:email]" {
		t.Errorf("note = %v", got[5])
	}
	if got[7] != "bad iban [REDACTED:iban]" {
		t.Errorf("err = %v", got[7])
	}
	if got[9] != 3 {
		t.Errorf("count = %v", got[9])
	}
	if args[5] != "mail a@b.co" {
		t.Error("RedactArgs modified its input")
	}
}

func TestIsSensitiveKey(t *testing.T) {
	for _, key := range []string{"password", "API_KEY", "refresh_token", "Authorization"} {
		if !isSensitiveKey(key) {
			t.Errorf("isSensitiveKey(%q) = false", key)
		}
	}
	for _, key := range []string{"reason", "stage", "prompt_id"} {
		if isSensitiveKey(key) {
			t.Errorf("isSensitiveKey(%q) = true", key)
		}
	}
}
