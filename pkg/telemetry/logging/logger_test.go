package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/aegis/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:   "valid JSON config",
			config: Config{Level: "info", Format: "json", RedactPII: true},
		},
		{
			name:   "valid text config",
			config: Config{Level: "debug", Format: "text"},
		},
		{
			name:   "valid console config",
			config: Config{Level: "warn", Format: "console", RedactPII: true},
		},
		{
			name:   "defaults",
			config: Config{},
		},
		{
			name:    "invalid log level",
			config:  Config{Level: "invalid", Format: "json"},
			wantErr: true,
		},
		{
			name:    "invalid format",
			config:  Config{Level: "info", Format: "invalid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.config.Writer = &buf

			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Fatal("New() returned nil logger")
			}
		})
	}
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default().Telemetry.Logging
	cfg.Level = "debug"

	var buf bytes.Buffer
	logger, err := New(FromConfig(&cfg, &buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !logger.Enabled(slog.LevelDebug) {
		t.Error("expected debug level to be enabled")
	}
	if logger.redactor == nil {
		t.Error("expected redaction to be enabled by default")
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "warn", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below warn were written: %s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("messages at or above warn missing: %s", out)
	}
}

func TestLogger_Redaction(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", RedactPII: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("model output rejected",
		"snippet", "reach me at jane@example.com",
		"api_key", "sk-abcdefghijklmnop",
		"reason", "pii-detected:email@description",
	)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}
	if got := entry["snippet"]; got != "reach me at [REDACTED:email]" {
		t.Errorf("snippet = %v", got)
	}
	if got := entry["api_key"]; got != "sk-a***" {
		t.Errorf("api_key = %v", got)
	}
	if got := entry["reason"]; got != "pii-detected:email@description" {
		t.Errorf("reason = %v", got)
	}
}

func TestLogger_NoRedaction(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("raw", "email", "jane@example.com")
	if !strings.Contains(buf.String(), "jane@example.com") {
		t.Errorf("expected raw value when redaction disabled: %s", buf.String())
	}
}

func TestLogger_Context(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "debug", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	ctx := WithRequestID(context.Background(), "req-1")
	ctx = WithIntent(ctx, "listing-autofill")
	logger.DebugContext(ctx, "input rejected", "reason", "text-too-long")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("failed to parse log entry: %v", err)
	}
	if entry["request_id"] != "req-1" || entry["intent"] != "listing-autofill" {
		t.Errorf("context fields missing: %v", entry)
	}
	if entry["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", entry["level"])
	}
}

func TestLogger_With(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Config{Level: "info", Format: "text", RedactPII: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	child := logger.With("component", "guardrail", "contact", "+1 415 555 0100")
	child.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "component=guardrail") {
		t.Errorf("missing With field: %s", out)
	}
	if strings.Contains(out, "555 0100") {
		t.Errorf("With field not redacted: %s", out)
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error("discarded")
	if logger.Enabled(slog.LevelError) {
		t.Error("Nop logger should not be enabled at error level")
	}
}
