// Package logging provides structured logging with PII redaction.
//
// # Overview
//
// The logging package wraps Go's standard log/slog package to provide:
//   - Structured logging with JSON, text, and console formats
//   - Automatic redaction of PII and secrets in log fields
//   - Context-aware logging with request, user, intent and prompt fields
//   - Configurable log levels (debug, info, warn, error)
//
// # Usage
//
//	logger, err := logging.New(logging.FromConfig(&cfg.Telemetry.Logging, os.Stderr))
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	ctx = logging.WithIntent(ctx, "listing-autofill")
//	logger.DebugContext(ctx, "input rejected", "reason", "text-too-long")
//
// # PII Redaction
//
// Redaction reuses the PII catalog of the output guardrail, so anything the
// guardrail would reject never reaches a log line in clear text:
//
//   - Emails: a@b.com → [REDACTED:email]
//   - Phones: +1 415 555 0100 → [REDACTED:phone]
//   - Cards: 4111 1111 1111 1111 → [REDACTED:credit_card]
//   - IBANs: DE89370400440532013000 → [REDACTED:iban]
//   - API keys and bearer tokens
//
// Values under sensitive keys (password, token, secret, api_key) are masked
// entirely.
package logging
