// Package telemetry bundles the observability stack used around the
// guardrails.
//
// # Components
//
//   - logging: structured logging with PII redaction
//   - metrics: Prometheus counters and histograms for checks and prompt lookups
//   - tracing: OpenTelemetry spans for each guardrail stage
//
// # Usage
//
//	tel, err := telemetry.New(&cfg.Telemetry, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	pipeline, err := guardrail.NewPipelineFromConfig(cfg,
//	    guardrail.WithLogger(tel.Logger()),
//	    guardrail.WithMetrics(tel.Metrics()),
//	    guardrail.WithTracer(tel.Tracer()),
//	)
//
// # PII Protection
//
// Log fields are redacted with the same PII catalog the output guardrail
// scans for, so a rejected value never reaches the logs:
//
//   - Emails: seller@example.com → [REDACTED:email]
//   - Phones: +1 415 555 0100 → [REDACTED:phone]
//   - API keys: sk-abc123... → [REDACTED:api_key]
package telemetry
