// Package metrics provides Prometheus metrics for the aegis guardrails and
// prompt registry.
//
// # Metrics
//
//   - checks_total{stage,outcome,reason}: every input and output check
//   - check_duration_seconds{stage}: check latency
//   - pii_hits_total{pii_type}: output rejections by PII category
//   - prompt_resolutions_total{intent,outcome}: active prompt lookups
//
// All names are prefixed with the configured namespace and subsystem
// ("aegis_guardrail_" by default). The reason label carries the rejection
// code only; PII paths never become label values.
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordCheck(metrics.StageInput, metrics.OutcomePass, "", time.Microsecond)
//
//	http.Handle("/metrics", collector.Handler())
//
// WriteText renders the registry in the text exposition format for one-shot
// command line use.
package metrics
