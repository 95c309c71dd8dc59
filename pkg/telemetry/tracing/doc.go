// Package tracing provides OpenTelemetry tracing for the guardrail pipeline.
//
// # Overview
//
// New builds a Tracer from the telemetry configuration. When tracing is
// disabled it returns a noop Tracer, so callers never branch on whether
// tracing is on. When enabled, spans are batched to an OTLP/gRPC collector.
//
// # Spans
//
// The pipeline opens one root span per request with a child span per stage:
//
//	guardrail.pipeline
//	├── guardrail.input
//	├── guardrail.model
//	└── guardrail.output
//
// Stage spans carry aegis.guardrail.outcome and, on rejection,
// aegis.guardrail.reason. PII paths never appear in span attributes.
//
// # Sampling Strategies
//
//   - always: sample every trace
//   - never: sample nothing
//   - ratio: sample a fraction of traces by trace ID
//   - parent_ratio: follow the parent decision, ratio for root spans
package tracing
