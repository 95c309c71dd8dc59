package tracing

import (
	"go.opentelemetry.io/otel/trace"
)

// Span names used by the guardrail pipeline.
const (
	SpanPipeline = "guardrail.pipeline"
	SpanInput    = "guardrail.input"
	SpanModel    = "guardrail.model"
	SpanOutput   = "guardrail.output"
)

// Attribute keys use the "aegis.*" namespace.
const (
	AttrRequestID = "aegis.request_id"
	AttrIntent    = "aegis.intent"
	AttrPromptID  = "aegis.prompt.id"
	AttrSchemaRef = "aegis.prompt.output_schema_ref"
	AttrOutcome   = "aegis.guardrail.outcome"
	AttrReason    = "aegis.guardrail.reason"
	AttrPIIType   = "aegis.guardrail.pii_type"
)

// SetRequestAttributes records the request id and intent on a span.
func SetRequestAttributes(span trace.Span, requestID, intent string) {
	span.SetAttributes(
		attr(AttrRequestID, requestID),
		attr(AttrIntent, intent),
	)
}

// SetPromptAttributes records the resolved prompt on a span.
func SetPromptAttributes(span trace.Span, promptID, schemaRef string) {
	span.SetAttributes(
		attr(AttrPromptID, promptID),
		attr(AttrSchemaRef, schemaRef),
	)
}

// SetCheckAttributes records a guardrail outcome on a span. The reason is
// the bare rejection code; PII paths are recorded only as the PII type.
func SetCheckAttributes(span trace.Span, outcome, reason, piiType string) {
	span.SetAttributes(attr(AttrOutcome, outcome))
	if reason != "" {
		span.SetAttributes(attr(AttrReason, reason))
	}
	if piiType != "" {
		span.SetAttributes(attr(AttrPIIType, piiType))
	}
}
