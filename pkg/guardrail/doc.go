// Package guardrail implements the deterministic gates placed around every
// model call made by a marketplace feature.
//
// InputGuardrail runs before inference. It rejects requests without a user,
// oversized text, text matching the adversarial prompt catalog, oversized
// image URLs and image URLs that fail the URL safety predicate, in that
// order, and stops at the first failure.
//
// The output gate runs after inference in two independent stages. The raw
// output is first validated against the contracted shape; the validated
// value is then scanned for PII with package pii. A well-typed value can
// still be rejected for its content:
//
//	og := guardrail.NewOutputGuardrail(&cfg.Guardrail.Output)
//	out := guardrail.CheckOutput(og, modelText, validator)
//	if !out.OK {
//	    switch {
//	    case out.Reason == guardrail.ReasonSchemaValidationFailed:
//	    case out.Reason.IsPII():
//	    }
//	}
//
// # Results, not errors
//
// Rejections are expected and user-triggerable. They are returned as Result
// and ValidatedOutput values carrying a machine-readable Reason, never as Go
// errors, and are logged at debug level only.
//
// # Pipeline
//
// Pipeline composes both gates around a caller-supplied model function and
// records spans, metrics and log entries for every stage.
package guardrail
