package guardrail

import (
	"mercator-hq/aegis/pkg/config"
	"mercator-hq/aegis/pkg/guardrail/pii"
	"mercator-hq/aegis/pkg/guardrail/shape"
)

// Validator converts untrusted model output into T. See package shape for
// JSON Schema backed implementations.
type Validator[T any] = shape.Validator[T]

// OutputGuardrail is the post-inference gate. It is immutable and safe for
// concurrent use.
type OutputGuardrail struct {
	scanner *pii.Scanner
}

// NewOutputGuardrail creates an output gate. A nil cfg uses the default PII
// catalog, allowlist and depth ceiling.
func NewOutputGuardrail(cfg *config.OutputConfig) *OutputGuardrail {
	return &OutputGuardrail{scanner: pii.NewScanner(cfg)}
}

// CheckOutput validates output against shape, then scans the validated value
// for PII. Shape failures are always reported as schema-validation-failed,
// whatever the content. A scan that cannot complete fails closed with
// pii-scan-failed.
func CheckOutput[T any](g *OutputGuardrail, output any, shape Validator[T]) ValidatedOutput[T] {
	out, _, _ := checkOutput(g, output, shape)
	return out
}

// checkOutput also returns the hit and the validation or scan error, which
// the pipeline logs and counts.
func checkOutput[T any](g *OutputGuardrail, output any, shape Validator[T]) (ValidatedOutput[T], *pii.Hit, error) {
	validated, err := shape.Validate(output)
	if err != nil {
		return ValidatedOutput[T]{Reason: ReasonSchemaValidationFailed}, nil, err
	}

	hit, err := g.scanner.Find(validated)
	if err != nil {
		return ValidatedOutput[T]{Reason: ReasonPIIScanFailed}, nil, err
	}
	if hit != nil {
		return ValidatedOutput[T]{Reason: PIIReason(*hit)}, hit, nil
	}

	return ValidatedOutput[T]{OK: true, Validated: &validated}, nil, nil
}
