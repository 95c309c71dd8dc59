package tracing

import (
	"fmt"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	// SamplerAlways samples all traces
	SamplerAlways = "always"

	// SamplerNever samples no traces
	SamplerNever = "never"

	// SamplerRatio samples a fraction of root traces by trace ID
	SamplerRatio = "ratio"

	// SamplerParentRatio follows the parent's decision and samples a
	// fraction of root traces
	SamplerParentRatio = "parent_ratio"
)

// createSampler creates a sampler based on the strategy and ratio.
//
// TraceIDRatioBased hashes the trace ID, so every service seeing the same
// trace makes the same decision:
//
//	telemetry:
//	  tracing:
//	    sampler: parent_ratio
//	    sample_ratio: 0.1  # Sample 10% of root traces
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	switch strategy {
	case SamplerAlways:
		return sdktrace.AlwaysSample(), nil

	case SamplerNever:
		return sdktrace.NeverSample(), nil

	case SamplerRatio, SamplerParentRatio, "":
		if ratio < 0.0 || ratio > 1.0 {
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %f", ratio)
		}
		base := sdktrace.TraceIDRatioBased(ratio)
		if strategy == SamplerParentRatio {
			return sdktrace.ParentBased(base), nil
		}
		return base, nil

	default:
		return nil, fmt.Errorf("unknown sampler strategy: %s (valid: always, never, ratio, parent_ratio)", strategy)
	}
}
