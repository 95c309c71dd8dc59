package config

import (
	"fmt"
	"regexp"
	"strings"
)

// maxOutputDepth bounds the configurable PII scan depth.
const maxOutputDepth = 1024

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "guardrail.input.max_text_length").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateInput(&cfg.Guardrail.Input)...)
	errs = append(errs, validateOutput(&cfg.Guardrail.Output)...)
	errs = append(errs, validateLogging(&cfg.Telemetry.Logging)...)
	errs = append(errs, validateMetrics(&cfg.Telemetry.Metrics)...)
	errs = append(errs, validateTracing(&cfg.Telemetry.Tracing)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateInput validates the input guardrail limits and extra patterns.
func validateInput(cfg *InputConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxTextLength <= 0 {
		errs = append(errs, FieldError{
			Field:   "guardrail.input.max_text_length",
			Message: "must be positive",
		})
	}
	if cfg.MaxImageURLLength <= 0 {
		errs = append(errs, FieldError{
			Field:   "guardrail.input.max_image_url_length",
			Message: "must be positive",
		})
	}

	seen := make(map[string]bool, len(cfg.ExtraPatterns))
	for i, p := range cfg.ExtraPatterns {
		field := fmt.Sprintf("guardrail.input.extra_patterns[%d]", i)
		if p.ID == "" {
			errs = append(errs, FieldError{Field: field + ".id", Message: "pattern id is required"})
		} else if seen[p.ID] {
			errs = append(errs, FieldError{Field: field + ".id", Message: fmt.Sprintf("duplicate pattern id %q", p.ID)})
		}
		seen[p.ID] = true

		if p.Pattern == "" {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: "pattern is required"})
			continue
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: fmt.Sprintf("invalid regular expression: %v", err)})
		}
	}

	return errs
}

// validateOutput validates the output guardrail settings.
func validateOutput(cfg *OutputConfig) []FieldError {
	var errs []FieldError

	if cfg.MaxDepth <= 0 || cfg.MaxDepth > maxOutputDepth {
		errs = append(errs, FieldError{
			Field:   "guardrail.output.max_depth",
			Message: fmt.Sprintf("must be between 1 and %d", maxOutputDepth),
		})
	}
	for i, f := range cfg.AllowlistFields {
		if strings.TrimSpace(f) == "" {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("guardrail.output.allowlist_fields[%d]", i),
				Message: "field fragment must not be empty",
			})
		}
	}

	return errs
}

// validateLogging validates logging configuration.
func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Level),
		})
	}

	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json, text, or console)", cfg.Format),
		})
	}

	for i, p := range cfg.RedactPatterns {
		field := fmt.Sprintf("telemetry.logging.redact_patterns[%d]", i)
		if p.Name == "" {
			errs = append(errs, FieldError{Field: field + ".name", Message: "pattern name is required"})
		}
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{Field: field + ".pattern", Message: fmt.Sprintf("invalid regular expression: %v", err)})
		}
	}

	return errs
}

// validateMetrics validates metrics configuration.
func validateMetrics(cfg *MetricsConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}
	if cfg.Namespace == "" {
		errs = append(errs, FieldError{Field: "telemetry.metrics.namespace", Message: "namespace is required"})
	}
	for i := 1; i < len(cfg.DurationBuckets); i++ {
		if cfg.DurationBuckets[i] <= cfg.DurationBuckets[i-1] {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.duration_buckets",
				Message: "buckets must be strictly increasing",
			})
			break
		}
	}

	return errs
}

// validateTracing validates tracing configuration.
func validateTracing(cfg *TracingConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}
	if cfg.Exporter != "otlp" {
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.exporter",
			Message: fmt.Sprintf("unsupported exporter %q (must be otlp)", cfg.Exporter),
		})
	}
	if cfg.Endpoint == "" {
		errs = append(errs, FieldError{Field: "telemetry.tracing.endpoint", Message: "endpoint is required when tracing is enabled"})
	}
	switch cfg.Sampler {
	case "always", "never", "ratio", "parent_ratio":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.tracing.sampler",
			Message: fmt.Sprintf("invalid sampler %q (must be always, never, ratio, or parent_ratio)", cfg.Sampler),
		})
	}
	if cfg.SampleRatio < 0 || cfg.SampleRatio > 1 {
		errs = append(errs, FieldError{Field: "telemetry.tracing.sample_ratio", Message: "must be between 0.0 and 1.0"})
	}
	if cfg.OTLP.Timeout < 0 {
		errs = append(errs, FieldError{Field: "telemetry.tracing.otlp.timeout", Message: "timeout must be positive"})
	}

	return errs
}
