package config

import "time"

// Config is the root configuration structure for aegis.
// It contains the guardrail limits, the prompt catalog location and the
// telemetry settings shared by the library and the aegis command.
type Config struct {
	// Guardrail contains configuration for the input and output guardrails.
	Guardrail GuardrailConfig `yaml:"guardrail"`

	// Prompts contains configuration for the prompt registry.
	Prompts PromptsConfig `yaml:"prompts"`

	// Telemetry contains configuration for observability including logging,
	// metrics, and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// GuardrailConfig contains configuration for the pre- and post-inference gates.
type GuardrailConfig struct {
	// Input contains the pre-inference gate limits.
	Input InputConfig `yaml:"input"`

	// Output contains the post-inference gate settings.
	Output OutputConfig `yaml:"output"`
}

// InputConfig contains configuration for the input guardrail.
type InputConfig struct {
	// MaxTextLength is the maximum number of characters accepted in a text
	// submission.
	// Default: 2000
	MaxTextLength int `yaml:"max_text_length"`

	// MaxImageURLLength is the maximum length of a submitted image URL.
	// Default: 2048
	MaxImageURLLength int `yaml:"max_image_url_length"`

	// ExtraPatterns are operator-supplied adversarial prompt patterns,
	// evaluated after the built-in catalog in the order given.
	ExtraPatterns []PatternConfig `yaml:"extra_patterns"`
}

// PatternConfig defines a named regular expression.
type PatternConfig struct {
	// ID identifies the pattern in logs and diagnostics.
	ID string `yaml:"id"`

	// Pattern is the regular expression (RE2 syntax). Matching is
	// case-insensitive.
	Pattern string `yaml:"pattern"`
}

// OutputConfig contains configuration for the output guardrail and its PII scan.
type OutputConfig struct {
	// MaxDepth is the container nesting ceiling for the PII scan.
	// Default: 64
	MaxDepth int `yaml:"max_depth"`

	// AllowlistFields are additional field-name fragments expected to hold
	// PII. They extend the built-in list (email, phone, contact, iban, card).
	AllowlistFields []string `yaml:"allowlist_fields"`
}

// PromptsConfig contains configuration for the prompt registry.
type PromptsConfig struct {
	// CatalogPath is an optional YAML prompt catalog. When empty the
	// built-in catalog is used.
	CatalogPath string `yaml:"catalog_path"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactPII enables automatic PII redaction in logs.
	// Default: true
	RedactPII bool `yaml:"redact_pii"`

	// RedactPatterns contains custom redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix.
	// Default: "aegis"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: "guardrail"
	Subsystem string `yaml:"subsystem"`

	// DurationBuckets defines histogram buckets for check durations (seconds).
	// Default: exponential from 1µs to ~16ms
	DurationBuckets []float64 `yaml:"duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether distributed tracing is active.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Exporter selects the span exporter.
	// Options: "otlp"
	// Default: "otlp"
	Exporter string `yaml:"exporter"`

	// Endpoint is the collector address, e.g. "localhost:4317".
	Endpoint string `yaml:"endpoint"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio", "parent_ratio"
	// Default: "ratio"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces sampled by ratio samplers.
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "aegis"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter settings.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS to the collector.
	Insecure bool `yaml:"insecure"`

	// Timeout bounds each export call.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
