package config

import "time"

// Default values for configuration fields.
const (
	// Guardrail defaults
	DefaultMaxTextLength     = 2000
	DefaultMaxImageURLLength = 2048
	DefaultOutputMaxDepth    = 64

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "json"
	DefaultLoggingRedactPII   = true
	DefaultMetricsEnabled     = true
	DefaultMetricsNamespace   = "aegis"
	DefaultMetricsSubsystem   = "guardrail"
	DefaultTracingEnabled     = false
	DefaultTracingExporter    = "otlp"
	DefaultTracingSampler     = "ratio"
	DefaultTracingSampleRatio = 1.0
	DefaultTracingServiceName = "aegis"
	DefaultOTLPTimeout        = 10 * time.Second
)

// DefaultDurationBuckets covers guardrail checks from 1µs to ~16ms.
var DefaultDurationBuckets = []float64{
	0.000001, 0.000002, 0.000004, 0.000008, 0.000016, 0.000032, 0.000064,
	0.000128, 0.000256, 0.000512, 0.001024, 0.002048, 0.004096, 0.008192, 0.016384,
}

// Default returns a configuration populated with default values.
// Loading starts from this value so that booleans defaulting to true survive
// when a YAML file omits them.
func Default() *Config {
	cfg := &Config{
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				RedactPII: DefaultLoggingRedactPII,
			},
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
			Tracing: TracingConfig{
				Enabled: DefaultTracingEnabled,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Guardrail defaults
	if cfg.Guardrail.Input.MaxTextLength == 0 {
		cfg.Guardrail.Input.MaxTextLength = DefaultMaxTextLength
	}
	if cfg.Guardrail.Input.MaxImageURLLength == 0 {
		cfg.Guardrail.Input.MaxImageURLLength = DefaultMaxImageURLLength
	}
	if cfg.Guardrail.Output.MaxDepth == 0 {
		cfg.Guardrail.Output.MaxDepth = DefaultOutputMaxDepth
	}

	// Logging defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}

	// Metrics defaults
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = DefaultMetricsSubsystem
	}
	if len(cfg.Telemetry.Metrics.DurationBuckets) == 0 {
		cfg.Telemetry.Metrics.DurationBuckets = append([]float64(nil), DefaultDurationBuckets...)
	}

	// Tracing defaults
	if cfg.Telemetry.Tracing.Exporter == "" {
		cfg.Telemetry.Tracing.Exporter = DefaultTracingExporter
	}
	if cfg.Telemetry.Tracing.Sampler == "" {
		cfg.Telemetry.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.OTLP.Timeout == 0 {
		cfg.Telemetry.Tracing.OTLP.Timeout = DefaultOTLPTimeout
	}
}
