package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"

	"mercator-hq/aegis/pkg/config"
	"mercator-hq/aegis/pkg/telemetry/logging"
	"mercator-hq/aegis/pkg/telemetry/metrics"
	"mercator-hq/aegis/pkg/telemetry/tracing"
)

// Telemetry owns a logger, a metrics collector and a tracer built from one
// configuration section.
type Telemetry struct {
	logger  *logging.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// New builds the telemetry stack. Logs are written to logOutput, or to
// stderr when it is nil. Each Telemetry has its own Prometheus registry.
func New(cfg *config.TelemetryConfig, logOutput io.Writer) (*Telemetry, error) {
	if cfg == nil {
		return nil, errors.New("telemetry config is nil")
	}

	logger, err := logging.New(logging.FromConfig(&cfg.Logging, logOutput))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	tracer, err := tracing.New(&cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	return &Telemetry{
		logger:  logger,
		metrics: metrics.NewCollector(&cfg.Metrics, nil),
		tracer:  tracer,
	}, nil
}

// Nop returns telemetry that discards logs, records no metrics and creates
// noop spans.
func Nop() *Telemetry {
	return &Telemetry{
		logger:  logging.Nop(),
		metrics: metrics.NewCollector(&config.MetricsConfig{Enabled: false}, nil),
		tracer:  tracing.Noop(),
	}
}

// Logger returns the logger.
func (t *Telemetry) Logger() *logging.Logger {
	return t.logger
}

// Metrics returns the metrics collector.
func (t *Telemetry) Metrics() *metrics.Collector {
	return t.metrics
}

// Tracer returns the tracer.
func (t *Telemetry) Tracer() *tracing.Tracer {
	return t.tracer
}

// Shutdown flushes pending spans.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	return t.tracer.Shutdown(ctx)
}
