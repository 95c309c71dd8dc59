package metrics

import (
	"time"

	"mercator-hq/aegis/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// GuardrailMetrics tracks guardrail checks.
//
// Metrics:
//   - aegis_guardrail_checks_total: checks by stage, outcome and reason
//   - aegis_guardrail_check_duration_seconds: check duration by stage
//   - aegis_guardrail_pii_hits_total: output rejections by PII type
type GuardrailMetrics struct {
	checksTotal   *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	piiHitsTotal  *prometheus.CounterVec
}

// NewGuardrailMetrics creates and registers guardrail metrics with the
// provided registry.
func NewGuardrailMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *GuardrailMetrics {
	buckets := cfg.DurationBuckets
	if len(buckets) == 0 {
		buckets = config.DefaultDurationBuckets
	}

	gm := &GuardrailMetrics{
		checksTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "checks_total",
				Help:      "Total number of guardrail checks",
			},
			[]string{"stage", "outcome", "reason"},
		),

		checkDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "check_duration_seconds",
				Help:      "Duration of guardrail checks in seconds",
				Buckets:   buckets,
			},
			[]string{"stage"},
		),

		piiHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pii_hits_total",
				Help:      "Total number of outputs rejected for PII, by type",
			},
			[]string{"pii_type"},
		),
	}

	registry.MustRegister(
		gm.checksTotal,
		gm.checkDuration,
		gm.piiHitsTotal,
	)

	return gm
}

// RecordCheck records a guardrail check.
func (gm *GuardrailMetrics) RecordCheck(stage, outcome, reason string, duration time.Duration) {
	gm.checksTotal.WithLabelValues(stage, outcome, reason).Inc()
	gm.checkDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordPIIHit records an output rejected for PII.
func (gm *GuardrailMetrics) RecordPIIHit(piiType string) {
	gm.piiHitsTotal.WithLabelValues(piiType).Inc()
}
