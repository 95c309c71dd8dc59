package metrics

import (
	"mercator-hq/aegis/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// PromptMetrics tracks active prompt resolution.
//
// Metrics:
//   - aegis_guardrail_prompt_resolutions_total: resolutions by intent and outcome
type PromptMetrics struct {
	resolutionsTotal *prometheus.CounterVec
}

// NewPromptMetrics creates and registers prompt metrics with the provided
// registry.
func NewPromptMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *PromptMetrics {
	pm := &PromptMetrics{
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "prompt_resolutions_total",
				Help:      "Total number of active prompt resolutions",
			},
			[]string{"intent", "outcome"},
		),
	}

	registry.MustRegister(pm.resolutionsTotal)

	return pm
}

// RecordResolution records an active prompt lookup.
func (pm *PromptMetrics) RecordResolution(intent, outcome string) {
	pm.resolutionsTotal.WithLabelValues(intent, outcome).Inc()
}
