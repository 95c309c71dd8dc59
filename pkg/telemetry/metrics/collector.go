package metrics

import (
	"sync"
	"time"

	"mercator-hq/aegis/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Check stages.
const (
	StageInput  = "input"
	StageOutput = "output"
)

// Check outcomes.
const (
	OutcomePass   = "pass"
	OutcomeReject = "reject"
)

// Prompt resolution outcomes.
const (
	ResolutionFound    = "found"
	ResolutionNoActive = "no_active"
)

// overflowLabel replaces label values beyond the cardinality limit.
const overflowLabel = "other"

// Collector owns the Prometheus metrics recorded by the guardrails and the
// prompt registry. A disabled collector accepts every call and records
// nothing.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	guardrailMetrics *GuardrailMetrics
	promptMetrics    *PromptMetrics

	// Intents come from callers, so their label values are bounded.
	intentLimiter *CardinalityLimiter
}

// NewCollector creates a collector registering its metrics with registry.
// If registry is nil a new one is created. A nil cfg uses the defaults.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordCheck("input", "reject", "text-too-long", 3*time.Microsecond)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg == nil {
		cfg = &config.Default().Telemetry.Metrics
	}

	c := &Collector{
		config:        cfg,
		registry:      registry,
		intentLimiter: NewCardinalityLimiter(256),
	}

	c.guardrailMetrics = NewGuardrailMetrics(cfg, registry)
	c.promptMetrics = NewPromptMetrics(cfg, registry)

	return c
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordCheck records one guardrail check.
//
// Parameters:
//   - stage: "input" or "output"
//   - outcome: "pass" or "reject"
//   - reason: rejection code without PII detail, "" on pass
//   - duration: time spent in the check
func (c *Collector) RecordCheck(stage, outcome, reason string, duration time.Duration) {
	if !c.Enabled() {
		return
	}

	c.guardrailMetrics.RecordCheck(stage, outcome, reason, duration)
}

// RecordPIIHit records the PII type behind an output rejection.
func (c *Collector) RecordPIIHit(piiType string) {
	if !c.Enabled() {
		return
	}

	c.guardrailMetrics.RecordPIIHit(piiType)
}

// RecordPromptResolution records an active prompt lookup.
//
// Parameters:
//   - intent: feature intent requested by the caller
//   - outcome: "found" or "no_active"
func (c *Collector) RecordPromptResolution(intent, outcome string) {
	if !c.Enabled() {
		return
	}

	if !c.intentLimiter.Allow(intent) {
		intent = overflowLabel
	}
	c.promptMetrics.RecordResolution(intent, outcome)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter bounds the number of distinct values seen for a label.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a limiter admitting at most maxCardinality
// distinct values.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow reports whether value is already tracked or can still be added.
func (cl *CardinalityLimiter) Allow(value string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[value]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[value]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[value] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
