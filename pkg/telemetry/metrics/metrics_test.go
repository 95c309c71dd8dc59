package metrics

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"mercator-hq/aegis/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

// Helper function to create test config
func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:         true,
		Namespace:       "test",
		Subsystem:       "guardrail",
		DurationBuckets: []float64{0.000001, 0.00001, 0.0001, 0.001},
	}
}

func TestCollector_NewCollector(t *testing.T) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()

	collector := NewCollector(cfg, registry)

	if collector.config != cfg {
		t.Error("Collector config not set correctly")
	}
	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}
	if !collector.Enabled() {
		t.Error("expected collector to be enabled")
	}
}

func TestCollector_NilConfig(t *testing.T) {
	collector := NewCollector(nil, nil)
	if collector.Registry() == nil {
		t.Fatal("expected a registry to be created")
	}
	collector.RecordCheck(StageInput, OutcomePass, "", time.Microsecond)
}

func TestCollector_RecordCheck(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	tests := []struct {
		stage   string
		outcome string
		reason  string
	}{
		{StageInput, OutcomePass, ""},
		{StageInput, OutcomeReject, "text-too-long"},
		{StageInput, OutcomeReject, "text-too-long"},
		{StageOutput, OutcomeReject, "pii-detected"},
	}
	for _, tt := range tests {
		collector.RecordCheck(tt.stage, tt.outcome, tt.reason, 5*time.Microsecond)
	}

	checks := collector.guardrailMetrics.checksTotal
	if got := testutil.ToFloat64(checks.WithLabelValues(StageInput, OutcomeReject, "text-too-long")); got != 2 {
		t.Errorf("text-too-long count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(checks.WithLabelValues(StageInput, OutcomePass, "")); got != 1 {
		t.Errorf("pass count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(collector.guardrailMetrics.checkDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordCheck(StageInput, OutcomeReject, "missing-user-id", time.Microsecond)
	collector.RecordPIIHit("email")
	collector.RecordPromptResolution("chat-assistant", ResolutionFound)

	if got := testutil.CollectAndCount(collector.guardrailMetrics.checksTotal); got != 0 {
		t.Errorf("disabled collector recorded %d check series", got)
	}
	if got := testutil.CollectAndCount(collector.promptMetrics.resolutionsTotal); got != 0 {
		t.Errorf("disabled collector recorded %d resolution series", got)
	}

	var nilCollector *Collector
	nilCollector.RecordCheck(StageInput, OutcomePass, "", 0)
}

func TestCollector_RecordPromptResolution_Cardinality(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.intentLimiter = NewCardinalityLimiter(2)

	collector.RecordPromptResolution("a", ResolutionFound)
	collector.RecordPromptResolution("b", ResolutionFound)
	collector.RecordPromptResolution("c", ResolutionNoActive)
	collector.RecordPromptResolution("a", ResolutionFound)

	res := collector.promptMetrics.resolutionsTotal
	if got := testutil.ToFloat64(res.WithLabelValues("a", ResolutionFound)); got != 2 {
		t.Errorf("intent a = %v, want 2", got)
	}
	if got := testutil.ToFloat64(res.WithLabelValues(overflowLabel, ResolutionNoActive)); got != 1 {
		t.Errorf("overflow = %v, want 1", got)
	}
}

func TestCollector_RecordPIIHit(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordPIIHit("email")
	collector.RecordPIIHit("email")
	collector.RecordPIIHit("iban")

	families, err := collector.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	var family *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "test_guardrail_pii_hits_total" {
			family = mf
		}
	}
	if family == nil {
		t.Fatal("pii_hits_total not gathered")
	}
	if len(family.GetMetric()) != 2 {
		t.Errorf("got %d series, want 2", len(family.GetMetric()))
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordPIIHit("email")

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), `test_guardrail_pii_hits_total{pii_type="email"} 1`) {
		t.Errorf("scrape missing pii counter:\n%s", body)
	}
}

func TestCollector_WriteText(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordCheck(StageOutput, OutcomeReject, "schema-validation-failed", time.Microsecond)

	var buf bytes.Buffer
	if err := collector.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	out := buf.String()
	want := `test_guardrail_checks_total{outcome="reject",reason="schema-validation-failed",stage="output"} 1`
	if !strings.Contains(out, want) {
		t.Errorf("WriteText() output missing %q:\n%s", want, out)
	}
	if !strings.Contains(out, "# TYPE test_guardrail_check_duration_seconds histogram") {
		t.Errorf("WriteText() output missing histogram header:\n%s", out)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	cl := NewCardinalityLimiter(3)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cl.Allow(string(rune('a' + i)))
		}(i)
	}
	wg.Wait()

	if cl.Count() != 3 {
		t.Errorf("Count() = %d, want 3", cl.Count())
	}
}
