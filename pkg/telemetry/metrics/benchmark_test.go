package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func BenchmarkCollector_RecordCheck(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordCheck(StageInput, OutcomePass, "", 3*time.Microsecond)
	}
}

func BenchmarkCollector_RecordCheck_Parallel(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			collector.RecordCheck(StageOutput, OutcomeReject, "pii-detected", 3*time.Microsecond)
		}
	})
}

func BenchmarkCollector_RecordPromptResolution(b *testing.B) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordPromptResolution("listing-autofill", ResolutionFound)
	}
}
