package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterAIMetrics_Idempotent(t *testing.T) {
	RegisterAIMetrics()
	RegisterAIMetrics()

	if !prometheus.DefaultRegisterer.Unregister(FallbacksTotal) {
		t.Fatal("FallbacksTotal was not registered")
	}
	prometheus.MustRegister(FallbacksTotal)
}

func TestFallbacksTotal_Labels(t *testing.T) {
	before := testutil.ToFloat64(FallbacksTotal.WithLabelValues("expansion", "timeout"))
	FallbacksTotal.WithLabelValues("expansion", "timeout").Inc()
	if got := testutil.ToFloat64(FallbacksTotal.WithLabelValues("expansion", "timeout")); got-before != 1 {
		t.Errorf("delta = %v, want 1", got-before)
	}
}
