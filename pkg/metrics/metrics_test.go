package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := MustNewMetrics(prometheus.NewRegistry())

	m.IncGenerated("model", "scratch", "http")
	m.IncGenerated("model", "scratch", "http")
	m.IncFallback("slide_count_mismatch")
	m.IncFailure("templated", "telegram")
	m.ObservePipeline("ok", time.Second)
	m.WizardStarted()
	m.WizardStarted()
	m.WizardFinished()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.decksGenerated.WithLabelValues("model", "scratch", "http")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacks.WithLabelValues("slide_count_mismatch")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assemblyFailures.WithLabelValues("templated", "telegram")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeWizards))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncGenerated("a", "b", "c")
		m.IncFallback("x")
		m.WizardStarted()
	})
}
