// Package metrics holds the Prometheus collectors describing deck generation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "deckbot"

type Metrics struct {
	decksGenerated   *prometheus.CounterVec
	fallbacks        *prometheus.CounterVec
	assemblyFailures *prometheus.CounterVec
	pipelineDuration *prometheus.HistogramVec
	activeWizards    prometheus.Gauge
}

// MustNewMetrics registers the collectors on reg. Tests pass a fresh
// prometheus.NewRegistry(). Registration conflicts panic.
func MustNewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		decksGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decks_generated_total",
			Help:      "Decks delivered, by outline source and assembly mode.",
		}, []string{"source", "mode", "channel"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outline_fallbacks_total",
			Help:      "Outlines replaced by the fallback structure, by reason.",
		}, []string{"reason"}),
		assemblyFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deck_failures_total",
			Help:      "Pipeline runs that produced no deck.",
		}, []string{"mode", "channel"}),
		pipelineDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "End-to-end time from request to rendered deck.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"status"}),
		activeWizards: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "wizard_generations_active",
			Help:      "Wizard sessions currently in the generating state.",
		}),
	}
	reg.MustRegister(m.decksGenerated, m.fallbacks, m.assemblyFailures, m.pipelineDuration, m.activeWizards)
	return m
}

func (m *Metrics) IncGenerated(source, mode, channel string) {
	if m == nil {
		return
	}
	m.decksGenerated.WithLabelValues(source, mode, channel).Inc()
}

func (m *Metrics) IncFallback(reason string) {
	if m == nil {
		return
	}
	m.fallbacks.WithLabelValues(reason).Inc()
}

func (m *Metrics) IncFailure(mode, channel string) {
	if m == nil {
		return
	}
	m.assemblyFailures.WithLabelValues(mode, channel).Inc()
}

func (m *Metrics) ObservePipeline(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.pipelineDuration.WithLabelValues(status).Observe(d.Seconds())
}

func (m *Metrics) WizardStarted() {
	if m == nil {
		return
	}
	m.activeWizards.Inc()
}

func (m *Metrics) WizardFinished() {
	if m == nil {
		return
	}
	m.activeWizards.Dec()
}
