package observ

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for mexpand_expansions_total.
const (
	OutcomeOK           = "ok"
	OutcomeError        = "error"
	OutcomeUnresolved   = "unresolved"
	OutcomeDeclarative  = "declarative"
	OutcomeCached       = "cached"
	FileStatusOK        = "ok"
	FileStatusFailed    = "failed"
	FileStatusCached    = "cached"
	FileStatusCancelled = "cancelled"
)

// Metrics holds the pipeline counters. A nil *Metrics records nothing.
type Metrics struct {
	Expansions *prometheus.CounterVec
	Files      *prometheus.CounterVec
	Duration   prometheus.Histogram
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Expansions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mexpand_expansions_total",
			Help: "Macro calls processed, by macro name and outcome.",
		}, []string{"macro", "outcome"}),
		Files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mexpand_files_total",
			Help: "Source files processed, by status.",
		}, []string{"status"}),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mexpand_expand_duration_seconds",
			Help:    "Time spent expanding one file.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Expansions, m.Files, m.Duration)
	}
	return m
}

func (m *Metrics) ObserveExpansion(macro, outcome string) {
	if m == nil {
		return
	}
	m.Expansions.WithLabelValues(macro, outcome).Inc()
}

func (m *Metrics) ObserveFile(status string, d time.Duration) {
	if m == nil {
		return
	}
	m.Files.WithLabelValues(status).Inc()
	if status != FileStatusCancelled {
		m.Duration.Observe(d.Seconds())
	}
}
