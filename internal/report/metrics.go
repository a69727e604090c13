package report

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks report pipeline runs for the /metrics endpoint.
type Metrics struct {
	runsTotal   *prometheus.CounterVec
	runDuration prometheus.Histogram
}

// InitMetrics creates and registers the report metrics. Passing a nil
// registerer falls back to the default one.
func InitMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "report_runs_total",
				Help:      "Total number of report pipeline runs",
			},
			[]string{"outcome"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_run_duration_seconds",
				Help:      "Duration of successful report pipeline runs",
				Buckets:   []float64{.1, .5, 1, 5, 10, 30, 60},
			},
		),
	}

	reg.MustRegister(m.runsTotal, m.runDuration)
	return m
}

// recordRun is nil-safe so the service can run without metrics in tests.
func (m *Metrics) recordRun(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.runsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		m.runDuration.Observe(d.Seconds())
	}
}
