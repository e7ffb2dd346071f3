package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the instance configuration module.
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
}

// New creates a Metrics instance with all module metrics registered.
func New() *Metrics {
	return &Metrics{
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "crmkit_config_resolutions_total",
			Help: "Total configuration resolutions by source (override, default, miss, cache)",
		}, []string{"source"}),
		ResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "crmkit_config_resolve_duration_seconds",
			Help:    "Duration of configuration resolve operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveResolution records the outcome and duration of a resolve call.
func (m *Metrics) ObserveResolution(source string, start time.Time) {
	m.Resolutions.WithLabelValues(source).Inc()
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}
