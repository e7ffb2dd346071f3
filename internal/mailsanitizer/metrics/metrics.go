package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the mail sanitizer module.
type Metrics struct {
	Recipients       *prometheus.CounterVec
	SanitizeDuration prometheus.Histogram
}

// New creates a Metrics instance with all module metrics registered.
func New() *Metrics {
	return &Metrics{
		Recipients: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "crmkit_mail_recipients_total",
			Help: "Recipients processed by outcome (suffixed, already_processed, whitelisted, group_exempt)",
		}, []string{"outcome"}),
		SanitizeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "crmkit_mail_sanitize_duration_seconds",
			Help:    "Duration of sanitize calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// CountRecipient records the outcome for a single recipient.
func (m *Metrics) CountRecipient(outcome string) {
	m.Recipients.WithLabelValues(outcome).Inc()
}

// ObserveSanitize records the duration of a sanitize call.
func (m *Metrics) ObserveSanitize(start time.Time) {
	m.SanitizeDuration.Observe(time.Since(start).Seconds())
}
