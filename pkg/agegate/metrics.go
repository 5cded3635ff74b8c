package agegate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the prometheus collectors for verification passes. A nil
// *Metrics disables recording.
type Metrics struct {
	VerdictsTotal        *prometheus.CounterVec
	VerificationDuration prometheus.Histogram
}

// NewMetrics registers the age-gate collectors with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		VerdictsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agegate_verdicts_total",
			Help: "Total number of verification passes grouped by terminal state",
		}, []string{"state"}),
		VerificationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "agegate_verification_duration_seconds",
			Help:    "Duration of full verification passes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		}),
	}
}

func (m *Metrics) observe(state State, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.VerdictsTotal.WithLabelValues(string(state)).Inc()
	m.VerificationDuration.Observe(elapsed.Seconds())
}
