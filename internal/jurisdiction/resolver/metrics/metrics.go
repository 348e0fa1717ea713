package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for configuration resolution.
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	ResolveDuration prometheus.Histogram
}

// New creates and registers all resolver metrics.
func New() *Metrics {
	return &Metrics{
		Resolutions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "govern_config_resolutions_total",
			Help: "Total configuration resolutions by outcome",
		}, []string{"outcome"}),
		ResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "govern_config_resolve_duration_seconds",
			Help:    "Duration of ResolveConfig calls",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
	}
}

// Outcome labels for the resolutions counter.
const (
	OutcomeResolved       = "resolved"
	OutcomeNoPack         = "no_pack"
	OutcomeModuleDisabled = "module_disabled"
)

// IncrementResolution records one resolution attempt with its outcome.
func (m *Metrics) IncrementResolution(outcome string) {
	m.Resolutions.WithLabelValues(outcome).Inc()
}

// ObserveResolve records the duration of a resolution.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveResolve(start time.Time) {
	m.ResolveDuration.Observe(time.Since(start).Seconds())
}
