package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance module.
type Metrics struct {
	Evaluations      *prometheus.CounterVec
	ViolationsFound  *prometheus.CounterVec
	EvaluateDuration prometheus.Histogram
}

// New creates a new Metrics instance with all compliance metrics registered.
func New() *Metrics {
	return &Metrics{
		Evaluations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "govern_compliance_evaluations_total",
			Help: "Total compliance evaluations by jurisdiction",
		}, []string{"jurisdiction"}),
		ViolationsFound: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "govern_compliance_violations_total",
			Help: "Total violations reported, by severity",
		}, []string{"severity"}),
		EvaluateDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "govern_compliance_evaluate_duration_seconds",
			Help:    "Duration of full rule-set evaluations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveEvaluation records one evaluation run and its findings.
func (m *Metrics) ObserveEvaluation(jurisdiction string, start time.Time, severities []string) {
	m.Evaluations.WithLabelValues(jurisdiction).Inc()
	m.EvaluateDuration.Observe(time.Since(start).Seconds())
	for _, s := range severities {
		m.ViolationsFound.WithLabelValues(s).Inc()
	}
}
