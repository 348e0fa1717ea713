package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the tenant module.
// Tracks tenant creation counts and critical path durations.
type Metrics struct {
	TenantCreated     prometheus.Counter
	ModuleUpdated     *prometheus.CounterVec
	GetTenantDuration prometheus.Histogram
}

// New creates a new Metrics instance with all tenant module metrics registered.
func New() *Metrics {
	return &Metrics{
		TenantCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "govern_tenants_created_total",
			Help: "Total number of tenants created",
		}),
		ModuleUpdated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "govern_tenant_module_updates_total",
			Help: "Total number of tenant module enablement changes",
		}, []string{"domain"}),
		GetTenantDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "govern_get_tenant_duration_seconds",
			Help:    "Duration of GetTenant operations (config resolution critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementTenantCreated records a successful tenant creation.
func (m *Metrics) IncrementTenantCreated() {
	m.TenantCreated.Inc()
}

// IncrementModuleUpdated records a module enablement change for a domain.
func (m *Metrics) IncrementModuleUpdated(domain string) {
	m.ModuleUpdated.WithLabelValues(domain).Inc()
}

// ObserveGetTenant records the duration of a GetTenant operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveGetTenant(start time.Time) {
	m.GetTenantDuration.Observe(time.Since(start).Seconds())
}
