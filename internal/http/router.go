// Package httpapi assembles the HTTP surface. Handlers live with their
// modules; this package only wires middleware and mounts them.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	compliancehandler "govern/internal/compliance/handler"
	jurisdictionhandler "govern/internal/jurisdiction/handler"
	"govern/internal/platform/metrics"
	tenanthandler "govern/internal/tenant/handler"
	"govern/pkg/platform/httputil"
	"govern/pkg/platform/middleware/admin"
	"govern/pkg/platform/middleware/metadata"
	"govern/pkg/platform/middleware/request"
	"govern/pkg/platform/middleware/requesttime"
)

// Deps carries the wired handlers and cross-cutting services for the router.
type Deps struct {
	Tenant       *tenanthandler.Handler
	Jurisdiction *jurisdictionhandler.Handler
	Compliance   *compliancehandler.Handler
	Metrics      *metrics.Metrics
	// RateLimit, when non-nil, guards the open endpoints.
	RateLimit  func(http.Handler) http.Handler
	AdminToken string
	Logger     *slog.Logger
}

// NewRouter wires all endpoints behind the shared middleware chain. Admin
// endpoints additionally require the X-Admin-Token header.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(request.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Resolution and evaluation are the service-to-service surface.
	r.Group(func(r chi.Router) {
		if deps.RateLimit != nil {
			r.Use(deps.RateLimit)
		}
		deps.Jurisdiction.Register(r)
		deps.Compliance.Register(r)
	})

	// Administration requires the admin token.
	r.Group(func(r chi.Router) {
		r.Use(admin.RequireAdminToken(deps.AdminToken, deps.Logger))
		deps.Tenant.Register(r)
		deps.Jurisdiction.RegisterAdmin(r)
	})

	return r
}
