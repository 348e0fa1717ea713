// Package handler exposes tenant administration over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"govern/internal/domain"
	"govern/internal/tenant/models"
	"govern/internal/tenant/service"
	id "govern/pkg/domain"
	"govern/pkg/platform/httputil"
	"govern/pkg/requestcontext"
)

// Service defines the tenant operations the handler depends on.
type Service interface {
	CreateTenant(ctx context.Context, params service.CreateTenantParams) (*models.Tenant, error)
	GetTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	ListTenants(ctx context.Context) ([]*models.Tenant, error)
	SetModule(ctx context.Context, tenantID id.TenantID, entry domain.ModuleEntry) (*models.Tenant, error)
}

// Handler wires tenant admin endpoints to the tenant service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a tenant handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts tenant admin endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/tenants", h.HandleCreateTenant)
	r.Get("/admin/tenants", h.HandleListTenants)
	r.Get("/admin/tenants/{tenantID}", h.HandleGetTenant)
	r.Put("/admin/tenants/{tenantID}/modules/{domain}", h.HandleSetModule)
}

// HandleCreateTenant handles POST /admin/tenants requests.
func (h *Handler) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CreateTenantRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	tenant, err := h.service.CreateTenant(ctx, req.ToParams())
	if err != nil {
		h.logger.ErrorContext(ctx, "tenant creation failed",
			"request_id", requestID,
			"name", req.Name,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "tenant created",
		"request_id", requestID,
		"tenant_id", tenant.ID,
		"jurisdiction", tenant.JurisdictionCode,
	)
	httputil.WriteJSON(w, http.StatusCreated, tenant)
}

// HandleListTenants handles GET /admin/tenants requests.
func (h *Handler) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenants, err := h.service.ListTenants(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"tenants": tenants})
}

// HandleGetTenant handles GET /admin/tenants/{tenantID} requests.
func (h *Handler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tenant, err := h.service.GetTenant(ctx, tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, tenant)
}

// HandleSetModule handles PUT /admin/tenants/{tenantID}/modules/{domain} requests.
func (h *Handler) HandleSetModule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	tenantID, err := id.ParseTenantID(chi.URLParam(r, "tenantID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	moduleDomain := chi.URLParam(r, "domain")

	req, ok := httputil.DecodeAndPrepare[SetModuleRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	tenant, err := h.service.SetModule(ctx, tenantID, domain.ModuleEntry{
		Domain:    moduleDomain,
		Enabled:   req.Enabled,
		Overrides: req.Overrides,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "module update failed",
			"request_id", requestID,
			"tenant_id", tenantID,
			"domain", moduleDomain,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "tenant module updated",
		"request_id", requestID,
		"tenant_id", tenantID,
		"domain", moduleDomain,
		"enabled", req.Enabled,
	)
	httputil.WriteJSON(w, http.StatusOK, tenant)
}
