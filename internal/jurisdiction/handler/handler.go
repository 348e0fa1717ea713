// Package handler exposes jurisdiction metadata and config resolution over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"govern/internal/jurisdiction"
	"govern/internal/jurisdiction/finance"
	"govern/internal/jurisdiction/resolver"
	"govern/internal/tenant/models"
	id "govern/pkg/domain"
	dErrors "govern/pkg/domain-errors"
	"govern/pkg/platform/httputil"
	"govern/pkg/requestcontext"
)

// TenantLoader fetches the tenant whose config is being resolved.
type TenantLoader interface {
	GetTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
}

// Handler wires jurisdiction endpoints to the registry and resolver.
type Handler struct {
	registry *jurisdiction.Registry
	resolver *resolver.Resolver
	tenants  TenantLoader
	logger   *slog.Logger
}

// New constructs a jurisdiction handler with its dependencies.
func New(registry *jurisdiction.Registry, res *resolver.Resolver, tenants TenantLoader, logger *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		resolver: res,
		tenants:  tenants,
		logger:   logger,
	}
}

// Register mounts the resolution endpoint on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/config/resolve", h.HandleResolveConfig)
}

// RegisterAdmin mounts the jurisdiction catalog endpoints, intended to sit
// behind the admin-token middleware.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/admin/jurisdictions", h.HandleListJurisdictions)
	r.Get("/admin/jurisdictions/{code}", h.HandleGetJurisdiction)
	r.Get("/admin/jurisdictions/{code}/domains", h.HandleListDomains)
}

// HandleListJurisdictions handles GET /admin/jurisdictions requests.
func (h *Handler) HandleListJurisdictions(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"jurisdictions": h.registry.Jurisdictions(),
	})
}

// HandleGetJurisdiction handles GET /admin/jurisdictions/{code} requests.
func (h *Handler) HandleGetJurisdiction(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	meta, ok := h.registry.Jurisdiction(code)
	if !ok {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeNotFound, "jurisdiction %q is not supported", code))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, meta)
}

// HandleListDomains handles GET /admin/jurisdictions/{code}/domains requests.
func (h *Handler) HandleListDomains(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	if !h.registry.IsSupported(code) {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeNotFound, "jurisdiction %q is not supported", code))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"jurisdiction": code,
		"domains":      h.registry.DomainsFor(code),
	})
}

// ResolveConfigRequest is the wire shape for POST /config/resolve.
type ResolveConfigRequest struct {
	TenantID string `json:"tenant_id"`
	Domain   string `json:"domain"`
	// IncludeLegacy widens resolution to predicate-matched packs when no
	// derive-function pack covers the domain.
	IncludeLegacy bool `json:"include_legacy,omitempty"`
}

func (r *ResolveConfigRequest) Validate() error {
	if r.TenantID == "" {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if strings.TrimSpace(r.Domain) == "" {
		return dErrors.New(dErrors.CodeValidation, "domain is required")
	}
	return nil
}

// HandleResolveConfig handles POST /config/resolve requests.
func (h *Handler) HandleResolveConfig(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[ResolveConfigRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	tenantID, err := id.ParseTenantID(req.TenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	tenant, err := h.tenants.GetTenant(ctx, tenantID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	dom := strings.ToLower(strings.TrimSpace(req.Domain))
	res := h.resolver.ResolveConfigWithMetadata(tenant.Config(), tenant.Identity(), dom)
	if !res.Available && !res.PackFound && req.IncludeLegacy {
		if config, ok := h.resolver.ResolveConfigAny(tenant.Config(), tenant.Identity(), dom); ok {
			res.Config = config
			res.Available = true
			res.PackFound = true
			res.ModuleEnabled = true
		}
	}
	if dom == finance.Domain && res.Available {
		// Project through the typed schema: numeric overrides normalize to
		// float64, unknown and mistyped keys pass through via Extra.
		res.Config = finance.FromMap(res.Config).Map()
	}

	h.logger.InfoContext(ctx, "config resolved",
		"request_id", requestID,
		"tenant_id", tenantID,
		"domain", dom,
		"available", res.Available,
		"pack_found", res.PackFound,
	)
	httputil.WriteJSON(w, http.StatusOK, res)
}
