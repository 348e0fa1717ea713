// Package handler exposes compliance evaluation over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"govern/internal/compliance"
	"govern/internal/compliance/metrics"
	"govern/internal/tenant/models"
	id "govern/pkg/domain"
	dErrors "govern/pkg/domain-errors"
	"govern/pkg/platform/audit"
	"govern/pkg/platform/httputil"
	"govern/pkg/requestcontext"
)

// TenantLoader fetches the tenant being evaluated.
type TenantLoader interface {
	GetTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
}

// AuditPublisher records evaluation runs.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Handler wires compliance endpoints to the per-jurisdiction rule engines.
type Handler struct {
	engines map[string]*compliance.Engine
	tenants TenantLoader
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditPublisher
}

// New constructs a compliance handler with its dependencies.
func New(engines map[string]*compliance.Engine, tenants TenantLoader, logger *slog.Logger, m *metrics.Metrics, auditor AuditPublisher) *Handler {
	return &Handler{
		engines: engines,
		tenants: tenants,
		logger:  logger,
		metrics: m,
		auditor: auditor,
	}
}

// Register mounts compliance endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/compliance/evaluate", h.HandleEvaluate)
	r.Get("/compliance/rules/{jurisdiction}", h.HandleListRules)
}

// EvaluateRequest is the wire shape for POST /compliance/evaluate. The
// financial snapshot rides along with the request; the service holds no
// ledger state of its own.
type EvaluateRequest struct {
	TenantID       string                   `json:"tenant_id"`
	FiscalYear     int                      `json:"fiscal_year"`
	EvaluationDate *time.Time               `json:"evaluation_date,omitempty"`
	Funds          []compliance.Fund        `json:"funds,omitempty"`
	BudgetLines    []compliance.BudgetLine  `json:"budget_lines,omitempty"`
	Transactions   []compliance.Transaction `json:"transactions,omitempty"`
	AdditionalData map[string]any           `json:"additional_data,omitempty"`
	MinSeverity    string                   `json:"min_severity,omitempty"`
}

func (r *EvaluateRequest) Validate() error {
	if r.TenantID == "" {
		return dErrors.New(dErrors.CodeValidation, "tenant_id is required")
	}
	if r.FiscalYear <= 0 {
		return dErrors.New(dErrors.CodeValidation, "fiscal_year is required")
	}
	if r.MinSeverity != "" && !compliance.Severity(r.MinSeverity).Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown min_severity %q", r.MinSeverity)
	}
	return nil
}

// EvaluateResponse reports the violations found in one evaluation pass.
type EvaluateResponse struct {
	TenantID     string                 `json:"tenant_id"`
	Jurisdiction string                 `json:"jurisdiction"`
	FiscalYear   int                    `json:"fiscal_year"`
	RulesRun     int                    `json:"rules_run"`
	Violations   []compliance.Violation `json:"violations"`
}

// HandleEvaluate handles POST /compliance/evaluate requests.
func (h *Handler) HandleEvaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[EvaluateRequest](w, r, h.logger, ctx, requestID)
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

	engine, ok := h.engines[tenant.JurisdictionCode]
	if !ok {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeNotFound,
			"no compliance rules for jurisdiction %q", tenant.JurisdictionCode))
		return
	}

	evalDate := requestcontext.Now(ctx)
	if req.EvaluationDate != nil {
		evalDate = *req.EvaluationDate
	}
	evalCtx := compliance.EvalContext{
		Funds:          req.Funds,
		BudgetLines:    req.BudgetLines,
		Transactions:   req.Transactions,
		FiscalYear:     req.FiscalYear,
		EvaluationDate: evalDate,
		AdditionalData: req.AdditionalData,
	}

	var violations []compliance.Violation
	if req.MinSeverity != "" {
		violations = engine.EvaluateBySeverity(evalCtx, compliance.Severity(req.MinSeverity))
	} else {
		violations = engine.Evaluate(evalCtx)
	}
	if violations == nil {
		violations = []compliance.Violation{}
	}

	h.observe(tenant.JurisdictionCode, start, violations)
	h.emitAudit(ctx, tenant, len(violations), requestID)

	h.logger.InfoContext(ctx, "compliance evaluated",
		"request_id", requestID,
		"tenant_id", tenantID,
		"jurisdiction", tenant.JurisdictionCode,
		"fiscal_year", req.FiscalYear,
		"violations", len(violations),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	httputil.WriteJSON(w, http.StatusOK, EvaluateResponse{
		TenantID:     tenantID.String(),
		Jurisdiction: tenant.JurisdictionCode,
		FiscalYear:   req.FiscalYear,
		RulesRun:     len(engine.Rules()),
		Violations:   violations,
	})
}

// HandleListRules handles GET /compliance/rules/{jurisdiction} requests. It
// returns rule metadata and linked legal opinions without evaluating anything.
func (h *Handler) HandleListRules(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "jurisdiction"))
	engine, ok := h.engines[code]
	if !ok {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeNotFound,
			"no compliance rules for jurisdiction %q", code))
		return
	}

	type ruleInfo struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Severity    string `json:"severity"`
		Citation    string `json:"citation"`
		OpinionID   string `json:"opinion_id,omitempty"`
	}
	rules := engine.Rules()
	infos := make([]ruleInfo, 0, len(rules))
	for _, rule := range rules {
		infos = append(infos, ruleInfo{
			ID:          rule.ID,
			Name:        rule.Name,
			Description: rule.Description,
			Category:    rule.Category,
			Severity:    string(rule.Severity),
			Citation:    rule.Citation,
			OpinionID:   rule.OpinionID,
		})
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"jurisdiction": code,
		"rules":        infos,
		"opinions":     engine.Opinions(),
	})
}

func (h *Handler) observe(jurisdiction string, start time.Time, violations []compliance.Violation) {
	if h.metrics == nil {
		return
	}
	severities := make([]string, 0, len(violations))
	for _, v := range violations {
		severities = append(severities, string(v.Severity))
	}
	h.metrics.ObserveEvaluation(jurisdiction, start, severities)
}

func (h *Handler) emitAudit(ctx context.Context, tenant *models.Tenant, violationCount int, requestID string) {
	if h.auditor == nil {
		return
	}
	decision := "clean"
	if violationCount > 0 {
		decision = "violations_found"
	}
	_ = h.auditor.Emit(ctx, audit.Event{
		TenantID:  tenant.ID,
		Subject:   tenant.Name,
		Action:    string(audit.EventComplianceEvaluated),
		Decision:  decision,
		RequestID: requestID,
		ActorID:   requestcontext.Actor(ctx),
	})
}
