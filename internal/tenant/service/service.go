// Package service orchestrates tenant lifecycle management.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"govern/internal/domain"
	tenantmetrics "govern/internal/tenant/metrics"
	"govern/internal/tenant/models"
	id "govern/pkg/domain"
	dErrors "govern/pkg/domain-errors"
	"govern/pkg/platform/audit"
	"govern/pkg/platform/sentinel"
	"govern/pkg/requestcontext"
)

type TenantStore interface {
	CreateIfNameAvailable(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	FindByName(ctx context.Context, name string) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	List(ctx context.Context) ([]*models.Tenant, error)
}

// DomainChecker reports whether a config domain is known for a jurisdiction.
// Backed by the jurisdiction registry; nil disables the check.
type DomainChecker interface {
	IsDomainSupported(state, domain string) bool
	IsSupported(state string) bool
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates tenant management.
type Service struct {
	tenants        TenantStore
	domains        DomainChecker
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *tenantmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *tenantmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithDomainChecker enables jurisdiction/domain validation on writes.
func WithDomainChecker(checker DomainChecker) Option {
	return func(s *Service) {
		s.domains = checker
	}
}

// New constructs a Service.
func New(tenants TenantStore, opts ...Option) *Service {
	s := &Service{tenants: tenants}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateTenantParams carries validated-at-the-edge input for CreateTenant.
type CreateTenantParams struct {
	Name             string
	JurisdictionCode string
	EntityClass      domain.EntityClass
	Population       *int
	County           *string
}

func (s *Service) CreateTenant(ctx context.Context, params CreateTenantParams) (*models.Tenant, error) {
	params.JurisdictionCode = strings.ToUpper(strings.TrimSpace(params.JurisdictionCode))

	if s.domains != nil && !s.domains.IsSupported(params.JurisdictionCode) {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unsupported jurisdiction %q", params.JurisdictionCode)
	}

	t, err := models.NewTenant(
		id.TenantID(uuid.New()),
		params.Name,
		params.JurisdictionCode,
		params.EntityClass,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}
	t.Population = params.Population
	t.County = params.County

	if err := s.tenants.CreateIfNameAvailable(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "tenant name must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create tenant")
	}

	s.logAudit(ctx, audit.Event{
		TenantID: t.ID,
		Subject:  t.Name,
		Action:   string(audit.EventTenantCreated),
	})
	s.incrementTenantCreated()

	return t, nil
}

func (s *Service) GetTenant(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	start := time.Now()
	defer s.observeGetTenant(start)

	if tenantID.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant id is required")
	}
	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	return tenant, nil
}

// GetTenantByName retrieves a tenant by name (case-insensitive).
func (s *Service) GetTenantByName(ctx context.Context, name string) (*models.Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant name is required")
	}
	tenant, err := s.tenants.FindByName(ctx, name)
	if err != nil {
		return nil, wrapTenantErr(err)
	}
	return tenant, nil
}

// ListTenants returns all tenants sorted by name.
func (s *Service) ListTenants(ctx context.Context) ([]*models.Tenant, error) {
	tenants, err := s.tenants.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tenants")
	}
	return tenants, nil
}

// SetModule upserts a module enablement entry on the tenant. The domain must
// be known to the tenant's jurisdiction when a checker is configured.
func (s *Service) SetModule(ctx context.Context, tenantID id.TenantID, entry domain.ModuleEntry) (*models.Tenant, error) {
	if tenantID.IsZero() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant id is required")
	}
	entry.Domain = strings.ToLower(strings.TrimSpace(entry.Domain))
	if entry.Domain == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "module domain is required")
	}

	tenant, err := s.tenants.FindByID(ctx, tenantID)
	if err != nil {
		return nil, wrapTenantErr(err)
	}

	if s.domains != nil && !s.domains.IsDomainSupported(tenant.JurisdictionCode, entry.Domain) {
		return nil, dErrors.Newf(dErrors.CodeValidation,
			"domain %q is not available in jurisdiction %q", entry.Domain, tenant.JurisdictionCode)
	}

	tenant.SetModule(entry, requestcontext.Now(ctx))
	if err := s.tenants.Update(ctx, tenant); err != nil {
		return nil, wrapTenantErr(err)
	}

	decision := "disabled"
	if entry.Enabled {
		decision = "enabled"
	}
	s.logAudit(ctx, audit.Event{
		TenantID: tenant.ID,
		Subject:  tenant.Name,
		Action:   string(audit.EventTenantModuleUpdated),
		Domain:   entry.Domain,
		Decision: decision,
	})
	s.incrementModuleUpdated(entry.Domain)

	return tenant, nil
}

func wrapTenantErr(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "tenant not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "tenant name must be unique")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "tenant store failure")
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.Event) {
	event.RequestID = requestcontext.RequestID(ctx)
	event.ActorID = requestcontext.Actor(ctx)
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.Action,
			slog.String("tenant_id", event.TenantID.String()),
			slog.String("request_id", event.RequestID),
			slog.String("log_type", "audit"))
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, event)
}

func (s *Service) incrementTenantCreated() {
	if s.metrics != nil {
		s.metrics.IncrementTenantCreated()
	}
}

func (s *Service) incrementModuleUpdated(domain string) {
	if s.metrics != nil {
		s.metrics.IncrementModuleUpdated(domain)
	}
}

func (s *Service) observeGetTenant(start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveGetTenant(start)
	}
}
