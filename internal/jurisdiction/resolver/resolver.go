// Package resolver produces one merged configuration object for a tenant and
// domain, or clearly reports unavailability.
//
// Unavailability is never an error: no pack, a disabled module, and a module
// entry the tenant omitted all resolve to an explicit absent value. Callers
// that need to tell "jurisdiction unknown" apart from "domain not offered"
// use Registry.IsSupported separately.
package resolver

import (
	"log/slog"
	"time"

	"govern/internal/domain"
	"govern/internal/jurisdiction"
	"govern/internal/jurisdiction/resolver/metrics"
)

// Resolver merges pack-derived defaults with tenant overrides.
type Resolver struct {
	reg     *jurisdiction.Registry
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures optional resolver dependencies.
type Option func(*Resolver)

// WithMetrics attaches prometheus metrics to the resolver.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// New constructs a resolver over a registry.
func New(reg *jurisdiction.Registry, logger *slog.Logger, opts ...Option) *Resolver {
	r := &Resolver{reg: reg, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolution reports the outcome of a resolution with enough detail for an
// administrator to act on: a disabled module is the tenant's to fix, a
// missing pack is not. Diagnostics only; behavior keys off Available alone.
type Resolution struct {
	Config        map[string]any `json:"config,omitempty"`
	Available     bool           `json:"available"`
	PackFound     bool           `json:"pack_found"`
	ModuleEnabled bool           `json:"module_enabled"`
	Jurisdiction  string         `json:"jurisdiction"`
	Domain        string         `json:"domain"`
}

// ResolveConfig returns the merged configuration for (tenant, domain), or
// false when the domain is unavailable. Resolution consults only the
// singleton domain-pack store; legacy packs are served by ResolveConfigAny.
func (r *Resolver) ResolveConfig(cfg domain.TenantConfig, ident domain.Identity, dom string) (map[string]any, bool) {
	res := r.ResolveConfigWithMetadata(cfg, ident, dom)
	if !res.Available {
		return nil, false
	}
	return res.Config, true
}

// ResolveConfigWithMetadata resolves like ResolveConfig and also reports why
// resolution failed, for diagnostics and admin UI.
func (r *Resolver) ResolveConfigWithMetadata(cfg domain.TenantConfig, ident domain.Identity, dom string) Resolution {
	start := time.Now()
	defer r.observe(start)

	res := Resolution{Jurisdiction: ident.JurisdictionCode, Domain: dom}

	pack, ok := r.reg.DomainPack(ident.JurisdictionCode, dom)
	if !ok {
		r.count(metrics.OutcomeNoPack)
		return res
	}
	res.PackFound = true

	entry, ok := cfg.Module(dom)
	if !ok || !entry.Enabled {
		// A missing module entry gates exactly like a disabled one.
		r.count(metrics.OutcomeModuleDisabled)
		return res
	}
	res.ModuleEnabled = true

	defaults := pack.DeriveDefaults(ident)
	res.Config = mergeShallow(defaults, entry.Overrides)
	res.Available = true
	r.count(metrics.OutcomeResolved)
	return res
}

// ResolveConfigAny is the unified resolution path: it consults the singleton
// store first and falls back to the first matching legacy pack. Gating on
// the tenant's module entry is identical to ResolveConfig.
func (r *Resolver) ResolveConfigAny(cfg domain.TenantConfig, ident domain.Identity, dom string) (map[string]any, bool) {
	src, ok := r.reg.ResolveSource(ident.JurisdictionCode, dom, jurisdiction.ProfileOf(ident))
	if !ok {
		r.count(metrics.OutcomeNoPack)
		return nil, false
	}

	entry, ok := cfg.Module(dom)
	if !ok || !entry.Enabled {
		r.count(metrics.OutcomeModuleDisabled)
		return nil, false
	}

	merged := mergeShallow(src.Defaults(ident), entry.Overrides)
	r.count(metrics.OutcomeResolved)
	return merged, true
}

// IsDomainAvailable reports whether ResolveConfig would succeed. Kept
// gating-equivalent to ResolveConfig by construction.
func (r *Resolver) IsDomainAvailable(cfg domain.TenantConfig, ident domain.Identity, dom string) bool {
	if _, ok := r.reg.DomainPack(ident.JurisdictionCode, dom); !ok {
		return false
	}
	return cfg.ModuleEnabled(dom)
}

// AvailableDomains lists the domains ResolveConfig would resolve for this
// tenant, sorted.
func (r *Resolver) AvailableDomains(cfg domain.TenantConfig, ident domain.Identity) []string {
	out := []string{}
	for _, dom := range r.reg.DomainsFor(ident.JurisdictionCode) {
		if r.IsDomainAvailable(cfg, ident, dom) {
			out = append(out, dom)
		}
	}
	return out
}

// mergeShallow overlays overrides onto defaults. Strictly shallow: an
// override for a nested-object key replaces the whole sub-object. Inputs are
// never mutated.
func mergeShallow(defaults, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(defaults)+len(overrides))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

func (r *Resolver) count(outcome string) {
	if r.metrics != nil {
		r.metrics.IncrementResolution(outcome)
	}
}

func (r *Resolver) observe(start time.Time) {
	if r.metrics != nil {
		r.metrics.ObserveResolve(start)
	}
}
