package jurisdiction

import (
	"log/slog"
	"sort"
	"sync"
)

// packKey addresses both pack stores.
type packKey struct {
	state  string
	domain string
}

// Registry holds jurisdiction metadata and both pack shapes.
//
// All lookups are total: absence is an explicit (zero, false) return, never
// an error. Registration never fails either; malformed packs are accepted
// as-is and validation, if wanted, belongs to bootstrap.
//
// Writes happen at bootstrap through the explicit registration list in
// internal/jurisdiction/bootstrap. Reads after that are safe for concurrent
// use; the RWMutex also covers any deployment that registers packs after
// startup.
type Registry struct {
	logger *slog.Logger

	mu            sync.RWMutex
	jurisdictions map[string]Metadata
	legacy        map[packKey][]LegacyPack
	singletons    map[packKey]DomainPack
}

// NewRegistry creates an empty registry. The logger is used only to surface
// singleton replacements; pass a no-op logger in tests.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:        logger,
		jurisdictions: make(map[string]Metadata),
		legacy:        make(map[packKey][]LegacyPack),
		singletons:    make(map[packKey]DomainPack),
	}
}

// RegisterJurisdiction upserts jurisdiction metadata keyed by code.
// Idempotent: re-registering the same code replaces the entry.
func (r *Registry) RegisterJurisdiction(meta Metadata) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jurisdictions[meta.Code] = meta
}

// RegisterLegacyPack appends a legacy pack for its (state, domain) key.
// Registration order is the tie-break order for ApplicablePack.
func (r *Registry) RegisterLegacyPack(p LegacyPack) {
	key := packKey{state: p.PackState, domain: p.PackDomain}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.legacy[key] = append(r.legacy[key], p)
}

// RegisterDomainPack upserts the singleton pack for its (state, domain) key.
// Last registration wins. Replacement is legal but usually a bootstrap
// mistake, so it is logged at WARN rather than silently swallowed.
func (r *Registry) RegisterDomainPack(p DomainPack) {
	key := packKey{state: p.State(), domain: p.Domain()}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.singletons[key]; exists {
		r.logger.Warn("replacing registered domain pack",
			"state", p.State(),
			"domain", p.Domain(),
		)
	}
	r.singletons[key] = p
}

// Jurisdiction returns the metadata registered for code.
func (r *Registry) Jurisdiction(code string) (Metadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	meta, ok := r.jurisdictions[code]
	return meta, ok
}

// IsSupported reports whether the jurisdiction is known at all.
func (r *Registry) IsSupported(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.jurisdictions[code]
	return ok
}

// Jurisdictions lists all registered jurisdictions sorted by code.
func (r *Registry) Jurisdictions() []Metadata {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Metadata, 0, len(r.jurisdictions))
	for _, meta := range r.jurisdictions {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// LegacyPacks returns the ordered legacy pack list for (state, domain).
// The returned slice is a copy; mutating it does not affect the registry.
func (r *Registry) LegacyPacks(state, domain string) []LegacyPack {
	r.mu.RLock()
	defer r.mu.RUnlock()
	packs := r.legacy[packKey{state: state, domain: domain}]
	out := make([]LegacyPack, len(packs))
	copy(out, packs)
	return out
}

// ApplicablePack returns the first legacy pack, in registration order, whose
// predicate accepts the profile. Tie-break is strictly registration order;
// there is no specificity scoring.
func (r *Registry) ApplicablePack(domain string, profile Profile) (LegacyPack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.legacy[packKey{state: profile.State, domain: domain}] {
		if p.AppliesTo != nil && p.AppliesTo(profile) {
			return p, true
		}
	}
	return LegacyPack{}, false
}

// DomainPack returns the singleton pack for (state, domain).
func (r *Registry) DomainPack(state, domain string) (DomainPack, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.singletons[packKey{state: state, domain: domain}]
	return p, ok
}

// IsDomainSupported reports whether either store has a pack for the pair.
func (r *Registry) IsDomainSupported(state, domain string) bool {
	key := packKey{state: state, domain: domain}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.singletons[key]; ok {
		return true
	}
	return len(r.legacy[key]) > 0
}

// DomainsFor returns the sorted union of domains present in either store for
// the state. Empty when the state has no packs at all.
func (r *Registry) DomainsFor(state string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for key := range r.singletons {
		if key.state == state {
			seen[key.domain] = struct{}{}
		}
	}
	for key, packs := range r.legacy {
		if key.state == state && len(packs) > 0 {
			seen[key.domain] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// ResolveSource returns the unified config source for (state, domain): the
// singleton when one exists, otherwise a holder for the legacy list. The
// legacy holder defers predicate matching to resolution time, when the
// tenant profile is known.
func (r *Registry) ResolveSource(state, domain string, profile Profile) (ConfigSource, bool) {
	if p, ok := r.DomainPack(state, domain); ok {
		return ConfigSource{Kind: SourceSingleton, Singleton: p}, true
	}
	if p, ok := r.ApplicablePack(domain, profile); ok {
		return ConfigSource{Kind: SourceLegacy, Legacy: p}, true
	}
	return ConfigSource{}, false
}
