package jurisdiction

import (
	"govern/internal/domain"
)

// DomainPack is the singleton pack shape: one instance per (state, domain),
// supplying a pure derive function from tenant identity to partial defaults.
//
// DeriveDefaults must be total for any valid identity: missing optional
// fields degrade to baseline values, they never cause a failure.
type DomainPack interface {
	State() string
	Domain() string
	DeriveDefaults(ident domain.Identity) map[string]any
}

// LegacyPack is the older pack shape: a static config plus an applicability
// predicate. Multiple legacy packs may target the same (state, domain); the
// first whose predicate matches, in registration order, is selected.
type LegacyPack struct {
	PackState  string
	PackDomain string
	Config     map[string]any
	AppliesTo  func(Profile) bool
}

// SourceKind tags which pack shape a ConfigSource wraps.
type SourceKind int

const (
	SourceSingleton SourceKind = iota
	SourceLegacy
)

// ConfigSource is the unified view over both pack shapes. The resolver's
// unified path consults it instead of hardwiring one store.
type ConfigSource struct {
	Kind      SourceKind
	Singleton DomainPack
	Legacy    LegacyPack
}

// Defaults produces the source's partial default config for an identity.
// Singleton sources derive; legacy sources return a copy of their static
// config so callers can merge into it freely.
func (s ConfigSource) Defaults(ident domain.Identity) map[string]any {
	switch s.Kind {
	case SourceSingleton:
		return s.Singleton.DeriveDefaults(ident)
	case SourceLegacy:
		out := make(map[string]any, len(s.Legacy.Config))
		for k, v := range s.Legacy.Config {
			out[k] = v
		}
		return out
	}
	return map[string]any{}
}
