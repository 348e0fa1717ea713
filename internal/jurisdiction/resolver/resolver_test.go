package resolver

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"govern/internal/domain"
	"govern/internal/jurisdiction"
)

type derivePack struct {
	state  string
	dom    string
	derive func(domain.Identity) map[string]any
}

func (p derivePack) State() string  { return p.state }
func (p derivePack) Domain() string { return p.dom }
func (p derivePack) DeriveDefaults(ident domain.Identity) map[string]any {
	return p.derive(ident)
}

func staticDefaults(defaults map[string]any) func(domain.Identity) map[string]any {
	return func(domain.Identity) map[string]any {
		out := make(map[string]any, len(defaults))
		for k, v := range defaults {
			out[k] = v
		}
		return out
	}
}

func newTestResolver(t *testing.T) (*Resolver, *jurisdiction.Registry) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := jurisdiction.NewRegistry(logger)
	return New(reg, logger), reg
}

func enabledConfig(dom string, overrides map[string]any) domain.TenantConfig {
	return domain.TenantConfig{
		JurisdictionCode: "IN",
		Modules: []domain.ModuleEntry{
			{Domain: dom, Enabled: true, Overrides: overrides},
		},
	}
}

func TestResolveConfig(t *testing.T) {
	ident := domain.Identity{JurisdictionCode: "IN", EntityClass: domain.EntityTown}

	t.Run("merges defaults with overrides", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterDomainPack(derivePack{state: "IN", dom: "finance", derive: staticDefaults(map[string]any{
			"canLevyOwnLIT": false,
			"fireModel":     "DEPARTMENT",
		})})

		cfg := enabledConfig("finance", map[string]any{
			"fireModel":       "CONTRACT",
			"hasUtilityFunds": true,
		})

		merged, ok := r.ResolveConfig(cfg, ident, "finance")
		require.True(t, ok)
		assert.Equal(t, map[string]any{
			"canLevyOwnLIT":   false,
			"fireModel":       "CONTRACT",
			"hasUtilityFunds": true,
		}, merged)
	})

	t.Run("override precedence holds for every shared key", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterDomainPack(derivePack{state: "IN", dom: "finance", derive: staticDefaults(map[string]any{
			"a": 1, "b": 2,
		})})

		merged, ok := r.ResolveConfig(enabledConfig("finance", map[string]any{"a": 99}), ident, "finance")
		require.True(t, ok)
		assert.Equal(t, 99, merged["a"])
		assert.Equal(t, 2, merged["b"])
	})

	t.Run("merge is shallow: nested overrides replace wholesale", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterDomainPack(derivePack{state: "IN", dom: "finance", derive: staticDefaults(map[string]any{
			"reporting": map[string]any{"format": "GATEWAY", "monthly": true},
		})})

		merged, ok := r.ResolveConfig(enabledConfig("finance", map[string]any{
			"reporting": map[string]any{"format": "CSV"},
		}), ident, "finance")
		require.True(t, ok)
		assert.Equal(t, map[string]any{"format": "CSV"}, merged["reporting"])
	})

	t.Run("resolution is idempotent", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterDomainPack(derivePack{state: "IN", dom: "finance", derive: staticDefaults(map[string]any{"x": 1})})
		cfg := enabledConfig("finance", map[string]any{"y": 2})

		first, ok1 := r.ResolveConfig(cfg, ident, "finance")
		second, ok2 := r.ResolveConfig(cfg, ident, "finance")
		require.True(t, ok1)
		require.True(t, ok2)
		assert.Equal(t, first, second)
	})

	t.Run("no pack yields unavailable", func(t *testing.T) {
		r, _ := newTestResolver(t)
		_, ok := r.ResolveConfig(enabledConfig("finance", nil), ident, "finance")
		assert.False(t, ok)
	})

	t.Run("disabled module yields unavailable even with a pack", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterDomainPack(derivePack{state: "IN", dom: "finance", derive: staticDefaults(map[string]any{"x": 1})})

		cfg := domain.TenantConfig{
			JurisdictionCode: "IN",
			Modules:          []domain.ModuleEntry{{Domain: "finance", Enabled: false}},
		}
		_, ok := r.ResolveConfig(cfg, ident, "finance")
		assert.False(t, ok)
	})

	t.Run("missing module entry behaves like disabled", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterDomainPack(derivePack{state: "IN", dom: "finance", derive: staticDefaults(map[string]any{"x": 1})})

		_, ok := r.ResolveConfig(domain.TenantConfig{JurisdictionCode: "IN"}, ident, "finance")
		assert.False(t, ok)
	})

	t.Run("unknown jurisdiction matches the no-pack case", func(t *testing.T) {
		r, _ := newTestResolver(t)
		stranger := domain.Identity{JurisdictionCode: "ZZ"}
		_, ok := r.ResolveConfig(enabledConfig("finance", nil), stranger, "finance")
		assert.False(t, ok)
	})
}

func TestResolveConfigWithMetadata(t *testing.T) {
	ident := domain.Identity{JurisdictionCode: "IN"}

	t.Run("distinguishes disabled module from missing pack", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterDomainPack(derivePack{state: "IN", dom: "finance", derive: staticDefaults(nil)})

		noPack := r.ResolveConfigWithMetadata(domain.TenantConfig{}, ident, "permits")
		assert.False(t, noPack.Available)
		assert.False(t, noPack.PackFound)

		disabled := r.ResolveConfigWithMetadata(domain.TenantConfig{
			Modules: []domain.ModuleEntry{{Domain: "finance", Enabled: false}},
		}, ident, "finance")
		assert.False(t, disabled.Available)
		assert.True(t, disabled.PackFound)
		assert.False(t, disabled.ModuleEnabled)
	})

	t.Run("reports resolved jurisdiction and domain", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterDomainPack(derivePack{state: "IN", dom: "finance", derive: staticDefaults(map[string]any{"x": 1})})

		res := r.ResolveConfigWithMetadata(enabledConfig("finance", nil), ident, "finance")
		assert.True(t, res.Available)
		assert.Equal(t, "IN", res.Jurisdiction)
		assert.Equal(t, "finance", res.Domain)
	})
}

// TestGatingEquivalence verifies IsDomainAvailable agrees with ResolveConfig
// across the gating matrix.
func TestGatingEquivalence(t *testing.T) {
	r, reg := newTestResolver(t)
	reg.RegisterDomainPack(derivePack{state: "IN", dom: "finance", derive: staticDefaults(map[string]any{"x": 1})})

	ident := domain.Identity{JurisdictionCode: "IN"}
	cases := []struct {
		name string
		cfg  domain.TenantConfig
		dom  string
	}{
		{"pack and enabled", enabledConfig("finance", nil), "finance"},
		{"pack but disabled", domain.TenantConfig{Modules: []domain.ModuleEntry{{Domain: "finance"}}}, "finance"},
		{"pack but entry missing", domain.TenantConfig{}, "finance"},
		{"no pack", enabledConfig("permits", nil), "permits"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, resolved := r.ResolveConfig(tc.cfg, ident, tc.dom)
			assert.Equal(t, resolved, r.IsDomainAvailable(tc.cfg, ident, tc.dom))
		})
	}
}

func TestAvailableDomains(t *testing.T) {
	r, reg := newTestResolver(t)
	reg.RegisterDomainPack(derivePack{state: "IN", dom: "finance", derive: staticDefaults(nil)})
	reg.RegisterDomainPack(derivePack{state: "IN", dom: "utilities", derive: staticDefaults(nil)})

	ident := domain.Identity{JurisdictionCode: "IN"}
	cfg := domain.TenantConfig{Modules: []domain.ModuleEntry{
		{Domain: "finance", Enabled: true},
		{Domain: "utilities", Enabled: false},
	}}

	assert.Equal(t, []string{"finance"}, r.AvailableDomains(cfg, ident))
}

func TestResolveConfigAny(t *testing.T) {
	ident := domain.Identity{JurisdictionCode: "IN", EntityClass: domain.EntityTownship}

	t.Run("falls back to legacy packs", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterLegacyPack(jurisdiction.LegacyPack{
			PackState:  "IN",
			PackDomain: "records",
			Config:     map[string]any{"retentionYears": 10},
			AppliesTo: func(p jurisdiction.Profile) bool {
				return p.EntityClass == domain.EntityTownship
			},
		})

		merged, ok := r.ResolveConfigAny(enabledConfig("records", map[string]any{"retentionYears": 7}), ident, "records")
		require.True(t, ok)
		assert.Equal(t, 7, merged["retentionYears"])
	})

	t.Run("singleton wins over legacy", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterLegacyPack(jurisdiction.LegacyPack{
			PackState:  "IN",
			PackDomain: "records",
			Config:     map[string]any{"source": "legacy"},
			AppliesTo:  func(jurisdiction.Profile) bool { return true },
		})
		reg.RegisterDomainPack(derivePack{state: "IN", dom: "records", derive: staticDefaults(map[string]any{"source": "singleton"})})

		merged, ok := r.ResolveConfigAny(enabledConfig("records", nil), ident, "records")
		require.True(t, ok)
		assert.Equal(t, "singleton", merged["source"])
	})

	t.Run("module gating applies to the legacy path too", func(t *testing.T) {
		r, reg := newTestResolver(t)
		reg.RegisterLegacyPack(jurisdiction.LegacyPack{
			PackState:  "IN",
			PackDomain: "records",
			Config:     map[string]any{},
			AppliesTo:  func(jurisdiction.Profile) bool { return true },
		})

		_, ok := r.ResolveConfigAny(domain.TenantConfig{}, ident, "records")
		assert.False(t, ok)
	})
}
