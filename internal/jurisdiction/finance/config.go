// Package finance defines the typed finance-domain configuration that packs
// derive and tenants override.
//
// The config object is open: keys the schema does not know land in Extra so
// tenant overrides survive round trips even when a pack predates them.
package finance

// Domain is the module identifier finance packs register under.
const Domain = "finance"

// Well-known config keys. Packs and overrides address settings by these; the
// typed struct is built from the merged map.
const (
	KeyCanLevyOwnLIT          = "canLevyOwnLIT"
	KeyUsesCountyLIT          = "usesCountyLIT"
	KeyFireModel              = "fireModel"
	KeyHasUtilityFunds        = "hasUtilityFunds"
	KeyBudgetApprovalRequired = "budgetApprovalRequired"
	KeyMaxSupplementalPct     = "maxSupplementalAppropriationPct"
)

// FireModel enumerates how a unit provides fire protection.
const (
	FireModelDepartment = "DEPARTMENT"
	FireModelContract   = "CONTRACT"
	FireModelTerritory  = "TERRITORY"
)

// Config is the resolved finance configuration for one tenant.
type Config struct {
	// CanLevyOwnLIT reports whether the unit may adopt its own local income
	// tax levy; small units fall back to the county's.
	CanLevyOwnLIT bool   `json:"can_levy_own_lit"`
	UsesCountyLIT bool   `json:"uses_county_lit"`
	FireModel     string `json:"fire_model"`
	// HasUtilityFunds marks units that run proprietary utility funds and so
	// file the utility annexes.
	HasUtilityFunds        bool    `json:"has_utility_funds"`
	BudgetApprovalRequired bool    `json:"budget_approval_required"`
	MaxSupplementalPct     float64 `json:"max_supplemental_appropriation_pct"`

	// Extra holds override keys outside the typed schema. They pass through
	// resolution unchanged for forward compatibility.
	Extra map[string]any `json:"extra,omitempty"`
}

// FromMap builds a typed Config from a merged key-value config. Keys with
// unexpected types are treated as unknown and preserved in Extra rather than
// silently coerced.
func FromMap(m map[string]any) Config {
	cfg := Config{}
	for k, v := range m {
		switch k {
		case KeyCanLevyOwnLIT:
			if b, ok := v.(bool); ok {
				cfg.CanLevyOwnLIT = b
				continue
			}
		case KeyUsesCountyLIT:
			if b, ok := v.(bool); ok {
				cfg.UsesCountyLIT = b
				continue
			}
		case KeyFireModel:
			if s, ok := v.(string); ok {
				cfg.FireModel = s
				continue
			}
		case KeyHasUtilityFunds:
			if b, ok := v.(bool); ok {
				cfg.HasUtilityFunds = b
				continue
			}
		case KeyBudgetApprovalRequired:
			if b, ok := v.(bool); ok {
				cfg.BudgetApprovalRequired = b
				continue
			}
		case KeyMaxSupplementalPct:
			if f, ok := asFloat(v); ok {
				cfg.MaxSupplementalPct = f
				continue
			}
		}
		if cfg.Extra == nil {
			cfg.Extra = make(map[string]any)
		}
		cfg.Extra[k] = v
	}
	return cfg
}

// Map flattens the typed config back to its wire shape. Every schema key is
// emitted with its canonical Go type; Extra entries are written last, so a
// key that failed typing round-trips with its original value.
func (c Config) Map() map[string]any {
	m := map[string]any{
		KeyCanLevyOwnLIT:          c.CanLevyOwnLIT,
		KeyUsesCountyLIT:          c.UsesCountyLIT,
		KeyFireModel:              c.FireModel,
		KeyHasUtilityFunds:        c.HasUtilityFunds,
		KeyBudgetApprovalRequired: c.BudgetApprovalRequired,
		KeyMaxSupplementalPct:     c.MaxSupplementalPct,
	}
	for k, v := range c.Extra {
		m[k] = v
	}
	return m
}

// asFloat accepts the numeric types JSON decoding and pack literals produce.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
