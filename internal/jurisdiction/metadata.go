// Package jurisdiction catalogs the states the platform supports and the
// configuration packs registered for each (state, domain) pair.
//
// Packs come in two shapes that must coexist: the legacy predicate-matched
// list and the singleton pack with a derive function. The registry stores
// both without letting one corrupt the other: a (state, domain) pair holds at
// most one singleton (last registration wins) but any number of legacy packs
// (registration order preserved).
package jurisdiction

import (
	"time"

	"govern/internal/domain"
)

// OversightAgency identifies a state body that audits or regulates local
// government (e.g. a state board of accounts).
type OversightAgency struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Contact string `json:"contact,omitempty"`
}

// GovernmentKind describes one kind of local government a jurisdiction
// recognizes, with the statutory form identifier its filings use.
type GovernmentKind struct {
	Kind        domain.EntityClass `json:"kind"`
	FormID      string             `json:"form_id"`
	DisplayName string             `json:"display_name"`
}

// Metadata is the static description of a jurisdiction. Created once at
// bootstrap and immutable thereafter; the registry hands out copies by value.
type Metadata struct {
	Code                 string            `json:"code"`
	Name                 string            `json:"name"`
	Timezone             string            `json:"timezone"`
	FiscalYearStartMonth time.Month        `json:"fiscal_year_start_month"`
	FiscalYearStartDay   int               `json:"fiscal_year_start_day"`
	Agencies             []OversightAgency `json:"agencies,omitempty"`
	Kinds                []GovernmentKind  `json:"kinds,omitempty"`
}

// Profile is the subset of a tenant's identity that legacy pack predicates
// match against.
type Profile struct {
	State       string
	EntityClass domain.EntityClass
	Population  int
	County      string
}

// ProfileOf projects a tenant identity into a matchable profile.
func ProfileOf(ident domain.Identity) Profile {
	return Profile{
		State:       ident.JurisdictionCode,
		EntityClass: ident.EntityClass,
		Population:  ident.PopulationOrZero(),
		County:      ident.CountyOrEmpty(),
	}
}
