package indiana

import (
	"govern/internal/domain"
	"govern/internal/jurisdiction"
	"govern/internal/jurisdiction/finance"
)

// litSelfLevyMinimum is the population at or above which a unit may adopt
// its own local income tax levy (IC 6-3.6); smaller units use the county's.
const litSelfLevyMinimum = 3501

// financePack derives Indiana finance defaults from tenant identity.
type financePack struct{}

// FinancePack returns the singleton Indiana finance domain pack.
func FinancePack() jurisdiction.DomainPack {
	return financePack{}
}

func (financePack) State() string  { return Code }
func (financePack) Domain() string { return finance.Domain }

// DeriveDefaults is pure and total: a missing population counts as zero, so
// small or unreported units get the conservative county-LIT defaults.
func (financePack) DeriveDefaults(ident domain.Identity) map[string]any {
	pop := ident.PopulationOrZero()
	canSelfLevy := pop >= litSelfLevyMinimum

	return map[string]any{
		finance.KeyCanLevyOwnLIT:          canSelfLevy,
		finance.KeyUsesCountyLIT:          !canSelfLevy,
		finance.KeyFireModel:              defaultFireModel(ident.EntityClass),
		finance.KeyHasUtilityFunds:        hasUtilityFunds(ident.EntityClass),
		finance.KeyBudgetApprovalRequired: true,
		finance.KeyMaxSupplementalPct:     10.0,
	}
}

// defaultFireModel reflects how each unit kind typically provides fire
// protection; townships contract with towns far more often than they run
// departments.
func defaultFireModel(class domain.EntityClass) string {
	switch class {
	case domain.EntityCity:
		return finance.FireModelDepartment
	case domain.EntityTownship:
		return finance.FireModelContract
	default:
		return finance.FireModelDepartment
	}
}

func hasUtilityFunds(class domain.EntityClass) bool {
	return class == domain.EntityTown || class == domain.EntityCity
}
