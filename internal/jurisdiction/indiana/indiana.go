// Package indiana supplies the Indiana jurisdiction: metadata, the finance
// domain pack, legacy records packs, and the statutory compliance rules with
// their legal opinions.
//
// Nothing here self-registers. The explicit bootstrap list in
// internal/jurisdiction/bootstrap wires these into the registry in a
// declared order.
package indiana

import (
	"time"

	"govern/internal/domain"
	"govern/internal/jurisdiction"
)

// Code is Indiana's jurisdiction code.
const Code = "IN"

// Metadata returns Indiana's static jurisdiction description.
func Metadata() jurisdiction.Metadata {
	return jurisdiction.Metadata{
		Code:                 Code,
		Name:                 "Indiana",
		Timezone:             "America/Indiana/Indianapolis",
		FiscalYearStartMonth: time.January,
		FiscalYearStartDay:   1,
		Agencies: []jurisdiction.OversightAgency{
			{Code: "SBOA", Name: "State Board of Accounts", Contact: "sboa@in.gov"},
			{Code: "DLGF", Name: "Department of Local Government Finance", Contact: "dlgf@in.gov"},
		},
		Kinds: []jurisdiction.GovernmentKind{
			{Kind: domain.EntityTown, FormID: "IN-TOWN", DisplayName: "Town"},
			{Kind: domain.EntityCity, FormID: "IN-CITY", DisplayName: "City"},
			{Kind: domain.EntityTownship, FormID: "IN-TWP", DisplayName: "Township"},
			{Kind: domain.EntityCounty, FormID: "IN-CNTY", DisplayName: "County"},
		},
	}
}
