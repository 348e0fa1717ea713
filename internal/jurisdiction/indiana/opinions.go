package indiana

import "govern/internal/compliance"

// Opinions returns the legal opinions the finance rules link to. Static
// reference data, created once at bootstrap.
func Opinions() []compliance.LegalOpinion {
	return []compliance.LegalOpinion{
		{
			ID:           "op-appropriation-limit",
			Code:         "SBOA Bulletin 2019-1",
			Title:        "Expenditures in Excess of Appropriations",
			Summary:      "Disbursements beyond the appropriated amount are unlawful even when cash is available; the remedy is an additional appropriation approved before spending.",
			Jurisdiction: Code,
			URL:          "https://www.in.gov/sboa/files/bulletin-2019-1.pdf",
		},
		{
			ID:           "op-levy-growth",
			Code:         "DLGF Memo 2021-07",
			Title:        "Maximum Levy Growth Quotient",
			Summary:      "The annual growth quotient caps most civil levies; a levy adopted above the cap is reduced by the department during certification.",
			Jurisdiction: Code,
		},
		{
			ID:           "op-restricted-transfer",
			Code:         "OAG 86-4",
			Title:        "Transfers from Dedicated Funds",
			Summary:      "Funds raised for a statutory purpose may not be diverted by transfer; reversion requires the procedure in the enabling statute.",
			Jurisdiction: Code,
		},
	}
}
