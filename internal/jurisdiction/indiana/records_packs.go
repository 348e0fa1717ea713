package indiana

import (
	"govern/internal/domain"
	"govern/internal/jurisdiction"
)

// RecordsDomain is the records-retention module identifier.
const RecordsDomain = "records"

// RecordsPacks returns Indiana's legacy records packs in the order they must
// be registered: the township-specific pack first, then the general pack.
// ApplicablePack's tie-break is registration order, so the order here is
// load-bearing.
func RecordsPacks() []jurisdiction.LegacyPack {
	return []jurisdiction.LegacyPack{
		{
			PackState:  Code,
			PackDomain: RecordsDomain,
			Config: map[string]any{
				"retentionScheduleID": "GEN-TWP",
				"retentionYears":      10,
				"microfilmRequired":   false,
			},
			AppliesTo: func(p jurisdiction.Profile) bool {
				return p.EntityClass == domain.EntityTownship
			},
		},
		{
			PackState:  Code,
			PackDomain: RecordsDomain,
			Config: map[string]any{
				"retentionScheduleID": "GEN-LOCAL",
				"retentionYears":      7,
				"microfilmRequired":   true,
			},
			// Catch-all: every unit not claimed by an earlier pack.
			AppliesTo: func(jurisdiction.Profile) bool {
				return true
			},
		},
	}
}
