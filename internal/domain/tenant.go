package domain

import (
	id "govern/pkg/domain"
)

// EntityClass classifies a local-government tenant under state statute.
// Several statutory thresholds (levy authority, filing duties) key off it.
type EntityClass string

const (
	EntityTown            EntityClass = "TOWN"
	EntityCity            EntityClass = "CITY"
	EntityTownship        EntityClass = "TOWNSHIP"
	EntityCounty          EntityClass = "COUNTY"
	EntitySpecialDistrict EntityClass = "SPECIAL_DISTRICT"
)

// Valid reports whether the entity class is one of the known kinds.
func (c EntityClass) Valid() bool {
	switch c {
	case EntityTown, EntityCity, EntityTownship, EntityCounty, EntitySpecialDistrict:
		return true
	}
	return false
}

// Identity carries the facts about a tenant that jurisdiction packs derive
// defaults from. It is supplied by the caller per resolution request and
// never stored by the core.
type Identity struct {
	ID               id.TenantID
	Name             string
	JurisdictionCode string
	EntityClass      EntityClass
	// Population is optional; packs must degrade to baseline behavior when
	// it is absent (treated as zero for threshold rules).
	Population *int
	County     *string
}

// PopulationOrZero returns the population, treating absence as zero so
// threshold rules stay total.
func (i Identity) PopulationOrZero() int {
	if i.Population == nil {
		return 0
	}
	return *i.Population
}

// CountyOrEmpty returns the county name, or "" when not recorded.
func (i Identity) CountyOrEmpty() string {
	if i.County == nil {
		return ""
	}
	return *i.County
}
