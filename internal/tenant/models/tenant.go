package models

import (
	"strings"
	"time"

	"govern/internal/domain"
	id "govern/pkg/domain"
	dErrors "govern/pkg/domain-errors"
)

// maxNameLength bounds tenant display names.
const maxNameLength = 128

// Tenant is the aggregate root for one local-government customer.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - JurisdictionCode is non-empty
//   - EntityClass is one of the known kinds
//   - CreatedAt is immutable after construction
//
// Module entries are the tenant's stored configuration input to the
// resolver; the resolver never writes back through this type.
type Tenant struct {
	ID               id.TenantID          `json:"id"`
	Name             string               `json:"name"`
	JurisdictionCode string               `json:"jurisdiction_code"`
	EntityClass      domain.EntityClass   `json:"entity_class"`
	Population       *int                 `json:"population,omitempty"`
	County           *string              `json:"county,omitempty"`
	Modules          []domain.ModuleEntry `json:"modules"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// NewTenant validates and constructs a tenant aggregate.
func NewTenant(tenantID id.TenantID, name, jurisdictionCode string, class domain.EntityClass, now time.Time) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant name is required")
	}
	if len(name) > maxNameLength {
		return nil, dErrors.Newf(dErrors.CodeValidation, "tenant name must be at most %d characters", maxNameLength)
	}
	if jurisdictionCode == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "jurisdiction code is required")
	}
	if !class.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "unknown entity class %q", class)
	}
	return &Tenant{
		ID:               tenantID,
		Name:             name,
		JurisdictionCode: jurisdictionCode,
		EntityClass:      class,
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Identity projects the tenant into the resolution input shape.
func (t *Tenant) Identity() domain.Identity {
	return domain.Identity{
		ID:               t.ID,
		Name:             t.Name,
		JurisdictionCode: t.JurisdictionCode,
		EntityClass:      t.EntityClass,
		Population:       t.Population,
		County:           t.County,
	}
}

// Config projects the tenant's stored module configuration.
func (t *Tenant) Config() domain.TenantConfig {
	return domain.TenantConfig{
		TenantID:         t.ID,
		JurisdictionCode: t.JurisdictionCode,
		Modules:          t.Modules,
	}
}

// SetModule upserts a module entry and bumps UpdatedAt. The entry is matched
// by domain; an existing entry is replaced wholesale.
func (t *Tenant) SetModule(entry domain.ModuleEntry, now time.Time) {
	for i, m := range t.Modules {
		if m.Domain == entry.Domain {
			t.Modules[i] = entry
			t.UpdatedAt = now
			return
		}
	}
	t.Modules = append(t.Modules, entry)
	t.UpdatedAt = now
}
