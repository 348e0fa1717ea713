package handler

import (
	"strings"

	"govern/internal/domain"
	"govern/internal/tenant/service"
	dErrors "govern/pkg/domain-errors"
)

// CreateTenantRequest is the wire shape for POST /admin/tenants.
type CreateTenantRequest struct {
	Name             string  `json:"name"`
	JurisdictionCode string  `json:"jurisdiction_code"`
	EntityClass      string  `json:"entity_class"`
	Population       *int    `json:"population,omitempty"`
	County           *string `json:"county,omitempty"`
}

func (r *CreateTenantRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.JurisdictionCode = strings.ToUpper(strings.TrimSpace(r.JurisdictionCode))
	r.EntityClass = strings.ToUpper(strings.TrimSpace(r.EntityClass))
}

func (r *CreateTenantRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.JurisdictionCode == "" {
		return dErrors.New(dErrors.CodeValidation, "jurisdiction_code is required")
	}
	if !domain.EntityClass(r.EntityClass).Valid() {
		return dErrors.Newf(dErrors.CodeValidation, "unknown entity_class %q", r.EntityClass)
	}
	if r.Population != nil && *r.Population < 0 {
		return dErrors.New(dErrors.CodeValidation, "population must be non-negative")
	}
	return nil
}

// ToParams converts the wire request into service input.
func (r *CreateTenantRequest) ToParams() service.CreateTenantParams {
	return service.CreateTenantParams{
		Name:             r.Name,
		JurisdictionCode: r.JurisdictionCode,
		EntityClass:      domain.EntityClass(r.EntityClass),
		Population:       r.Population,
		County:           r.County,
	}
}

// SetModuleRequest is the wire shape for PUT /admin/tenants/{id}/modules/{domain}.
type SetModuleRequest struct {
	Enabled   bool           `json:"enabled"`
	Overrides map[string]any `json:"overrides,omitempty"`
}
