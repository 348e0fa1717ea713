package domain

import (
	id "govern/pkg/domain"
)

// ModuleEntry records whether a tenant has a domain module enabled and which
// settings it overrides. Override values shadow pack defaults key-by-key;
// the merge is shallow, so a nested value replaces the default wholesale.
type ModuleEntry struct {
	Domain    string         `json:"domain"`
	Enabled   bool           `json:"enabled"`
	Overrides map[string]any `json:"overrides,omitempty"`
}

// TenantConfig is the stored per-tenant configuration: which modules are on
// and what the tenant overrides. Owned by tenant administration; the
// resolver treats it as read-only input.
type TenantConfig struct {
	TenantID         id.TenantID   `json:"tenant_id"`
	JurisdictionCode string        `json:"jurisdiction_code"`
	Modules          []ModuleEntry `json:"modules"`
}

// Module returns the entry for the given domain, if present. A missing entry
// gates resolution exactly like an explicitly disabled one.
func (c TenantConfig) Module(domain string) (ModuleEntry, bool) {
	for _, m := range c.Modules {
		if m.Domain == domain {
			return m, true
		}
	}
	return ModuleEntry{}, false
}

// ModuleEnabled reports whether the tenant has the domain switched on.
func (c TenantConfig) ModuleEnabled(domain string) bool {
	m, ok := c.Module(domain)
	return ok && m.Enabled
}
