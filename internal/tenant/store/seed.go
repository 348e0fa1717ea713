package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"govern/internal/domain"
	"govern/internal/tenant/models"
	tenantstore "govern/internal/tenant/store/tenant"
	id "govern/pkg/domain"
)

// SeedDemoTenants creates a pair of Indiana tenants for local development.
func SeedDemoTenants(ts *tenantstore.InMemory) []*models.Tenant {
	now := time.Now()
	pop := 2350
	town := &models.Tenant{
		ID:               id.TenantID(uuid.New()),
		Name:             "Town of Brookston",
		JurisdictionCode: "IN",
		EntityClass:      domain.EntityTown,
		Population:       &pop,
		Modules: []domain.ModuleEntry{
			{Domain: "finance", Enabled: true},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_ = ts.CreateIfNameAvailable(context.Background(), town)

	township := &models.Tenant{
		ID:               id.TenantID(uuid.New()),
		Name:             "Prairie Township",
		JurisdictionCode: "IN",
		EntityClass:      domain.EntityTownship,
		Modules: []domain.ModuleEntry{
			{Domain: "finance", Enabled: true},
			{Domain: "records", Enabled: true},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	_ = ts.CreateIfNameAvailable(context.Background(), township)

	return []*models.Tenant{town, township}
}
