package tenant

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	PUT(path string, body any) error
	POSTWithoutAuth(path string, body any) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	SetTenantID(id string)
	GetTenantID() string
}

// RegisterSteps registers tenant administration step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &tenantSteps{tc: tc}

	ctx.Step(`^I create a tenant named "([^"]*)" in jurisdiction "([^"]*)" with entity class "([^"]*)" and population (\d+)$`, steps.createTenant)
	ctx.Step(`^I create a tenant named "([^"]*)" without the admin token$`, steps.createTenantWithoutAuth)
	ctx.Step(`^I save the tenant id$`, steps.saveTenantID)
	ctx.Step(`^I fetch the tenant$`, steps.fetchTenant)
	ctx.Step(`^I enable the "([^"]*)" module$`, steps.enableModule)
	ctx.Step(`^I enable the "([^"]*)" module with override "([^"]*)" set to "([^"]*)"$`, steps.enableModuleWithOverride)
	ctx.Step(`^I disable the "([^"]*)" module$`, steps.disableModule)
}

type tenantSteps struct {
	tc TestContext
}

// uniqueName salts the scenario's tenant name so suites can re-run against
// a server that enforces unique names.
func uniqueName(name string) string {
	return fmt.Sprintf("%s %d", name, time.Now().UnixNano()%1_000_000_000)
}

func (s *tenantSteps) createTenant(ctx context.Context, name, jurisdiction, class string, population int) error {
	body := map[string]any{
		"name":              uniqueName(name),
		"jurisdiction_code": jurisdiction,
		"entity_class":      class,
		"population":        population,
	}
	return s.tc.POST("/admin/tenants", body)
}

func (s *tenantSteps) createTenantWithoutAuth(ctx context.Context, name string) error {
	body := map[string]any{
		"name":              name,
		"jurisdiction_code": "IN",
		"entity_class":      "TOWN",
	}
	return s.tc.POSTWithoutAuth("/admin/tenants", body)
}

func (s *tenantSteps) saveTenantID(ctx context.Context) error {
	id, err := s.tc.GetResponseField("id")
	if err != nil {
		return err
	}
	str, ok := id.(string)
	if !ok || str == "" {
		return fmt.Errorf("response id is not a string: %v", id)
	}
	s.tc.SetTenantID(str)
	return nil
}

func (s *tenantSteps) fetchTenant(ctx context.Context) error {
	return s.tc.GET("/admin/tenants/"+s.tc.GetTenantID(), nil)
}

func (s *tenantSteps) enableModule(ctx context.Context, domain string) error {
	return s.tc.PUT("/admin/tenants/"+s.tc.GetTenantID()+"/modules/"+domain, map[string]any{
		"enabled": true,
	})
}

func (s *tenantSteps) enableModuleWithOverride(ctx context.Context, domain, key, value string) error {
	return s.tc.PUT("/admin/tenants/"+s.tc.GetTenantID()+"/modules/"+domain, map[string]any{
		"enabled":   true,
		"overrides": map[string]any{key: value},
	})
}

func (s *tenantSteps) disableModule(ctx context.Context, domain string) error {
	return s.tc.PUT("/admin/tenants/"+s.tc.GetTenantID()+"/modules/"+domain, map[string]any{
		"enabled": false,
	})
}
