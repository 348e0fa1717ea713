package resolve

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string, headers map[string]string) error
	GetResponseField(field string) (any, error)
	ResponseBody() []byte
	GetTenantID() string
}

// RegisterSteps registers configuration resolution step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &resolveSteps{tc: tc}

	ctx.Step(`^I resolve the "([^"]*)" configuration$`, steps.resolveConfig)
	ctx.Step(`^I resolve the "([^"]*)" configuration including legacy packs$`, steps.resolveConfigIncludingLegacy)
	ctx.Step(`^the resolved config should be available$`, steps.configShouldBeAvailable)
	ctx.Step(`^the resolved config should not be available$`, steps.configShouldNotBeAvailable)
	ctx.Step(`^the config key "([^"]*)" should equal "([^"]*)"$`, steps.configKeyShouldEqual)
	ctx.Step(`^I list the domains for jurisdiction "([^"]*)"$`, steps.listDomains)
}

type resolveSteps struct {
	tc TestContext
}

func (s *resolveSteps) resolveConfig(ctx context.Context, domain string) error {
	return s.tc.POST("/config/resolve", map[string]any{
		"tenant_id": s.tc.GetTenantID(),
		"domain":    domain,
	})
}

func (s *resolveSteps) resolveConfigIncludingLegacy(ctx context.Context, domain string) error {
	return s.tc.POST("/config/resolve", map[string]any{
		"tenant_id":      s.tc.GetTenantID(),
		"domain":         domain,
		"include_legacy": true,
	})
}

func (s *resolveSteps) configShouldBeAvailable(ctx context.Context) error {
	return s.assertAvailable(true)
}

func (s *resolveSteps) configShouldNotBeAvailable(ctx context.Context) error {
	return s.assertAvailable(false)
}

func (s *resolveSteps) assertAvailable(want bool) error {
	v, err := s.tc.GetResponseField("available")
	if err != nil {
		return err
	}
	got, ok := v.(bool)
	if !ok {
		return fmt.Errorf("available is not a bool: %v", v)
	}
	if got != want {
		return fmt.Errorf("expected available=%v, got %v in %s", want, got, s.tc.ResponseBody())
	}
	return nil
}

func (s *resolveSteps) configKeyShouldEqual(ctx context.Context, key, expected string) error {
	var parsed struct {
		Config map[string]any `json:"config"`
	}
	if err := json.Unmarshal(s.tc.ResponseBody(), &parsed); err != nil {
		return err
	}
	v, ok := parsed.Config[key]
	if !ok {
		return fmt.Errorf("config has no key %q in %s", key, s.tc.ResponseBody())
	}
	if fmt.Sprintf("%v", v) != expected {
		return fmt.Errorf("expected config[%q] to equal %q, got %v", key, expected, v)
	}
	return nil
}

func (s *resolveSteps) listDomains(ctx context.Context, code string) error {
	return s.tc.GET("/admin/jurisdictions/"+code+"/domains", nil)
}
