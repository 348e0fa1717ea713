package compliance

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
	ResponseBody() []byte
	GetTenantID() string
}

// RegisterSteps registers compliance evaluation step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &complianceSteps{tc: tc}

	ctx.Step(`^I evaluate compliance for fiscal year (\d+) with an overspent general fund$`, steps.evaluateOverspent)
	ctx.Step(`^I evaluate compliance for fiscal year (\d+) with a clean snapshot$`, steps.evaluateClean)
	ctx.Step(`^the evaluation should report a violation of rule "([^"]*)"$`, steps.shouldReportViolation)
	ctx.Step(`^the evaluation should report no violations$`, steps.shouldReportNoViolations)
	ctx.Step(`^I list the compliance rules for "([^"]*)"$`, steps.listRules)
}

type complianceSteps struct {
	tc TestContext
}

func (s *complianceSteps) evaluateOverspent(ctx context.Context, fiscalYear int) error {
	body := map[string]any{
		"tenant_id":   s.tc.GetTenantID(),
		"fiscal_year": fiscalYear,
		"funds": []map[string]any{
			{"id": "fund-general", "name": "General Fund", "type": "GOVERNMENTAL", "current_balance": 40000},
		},
		"budget_lines": []map[string]any{
			{"fund_id": "fund-general", "account": "personnel", "appropriated": 100000, "fiscal_year": fiscalYear},
		},
		"transactions": []map[string]any{
			{"id": "tx-1", "fund_id": "fund-general", "type": "DISBURSEMENT", "amount": 120000, "fiscal_year": fiscalYear},
		},
	}
	return s.tc.POST("/compliance/evaluate", body)
}

func (s *complianceSteps) evaluateClean(ctx context.Context, fiscalYear int) error {
	body := map[string]any{
		"tenant_id":   s.tc.GetTenantID(),
		"fiscal_year": fiscalYear,
		"funds": []map[string]any{
			{"id": "fund-general", "name": "General Fund", "type": "GOVERNMENTAL", "current_balance": 40000},
		},
	}
	return s.tc.POST("/compliance/evaluate", body)
}

func (s *complianceSteps) violations() ([]map[string]any, error) {
	var parsed struct {
		Violations []map[string]any `json:"violations"`
	}
	if err := json.Unmarshal(s.tc.ResponseBody(), &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode evaluation response: %w", err)
	}
	return parsed.Violations, nil
}

func (s *complianceSteps) shouldReportViolation(ctx context.Context, ruleID string) error {
	violations, err := s.violations()
	if err != nil {
		return err
	}
	for _, v := range violations {
		if v["rule_id"] == ruleID {
			return nil
		}
	}
	return fmt.Errorf("no violation of rule %q in %s", ruleID, s.tc.ResponseBody())
}

func (s *complianceSteps) shouldReportNoViolations(ctx context.Context) error {
	violations, err := s.violations()
	if err != nil {
		return err
	}
	if len(violations) != 0 {
		return fmt.Errorf("expected no violations, got %d", len(violations))
	}
	return nil
}

func (s *complianceSteps) listRules(ctx context.Context, code string) error {
	return s.tc.GET("/compliance/rules/"+code, nil)
}
