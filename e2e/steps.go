package e2e

import (
	"github.com/cucumber/godog"

	"govern/e2e/steps/common"
	"govern/e2e/steps/compliance"
	"govern/e2e/steps/resolve"
	"govern/e2e/steps/tenant"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (health checks, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register tenant administration steps
	tenant.RegisterSteps(ctx, tc)

	// Register configuration resolution steps
	resolve.RegisterSteps(ctx, tc)

	// Register compliance evaluation steps
	compliance.RegisterSteps(ctx, tc)
}
