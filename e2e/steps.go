package e2e

import (
	"github.com/cucumber/godog"

	"donorhub/e2e/steps/common"
	"donorhub/e2e/steps/ledger"
	"donorhub/e2e/steps/lifecycle"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (requests, status and field assertions)
	common.RegisterSteps(ctx, tc)

	// Register registration, approval and login steps
	lifecycle.RegisterSteps(ctx, tc)

	// Register points ledger and draw steps
	ledger.RegisterSteps(ctx, tc)
}
