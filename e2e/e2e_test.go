package e2e

import (
	"context"
	"os"
	"testing"

	"github.com/cucumber/godog"
)

// TestFeatures runs the feature files against a live server at
// DONORHUB_E2E_BASE_URL.
func TestFeatures(t *testing.T) {
	baseURL := os.Getenv("DONORHUB_E2E_BASE_URL")
	if baseURL == "" {
		t.Skip("DONORHUB_E2E_BASE_URL not set")
	}
	tc := NewTestContext(baseURL, os.Getenv("DONORHUB_E2E_ADMIN_TOKEN"), os.Getenv("DONORHUB_E2E_ADMIN_ACTOR"))

	suite := godog.TestSuite{
		ScenarioInitializer: func(ctx *godog.ScenarioContext) {
			ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
				tc.Reset()
				return ctx, nil
			})
			RegisterSteps(ctx, tc)
		},
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}
	if suite.Run() != 0 {
		t.Fatal("e2e scenarios failed")
	}
}
