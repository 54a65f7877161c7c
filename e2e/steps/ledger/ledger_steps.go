package ledger

import (
	"context"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	AdminPOST(path string, body any) error
	AdminGET(path string) error
	Identifier(alias string) string
	GetSessionToken() string
}

// RegisterSteps registers points ledger steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ledgerSteps{tc: tc}

	ctx.Step(`^staff record a "([^"]*)" for "([^"]*)"$`, steps.record)
	ctx.Step(`^staff record a "([^"]*)" for "([^"]*)" during a shortage$`, steps.recordDuringShortage)
	ctx.Step(`^staff look up the standing of "([^"]*)"$`, steps.standing)
	ctx.Step(`^I request my standing$`, steps.myStanding)
}

type ledgerSteps struct {
	tc TestContext
}

func (s *ledgerSteps) record(ctx context.Context, action, alias string) error {
	return s.tc.AdminPOST("/donations", map[string]any{
		"donor_id": s.tc.Identifier(alias),
		"action":   action,
	})
}

func (s *ledgerSteps) recordDuringShortage(ctx context.Context, action, alias string) error {
	return s.tc.AdminPOST("/donations", map[string]any{
		"donor_id":      s.tc.Identifier(alias),
		"action":        action,
		"shortage_flag": true,
	})
}

func (s *ledgerSteps) standing(ctx context.Context, alias string) error {
	return s.tc.AdminGET("/donors/" + s.tc.Identifier(alias) + "/standing")
}

func (s *ledgerSteps) myStanding(ctx context.Context) error {
	return s.tc.GET("/me/standing", map[string]string{"Authorization": "Bearer " + s.tc.GetSessionToken()})
}
