package lifecycle

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	AdminPOST(path string, body any) error
	AdminGET(path string) error
	GetLastStatus() int
	GetResponseField(field string) (any, error)
	Email(alias string) string
	RememberApplication(alias, applicationID, identifier string)
	ApplicationID(alias string) string
	SetSessionToken(token string)
}

const password = "correct-horse-battery"

// RegisterSteps registers registration, decision and login steps
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &lifecycleSteps{tc: tc}

	ctx.Step(`^donor "([^"]*)" registers with blood type "([^"]*)" in region "([^"]*)"$`, steps.registerDonor)
	ctx.Step(`^donor "([^"]*)" registers choosing facility "([^"]*)" in region "([^"]*)"$`, steps.registerWithFacility)
	ctx.Step(`^hospital "([^"]*)" registers in region "([^"]*)"$`, steps.registerHospital)
	ctx.Step(`^staff approve "([^"]*)"$`, steps.approve)
	ctx.Step(`^staff reject "([^"]*)" because "([^"]*)"$`, steps.reject)
	ctx.Step(`^"([^"]*)" is an approved donor with blood type "([^"]*)"$`, steps.approvedDonor)
	ctx.Step(`^"([^"]*)" logs in$`, steps.login)
}

type lifecycleSteps struct {
	tc TestContext
}

func (s *lifecycleSteps) donorBody(alias, bloodType, region string, appointment map[string]any) map[string]any {
	return map[string]any{
		"email":                 s.tc.Email(alias),
		"password":              password,
		"password_confirmation": password,
		"blood_type":            bloodType,
		"profile": map[string]any{
			"full_name":   alias,
			"phone":       "0911000000",
			"birth_date":  "1995-06-01",
			"address":     map[string]any{"region": region},
			"appointment": appointment,
		},
	}
}

func (s *lifecycleSteps) registerDonor(ctx context.Context, alias, bloodType, region string) error {
	return s.register(alias, "/registrations/donors", s.donorBody(alias, bloodType, region, map[string]any{"region": region}))
}

func (s *lifecycleSteps) registerWithFacility(ctx context.Context, alias, facility, region string) error {
	body := s.donorBody(alias, "O+", region, map[string]any{"region": region, "facility": facility})
	return s.register(alias, "/registrations/donors", body)
}

func (s *lifecycleSteps) registerHospital(ctx context.Context, alias, region string) error {
	return s.register(alias, "/registrations/hospitals", map[string]any{
		"email":                 s.tc.Email(alias),
		"password":              password,
		"password_confirmation": password,
		"profile": map[string]any{
			"name":           alias,
			"contact_doctor": "Dr. " + alias,
			"license_name":   alias + " Hospital",
			"license_number": "LIC-" + alias,
			"phone":          "0111000000",
			"address":        map[string]any{"region": region},
		},
	})
}

// register remembers the application when the server accepted it and leaves
// failures for the assertion steps.
func (s *lifecycleSteps) register(alias, path string, body map[string]any) error {
	if err := s.tc.POST(path, body); err != nil {
		return err
	}
	if s.tc.GetLastStatus() != 201 {
		return nil
	}
	appID, err := s.tc.GetResponseField("application_id")
	if err != nil {
		return err
	}
	identifier, err := s.tc.GetResponseField("identifier")
	if err != nil {
		return err
	}
	s.tc.RememberApplication(alias, fmt.Sprint(appID), fmt.Sprint(identifier))
	return nil
}

func (s *lifecycleSteps) approve(ctx context.Context, alias string) error {
	return s.tc.AdminPOST("/admin/applications/"+s.tc.ApplicationID(alias)+"/decision", map[string]any{
		"decision": "approve",
	})
}

func (s *lifecycleSteps) reject(ctx context.Context, alias, reason string) error {
	return s.tc.AdminPOST("/admin/applications/"+s.tc.ApplicationID(alias)+"/decision", map[string]any{
		"decision": "reject",
		"reason":   reason,
	})
}

func (s *lifecycleSteps) approvedDonor(ctx context.Context, alias, bloodType string) error {
	if err := s.registerDonor(ctx, alias, bloodType, "Addis Ababa"); err != nil {
		return err
	}
	if s.tc.GetLastStatus() != 201 {
		return fmt.Errorf("registration of %s failed with status %d", alias, s.tc.GetLastStatus())
	}
	if err := s.approve(ctx, alias); err != nil {
		return err
	}
	if s.tc.GetLastStatus() != 200 {
		return fmt.Errorf("approval of %s failed with status %d", alias, s.tc.GetLastStatus())
	}
	return nil
}

func (s *lifecycleSteps) login(ctx context.Context, alias string) error {
	if err := s.tc.POST("/auth/login", map[string]any{"email": s.tc.Email(alias), "password": password}); err != nil {
		return err
	}
	if s.tc.GetLastStatus() == 200 {
		token, err := s.tc.GetResponseField("token")
		if err != nil {
			return err
		}
		s.tc.SetSessionToken(fmt.Sprint(token))
	}
	return nil
}
