package service

import (
	"context"
	"errors"
	"net/mail"

	"go.opentelemetry.io/otel/attribute"

	"donorhub/internal/application/models"
	appointment "donorhub/internal/appointment/models"
	identifier "donorhub/internal/identifier/models"
	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
	audit "donorhub/pkg/platform/audit"
	"donorhub/pkg/platform/sentinel"
	"donorhub/pkg/requestcontext"
)

// RegisterDonor validates the form, issues a donor and a lottery identifier and
// stores a pending application. Issued identifiers stay reserved even if the
// application is later deleted.
func (s *Service) RegisterDonor(ctx context.Context, req models.DonorRegistration) (*models.RegistrationResult, error) {
	ctx, span := tracer.Start(ctx, "application.RegisterDonor")
	defer span.End()

	now := requestcontext.Now(ctx)
	email, err := s.checkEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	bloodType, err := id.ParseBloodType(req.BloodType)
	if err != nil {
		return nil, err
	}
	profile := req.Profile
	if err := profile.Normalize(now); err != nil {
		return nil, err
	}
	if _, err := s.normalizeDonorLocation(&profile, appointment.Selection{}); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(req.Password, req.PasswordConfirmation)
	if err != nil {
		return nil, err
	}

	donorID, err := s.issuer.Issue(ctx, identifier.KindDonor)
	if err != nil {
		return nil, err
	}
	lotteryID, err := s.issuer.Issue(ctx, identifier.KindLottery)
	if err != nil {
		return nil, err
	}
	app, err := models.NewDonorApplication(id.NewApplicationID(), donorID.Value, lotteryID.Value, email, hash, bloodType, profile, now)
	if err != nil {
		return nil, err
	}
	if err := s.create(ctx, app); err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.String("application.identifier", app.Identifier))
	if s.metrics != nil {
		s.metrics.IncrementRegistered(models.KindDonor.String())
	}
	s.logAudit(ctx, audit.EventDonorRegistered, app.Identifier, "", string(models.StatusPending), "",
		"application_id", app.ID.String(),
		"lottery_identifier", app.LotteryIdentifier,
	)
	return &models.RegistrationResult{
		ApplicationID:     app.ID,
		Identifier:        app.Identifier,
		LotteryIdentifier: app.LotteryIdentifier,
		Status:            app.Status,
	}, nil
}

// RegisterHospital stores a pending hospital application with an HSP- identifier.
func (s *Service) RegisterHospital(ctx context.Context, req models.HospitalRegistration) (*models.RegistrationResult, error) {
	ctx, span := tracer.Start(ctx, "application.RegisterHospital")
	defer span.End()

	now := requestcontext.Now(ctx)
	email, err := s.checkEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	profile := req.Profile
	if err := profile.Normalize(); err != nil {
		return nil, err
	}
	if err := s.normalizeRegion(&profile.Address); err != nil {
		return nil, err
	}
	hash, err := s.hashPassword(req.Password, req.PasswordConfirmation)
	if err != nil {
		return nil, err
	}

	hospitalID, err := s.issuer.Issue(ctx, identifier.KindHospital)
	if err != nil {
		return nil, err
	}
	app, err := models.NewHospitalApplication(id.NewApplicationID(), hospitalID.Value, email, hash, profile, now)
	if err != nil {
		return nil, err
	}
	if err := s.create(ctx, app); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementRegistered(models.KindHospital.String())
	}
	s.logAudit(ctx, audit.EventHospitalRegistered, app.Identifier, "", string(models.StatusPending), "",
		"application_id", app.ID.String(),
	)
	return &models.RegistrationResult{
		ApplicationID: app.ID,
		Identifier:    app.Identifier,
		Status:        app.Status,
	}, nil
}

// create tells a lost email race apart from an identifier collision when the
// store reports a conflict.
func (s *Service) create(ctx context.Context, app *models.Application) error {
	err := s.store.Create(ctx, app)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sentinel.ErrConflict) {
		return wrapStoreErr(err, "failed to store application")
	}
	if _, findErr := s.store.FindByEmail(ctx, app.Email); findErr == nil {
		return dErrors.New(dErrors.CodeConflict, "email is already registered")
	}
	return dErrors.New(dErrors.CodeConflict, "issued identifier is already in use, retry the registration")
}

// checkEmail normalizes the address and rejects one already registered.
// The store's unique constraint still decides races.
func (s *Service) checkEmail(ctx context.Context, raw string) (string, error) {
	email := models.NormalizeEmail(raw)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return "", dErrors.New(dErrors.CodeValidation, "a valid email is required")
	}
	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return "", dErrors.New(dErrors.CodeConflict, "email is already registered")
	case errors.Is(err, sentinel.ErrNotFound):
		return email, nil
	default:
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email")
	}
}

func (s *Service) normalizeRegion(addr *models.Address) error {
	if addr.Region == "" {
		return dErrors.New(dErrors.CodeValidation, "address region is required")
	}
	region, err := s.selector.ResolveRegion(addr.Region)
	if err != nil {
		return err
	}
	addr.Region = string(region)
	return nil
}

// normalizeDonorLocation resolves the address region and validates the
// appointment. On a region change only the stored facility may be cleared:
// when the submitted facility is the one on record and the new region does not
// offer it, it is dropped and reported. Any other facility must belong to the
// new region.
func (s *Service) normalizeDonorLocation(p *models.DonorProfile, previous appointment.Selection) (bool, error) {
	if err := s.normalizeRegion(&p.Address); err != nil {
		return false, err
	}
	sel := p.Appointment
	if sel == (appointment.Selection{}) {
		return false, nil
	}
	if sel.Region == "" {
		return false, dErrors.New(dErrors.CodeValidation, "appointment region is required")
	}
	cleared := false
	if previous.Region != "" && sel.HasFacility() && sel.Facility == previous.Facility {
		newRegion, err := s.selector.ResolveRegion(string(sel.Region))
		if err != nil {
			return false, err
		}
		if newRegion != previous.Region {
			moved, err := s.selector.OnRegionChanged(sel, newRegion)
			if err != nil {
				return false, err
			}
			cleared = !moved.HasFacility()
			sel = moved
		}
	}
	validated, err := s.selector.Validate(sel)
	if err != nil {
		return false, err
	}
	p.Appointment = validated
	return cleared, nil
}
