package service

import (
	"context"

	"donorhub/internal/application/models"
	appointment "donorhub/internal/appointment/models"
	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
	audit "donorhub/pkg/platform/audit"
	"donorhub/pkg/requestcontext"
)

// Edit replaces an application's profile. Status, identifiers and credentials
// are never touched. A donor appointment moved to another region loses a
// facility the new region does not offer.
func (s *Service) Edit(ctx context.Context, appID id.ApplicationID, actorID id.ActorID, edit models.Edit) (*models.EditResult, error) {
	ctx, span := tracer.Start(ctx, "application.Edit")
	defer span.End()

	current, err := s.Get(ctx, appID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var (
		mutate  func(*models.Application)
		cleared bool
	)
	switch current.Kind {
	case models.KindDonor:
		if edit.Donor == nil || edit.Hospital != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "donor applications take a donor profile")
		}
		profile := *edit.Donor
		if err := profile.Normalize(now); err != nil {
			return nil, err
		}
		var previous appointment.Selection
		if current.Donor != nil {
			previous = current.Donor.Appointment
		}
		cleared, err = s.normalizeDonorLocation(&profile, previous)
		if err != nil {
			return nil, err
		}
		var bloodType id.BloodType
		if edit.BloodType != "" {
			if bloodType, err = id.ParseBloodType(edit.BloodType); err != nil {
				return nil, err
			}
		}
		mutate = func(a *models.Application) { a.ApplyDonorEdit(profile, bloodType, now) }
	case models.KindHospital:
		if edit.Hospital == nil || edit.Donor != nil || edit.BloodType != "" {
			return nil, dErrors.New(dErrors.CodeValidation, "hospital applications take a hospital profile")
		}
		profile := *edit.Hospital
		if err := profile.Normalize(); err != nil {
			return nil, err
		}
		if err := s.normalizeRegion(&profile.Address); err != nil {
			return nil, err
		}
		mutate = func(a *models.Application) { a.ApplyHospitalEdit(profile, now) }
	default:
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown application kind")
	}

	app, err := s.store.Execute(ctx, appID, func(*models.Application) error { return nil }, mutate)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to edit application")
	}
	s.logAudit(ctx, audit.EventApplicationEdited, app.Identifier, actorString(actorID), app.Status.String(), "",
		"application_id", app.ID.String(),
		"facility_cleared", cleared,
	)
	return &models.EditResult{Application: app, FacilityCleared: cleared}, nil
}

// Delete removes an application for good. Its identifiers stay reserved and
// ledger history is kept, but the donor can no longer earn points or log in.
func (s *Service) Delete(ctx context.Context, appID id.ApplicationID, actorID id.ActorID) error {
	if actorID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "actor_id is required")
	}
	app, err := s.Get(ctx, appID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, appID); err != nil {
		return wrapStoreErr(err, "failed to delete application")
	}
	if s.metrics != nil {
		s.metrics.IncrementDeleted()
	}
	s.logAudit(ctx, audit.EventApplicationDeleted, app.Identifier, actorID.String(), "deleted", "",
		"application_id", app.ID.String(),
		"status", app.Status.String(),
	)
	return nil
}

func actorString(actorID id.ActorID) string {
	if actorID.IsNil() {
		return ""
	}
	return actorID.String()
}
