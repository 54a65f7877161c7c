package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"donorhub/internal/application/models"
	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
	audit "donorhub/pkg/platform/audit"
	"donorhub/pkg/requestcontext"
)

// Approve moves a pending application to approved.
// Anything but pending fails with CodeInvalidStateTransition.
//
// Uses the Execute callback pattern so the status check and the transition
// happen under the same record lock.
func (s *Service) Approve(ctx context.Context, appID id.ApplicationID, actorID id.ActorID) (*models.Application, error) {
	return s.Decide(ctx, appID, models.DecisionApprove, actorID, "")
}

// Reject moves a pending application to rejected. reason is mandatory.
func (s *Service) Reject(ctx context.Context, appID id.ApplicationID, actorID id.ActorID, reason string) (*models.Application, error) {
	return s.Decide(ctx, appID, models.DecisionReject, actorID, reason)
}

// Decide applies a staff decision to a pending application.
func (s *Service) Decide(ctx context.Context, appID id.ApplicationID, decision models.Decision, actorID id.ActorID, reason string) (*models.Application, error) {
	ctx, span := tracer.Start(ctx, "application.Decide")
	defer span.End()
	span.SetAttributes(
		attribute.String("application.id", appID.String()),
		attribute.String("application.decision", string(decision)),
	)

	if appID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "application id is required")
	}
	now := requestcontext.Now(ctx)

	var (
		validate func(*models.Application) error
		mutate   func(*models.Application)
		event    audit.AuditEvent
	)
	switch decision {
	case models.DecisionApprove:
		validate = func(a *models.Application) error { return a.CanApprove(actorID) }
		mutate = func(a *models.Application) { a.ApplyApproval(actorID, now) }
		event = audit.EventApplicationApproved
	case models.DecisionReject:
		validate = func(a *models.Application) error { return a.CanReject(actorID, reason) }
		mutate = func(a *models.Application) { a.ApplyRejection(actorID, reason, now) }
		event = audit.EventApplicationRejected
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "decision must be approve or reject")
	}

	app, err := s.store.Execute(ctx, appID, validate, mutate)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvalidStateTransition) && s.logger != nil {
			s.logger.InfoContext(ctx, "decision refused on decided application",
				"application_id", appID.String(),
				"decision", string(decision),
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return nil, wrapStoreErr(err, "failed to apply decision")
	}

	if s.metrics != nil {
		s.metrics.IncrementDecision(app.Kind.String(), app.Status.String())
	}
	s.logAudit(ctx, event, app.Identifier, actorID.String(), app.Status.String(), app.DecisionReason,
		"application_id", app.ID.String(),
	)
	return app, nil
}
