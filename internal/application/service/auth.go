package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"donorhub/internal/application/models"
	dErrors "donorhub/pkg/domain-errors"
	audit "donorhub/pkg/platform/audit"
	"donorhub/pkg/platform/sentinel"
	"donorhub/pkg/requestcontext"
)

// Authenticate checks credentials and issues a session token. Only approved
// applications may log in; pending and rejected ones get CodeForbidden after
// a correct password.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.LoginResult, error) {
	ctx, span := tracer.Start(ctx, "application.Authenticate")
	defer span.End()

	if s.tokens == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "sessions are not configured")
	}
	email = models.NormalizeEmail(email)
	app, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.loginFailed(ctx, email, "unknown_email")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(app.PasswordHash), []byte(password)); err != nil {
		s.loginFailed(ctx, app.Identifier, "bad_password")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}
	if !app.IsApproved() {
		s.loginFailed(ctx, app.Identifier, app.Status.String())
		return nil, dErrors.New(dErrors.CodeForbidden, "application is "+app.Status.String())
	}

	now := requestcontext.Now(ctx)
	token, err := s.tokens.GenerateSessionToken(app.ID, app.Identifier, app.Kind.String(), now, s.sessionTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue session")
	}
	if s.metrics != nil {
		s.metrics.IncrementLogin("success")
	}
	s.logAudit(ctx, audit.EventLoginSucceeded, app.Identifier, "", "granted", "")
	return &models.LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.sessionTTL),
		Subject:   app.Identifier,
		Kind:      app.Kind,
	}, nil
}

func (s *Service) loginFailed(ctx context.Context, subject, reason string) {
	if s.metrics != nil {
		s.metrics.IncrementLogin(reason)
	}
	s.logAudit(ctx, audit.EventLoginFailed, subject, "", "denied", reason)
}
