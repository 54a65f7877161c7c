package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"donorhub/internal/application/metrics"
	"donorhub/internal/application/models"
	appointment "donorhub/internal/appointment/models"
	identifier "donorhub/internal/identifier/models"
	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
	audit "donorhub/pkg/platform/audit"
	"donorhub/pkg/platform/sentinel"
	"donorhub/pkg/requestcontext"
)

// Store persists applications.
//
// Create returns sentinel.ErrConflict when the email or identifier is taken.
// Execute loads the application, runs validate and, when it passes, mutate,
// holding the record lock (mutex or SELECT ... FOR UPDATE) across both.
type Store interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.Application, error)
	FindByEmail(ctx context.Context, email string) (*models.Application, error)
	Execute(ctx context.Context, appID id.ApplicationID, validate func(*models.Application) error, mutate func(*models.Application)) (*models.Application, error)
	Delete(ctx context.Context, appID id.ApplicationID) error
	List(ctx context.Context, filter models.ListFilter) ([]*models.Application, error)
}

type IdentifierIssuer interface {
	Issue(ctx context.Context, kind identifier.Kind) (identifier.Identifier, error)
}

// AppointmentSelector validates region and facility choices.
type AppointmentSelector interface {
	ResolveRegion(name string) (appointment.Region, error)
	OnRegionChanged(sel appointment.Selection, newRegion appointment.Region) (appointment.Selection, error)
	Validate(sel appointment.Selection) (appointment.Selection, error)
}

// TokenIssuer signs session tokens for approved applicants.
type TokenIssuer interface {
	GenerateSessionToken(applicationID id.ApplicationID, subject string, kind string, now time.Time, expiresIn time.Duration) (string, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

var tracer = otel.Tracer("donorhub/internal/application")

const defaultSessionTTL = 12 * time.Hour

// Service runs registration, the approval state machine, edits and logins.
type Service struct {
	store          Store
	issuer         IdentifierIssuer
	selector       AppointmentSelector
	tokens         TokenIssuer
	sessionTTL     time.Duration
	bcryptCost     int
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

// WithTokenIssuer enables Authenticate.
func WithTokenIssuer(tokens TokenIssuer, ttl time.Duration) Option {
	return func(s *Service) {
		s.tokens = tokens
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithBcryptCost overrides bcrypt.DefaultCost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(store Store, issuer IdentifierIssuer, selector AppointmentSelector, opts ...Option) *Service {
	s := &Service{
		store:      store,
		issuer:     issuer,
		selector:   selector,
		sessionTTL: defaultSessionTTL,
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns any application, including rejected ones kept for audit.
func (s *Service) Get(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	if appID.IsNil() {
		return nil, dErrors.New(dErrors.CodeValidation, "application id is required")
	}
	app, err := s.store.FindByID(ctx, appID)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to load application")
	}
	return app, nil
}

// Directory lists approved applications of kind, optionally narrowed by blood type and region.
func (s *Service) Directory(ctx context.Context, kind models.Kind, bloodType id.BloodType, region string) ([]*models.Application, error) {
	if region != "" {
		resolved, err := s.selector.ResolveRegion(region)
		if err != nil {
			return nil, err
		}
		region = string(resolved)
	}
	apps, err := s.store.List(ctx, models.ListFilter{
		Kind:      kind,
		Status:    models.StatusApproved,
		BloodType: bloodType,
		Region:    region,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

// Queue lists applications in status, oldest first. An empty kind lists both kinds.
func (s *Service) Queue(ctx context.Context, kind models.Kind, status models.Status) ([]*models.Application, error) {
	apps, err := s.store.List(ctx, models.ListFilter{Kind: kind, Status: status})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

func (s *Service) hashPassword(password, confirmation string) (string, error) {
	if len(password) < 8 {
		return "", dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	if password != confirmation {
		return "", dErrors.New(dErrors.CodeValidation, "password and confirmation do not match")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeValidation, "password cannot be hashed")
	}
	return string(hash), nil
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, subject, actorID, decision, reason string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "subject", subject, "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Subject:  subject,
		Action:   string(event),
		Decision: decision,
		Reason:   reason,
		ActorID:  actorID,
	})
}

func wrapStoreErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "application not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeConflict, "application conflicts with an existing record")
	case dErrors.CodeOf(err) != dErrors.CodeInternal:
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
