package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"donorhub/internal/lockout/metrics"
	"donorhub/internal/lockout/models"
	dErrors "donorhub/pkg/domain-errors"
	"donorhub/pkg/platform/audit"
	"donorhub/pkg/requestcontext"
)

// Store counts failures per key. Get returns nil, nil for an unknown key.
type Store interface {
	Get(ctx context.Context, key string) (*models.Record, error)
	RecordFailure(ctx context.Context, key string, now time.Time, window time.Duration) (int, error)
	Lock(ctx context.Context, key string, until time.Time) error
	Clear(ctx context.Context, key string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service locks an email and client address pair out of login after too many
// failures inside the policy window.
type Service struct {
	store          Store
	policy         models.Policy
	logger         *slog.Logger
	metrics        *metrics.Metrics
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithPolicy(p models.Policy) Option {
	return func(s *Service) { s.policy = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = p }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, policy: models.DefaultPolicy()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Check returns a rate_limited error while the pair is locked or has used up
// its attempts in the current window. An expired lock is cleared.
func (s *Service) Check(ctx context.Context, email, ip string) error {
	if !s.policy.Enabled() {
		return nil
	}
	key := models.Key(email, ip)
	rec, err := s.store.Get(ctx, key)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read login lockout")
	}
	if rec == nil {
		return nil
	}
	now := requestcontext.Now(ctx)
	switch {
	case rec.IsLockedAt(now):
		s.refused()
		return dErrors.New(dErrors.CodeRateLimited,
			fmt.Sprintf("too many failed logins, retry after %s", rec.LockedUntil.Sub(now).Round(time.Second)))
	case rec.LockedUntil != nil, rec.WindowElapsedAt(now, s.policy.Window):
		if err := s.store.Clear(ctx, key); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear login lockout")
		}
		return nil
	case rec.FailureCount >= s.policy.Attempts:
		s.refused()
		return dErrors.New(dErrors.CodeRateLimited, "too many failed logins")
	}
	return nil
}

// RecordFailure counts a failed login and locks the pair once the count
// reaches the policy's attempts.
func (s *Service) RecordFailure(ctx context.Context, email, ip string) error {
	if !s.policy.Enabled() {
		return nil
	}
	key := models.Key(email, ip)
	now := requestcontext.Now(ctx)
	count, err := s.store.RecordFailure(ctx, key, now, s.policy.Window)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record login failure")
	}
	if count < s.policy.Attempts {
		return nil
	}
	until := now.Add(s.policy.LockDuration)
	if err := s.store.Lock(ctx, key, until); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to lock login")
	}
	if s.metrics != nil {
		s.metrics.IncrementLockout()
	}
	s.logAudit(ctx, email, "failure_count", count, "locked_until", until)
	return nil
}

// Clear forgets failures after a successful login.
func (s *Service) Clear(ctx context.Context, email, ip string) error {
	if !s.policy.Enabled() {
		return nil
	}
	if err := s.store.Clear(ctx, models.Key(email, ip)); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear login lockout")
	}
	return nil
}

func (s *Service) refused() {
	if s.metrics != nil {
		s.metrics.IncrementRefused()
	}
}

func (s *Service) logAudit(ctx context.Context, email string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(audit.EventLoginLocked), "subject", email, "log_type", "audit")
	if s.logger != nil {
		s.logger.WarnContext(ctx, string(audit.EventLoginLocked), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		Subject:  email,
		Action:   string(audit.EventLoginLocked),
		Decision: "locked",
	})
}
