package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"donorhub/internal/draw/metrics"
	"donorhub/internal/draw/models"
	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
	audit "donorhub/pkg/platform/audit"
	"donorhub/pkg/platform/sentinel"
	"donorhub/pkg/requestcontext"
)

// Store persists the single draw window and the history of completed draws.
type Store interface {
	// LoadWindow returns sentinel.ErrNotFound before the first window exists.
	LoadWindow(ctx context.Context) (models.Window, error)
	// InitWindow stores w unless a window already exists and returns the stored window.
	InitWindow(ctx context.Context, w models.Window) (models.Window, error)
	// CompleteDraw replaces current with next and stores record in one step.
	// It returns sentinel.ErrConflict when the stored window is no longer current.
	CompleteDraw(ctx context.Context, current, next models.Window, record models.Record) error
	ListRecords(ctx context.Context, limit int) ([]models.Record, error)
}

// Ledger reports donor standings against a points minimum.
type Ledger interface {
	Candidates(ctx context.Context, minPoints int) ([]models.Candidate, error)
}

// LotteryDirectory tells which ledger donors are still approved and resolves
// the lottery identifier issued to them. LotteryIdentifierOf returns
// sentinel.ErrNotFound when the donor has none.
type LotteryDirectory interface {
	IsApprovedDonor(ctx context.Context, donorID string) (bool, error)
	LotteryIdentifierOf(ctx context.Context, donorID string) (string, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

var tracer = otel.Tracer("donorhub/internal/draw")

const defaultHistoryLimit = 50

// Service evaluates the draw window on demand and records draws when it elapses.
type Service struct {
	store          Store
	ledger         Ledger
	lottery        LotteryDirectory
	period         time.Duration
	minPoints      int
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

func New(store Store, ledger Ledger, lottery LotteryDirectory, period time.Duration, minPoints int, opts ...Option) (*Service, error) {
	if period <= 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "draw period must be positive")
	}
	if minPoints < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "draw minimum points must not be negative")
	}
	s := &Service{
		store:     store,
		ledger:    ledger,
		lottery:   lottery,
		period:    period,
		minPoints: minPoints,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Window returns the current window, opening the first one at the request time.
func (s *Service) Window(ctx context.Context) (models.Window, error) {
	w, err := s.store.LoadWindow(ctx)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return models.Window{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load draw window")
	}
	first, err := models.NewWindow(requestcontext.Now(ctx), s.period)
	if err != nil {
		return models.Window{}, err
	}
	w, err = s.store.InitWindow(ctx, first)
	if err != nil {
		return models.Window{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to open draw window")
	}
	return w, nil
}

// Status computes remaining time and current eligibility. Nothing is persisted.
func (s *Service) Status(ctx context.Context) (models.Status, error) {
	ctx, span := tracer.Start(ctx, "draw.Status")
	defer span.End()

	w, err := s.Window(ctx)
	if err != nil {
		return models.Status{}, err
	}
	eligible, err := s.eligible(ctx)
	if err != nil {
		return models.Status{}, err
	}
	now := requestcontext.Now(ctx)
	remaining := remainingSeconds(w, now)
	if s.metrics != nil {
		s.metrics.SetRemaining(remaining)
	}
	return models.Status{
		RemainingSeconds: remaining,
		Due:              w.IsDue(now),
		WindowStartedAt:  w.StartedAt,
		WindowEndsAt:     w.EndsAt(),
		MinPoints:        s.minPoints,
		EligibleDonorIDs: eligible,
	}, nil
}

// RunIfDue records a draw when the window has elapsed. It returns a nil record
// when the window is still open or another instance already drew it.
func (s *Service) RunIfDue(ctx context.Context) (*models.Record, error) {
	ctx, span := tracer.Start(ctx, "draw.RunIfDue")
	defer span.End()

	w, err := s.Window(ctx)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	if !w.IsDue(now) {
		if s.metrics != nil {
			s.metrics.IncrementSkipped("not_due")
			s.metrics.SetRemaining(int64(w.Remaining(now).Seconds()))
		}
		return nil, nil
	}
	record, err := s.draw(ctx, w, now)
	if errors.Is(err, sentinel.ErrConflict) {
		if s.metrics != nil {
			s.metrics.IncrementSkipped("already_drawn")
		}
		return nil, nil
	}
	if dErrors.HasCode(err, dErrors.CodePrematureAdvance) && s.logger != nil {
		s.logger.ErrorContext(ctx, "draw window advanced before it was due",
			"window_started_at", w.StartedAt,
			"now", now,
		)
	}
	return record, err
}

// RunNow draws the current window on request. Unlike RunIfDue it reports an
// open window as CodePrematureAdvance.
func (s *Service) RunNow(ctx context.Context) (*models.Record, error) {
	ctx, span := tracer.Start(ctx, "draw.RunNow")
	defer span.End()

	w, err := s.Window(ctx)
	if err != nil {
		return nil, err
	}
	record, err := s.draw(ctx, w, requestcontext.Now(ctx))
	if errors.Is(err, sentinel.ErrConflict) {
		return nil, dErrors.New(dErrors.CodeConflict, "draw window was already drawn")
	}
	return record, err
}

// History lists completed draws, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]models.Record, error) {
	if limit <= 0 || limit > defaultHistoryLimit {
		limit = defaultHistoryLimit
	}
	records, err := s.store.ListRecords(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list draws")
	}
	return records, nil
}

func (s *Service) draw(ctx context.Context, w models.Window, now time.Time) (*models.Record, error) {
	next, err := w.Advance(now)
	if err != nil {
		return nil, err
	}
	eligible, err := s.eligible(ctx)
	if err != nil {
		return nil, err
	}

	entrants := make([]models.Entrant, 0, len(eligible))
	for _, donorID := range eligible {
		entrants = append(entrants, models.Entrant{
			DonorID:           donorID,
			LotteryIdentifier: s.lotteryIdentifier(ctx, donorID),
		})
	}
	record := models.Record{
		ID:              id.NewDrawID(),
		WindowStartedAt: w.StartedAt,
		DrawnAt:         now,
		MinPoints:       s.minPoints,
		Entrants:        entrants,
	}

	if err := s.store.CompleteDraw(ctx, w, next, record); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record draw")
	}

	trace.SpanFromContext(ctx).SetAttributes(
		attribute.String("draw.id", record.ID.String()),
		attribute.Int("draw.entrants", len(entrants)),
	)

	if s.metrics != nil {
		s.metrics.IncrementCompleted(len(entrants))
		s.metrics.SetRemaining(remainingSeconds(next, now))
	}
	s.logAudit(ctx, audit.EventDrawCompleted, record.ID.String(),
		"entrants", len(entrants),
		"window_started_at", w.StartedAt,
	)
	return &record, nil
}

// remainingSeconds rounds up so that zero is reported only once the window is due.
func remainingSeconds(w models.Window, now time.Time) int64 {
	return int64(math.Ceil(w.Remaining(now).Seconds()))
}

func (s *Service) eligible(ctx context.Context) ([]string, error) {
	candidates, err := s.ledger.Candidates(ctx, s.minPoints)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load standings")
	}
	if s.lottery == nil {
		return models.SelectEligible(candidates, s.minPoints), nil
	}
	active := candidates[:0:0]
	for _, c := range candidates {
		ok, err := s.lottery.IsApprovedDonor(ctx, c.DonorID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check donor standing")
		}
		if ok {
			active = append(active, c)
		}
	}
	return models.SelectEligible(active, s.minPoints), nil
}

// lotteryIdentifier tolerates donors without a lottery entry; they stay in the
// draw under their donor identifier.
func (s *Service) lotteryIdentifier(ctx context.Context, donorID string) string {
	if s.lottery == nil {
		return ""
	}
	lot, err := s.lottery.LotteryIdentifierOf(ctx, donorID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) && s.logger != nil {
			s.logger.WarnContext(ctx, "lottery identifier lookup failed",
				"donor_id", donorID,
				"error", err,
			)
		}
		return ""
	}
	return lot
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, subject string, attributes ...any) {
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
		Decision: "completed",
	})
}
