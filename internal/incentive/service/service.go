package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	identifier "donorhub/internal/identifier/models"
	"donorhub/internal/incentive/metrics"
	"donorhub/internal/incentive/models"
	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
	audit "donorhub/pkg/platform/audit"
	"donorhub/pkg/platform/sentinel"
	"donorhub/pkg/requestcontext"
)

// LedgerStore is the append-only ledger. Append assigns Sequence and must
// serialize appends per donor.
type LedgerStore interface {
	Append(ctx context.Context, entry *models.Entry) error
	ListByDonor(ctx context.Context, donorID string) ([]models.Entry, error)
	ListAll(ctx context.Context) ([]models.Entry, error)
}

// ShortageBoard holds admin-flagged blood types.
type ShortageBoard interface {
	Flag(ctx context.Context, flag models.ShortageFlag) error
	Unflag(ctx context.Context, bloodType id.BloodType) error
	IsFlagged(ctx context.Context, bloodType id.BloodType) (bool, error)
	List(ctx context.Context) ([]models.ShortageFlag, error)
}

// DonorDirectory resolves approved donors. It returns sentinel.ErrNotFound
// for unknown or not yet approved donors.
type DonorDirectory interface {
	BloodTypeOf(ctx context.Context, donorID string) (id.BloodType, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

var tracer = otel.Tracer("donorhub/internal/incentive")

// Service records point-earning actions and derives donor standings.
type Service struct {
	ledger         LedgerStore
	board          ShortageBoard
	donors         DonorDirectory
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

func New(ledger LedgerStore, board ShortageBoard, donors DonorDirectory, opts ...Option) *Service {
	s := &Service{ledger: ledger, board: board, donors: donors}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordAction appends one action for an approved donor and returns the entry
// with the donor's updated summary.
//
// The shortage multiplier is resolved here, once. It applies when the request
// reports a shortage and the donor's type is a built-in rare type, or when the
// donor's type is flagged on the shortage board.
func (s *Service) RecordAction(ctx context.Context, req models.RecordRequest) (*models.Entry, models.Summary, error) {
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveRecord(start)
		}
	}()
	ctx, span := tracer.Start(ctx, "incentive.RecordAction")
	defer span.End()
	span.SetAttributes(
		attribute.String("donor.id", req.DonorID),
		attribute.String("ledger.action", req.Action.String()),
	)

	donor, err := identifier.ParseKind(identifier.KindDonor, req.DonorID)
	if err != nil {
		return nil, models.Summary{}, dErrors.New(dErrors.CodeValidation, "donor_id must be a DNR- identifier")
	}
	if req.Action.BasePoints() == 0 {
		return nil, models.Summary{}, dErrors.New(dErrors.CodeValidation, "unknown action kind")
	}
	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = requestcontext.Now(ctx)
	}

	bloodType, err := s.donors.BloodTypeOf(ctx, donor.Value)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, models.Summary{}, dErrors.New(dErrors.CodeNotFound, "approved donor not found")
		}
		return nil, models.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve donor")
	}

	shortage, err := s.underShortage(ctx, bloodType, req.ShortageFlag)
	if err != nil {
		return nil, models.Summary{}, err
	}

	entry, err := models.NewEntry(donor.Value, req.Action, timestamp, shortage)
	if err != nil {
		return nil, models.Summary{}, dErrors.Wrap(err, dErrors.CodeValidation, "invalid ledger entry")
	}
	if err := s.ledger.Append(ctx, entry); err != nil {
		return nil, models.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to append ledger entry")
	}

	entries, err := s.ledger.ListByDonor(ctx, donor.Value)
	if err != nil {
		return nil, models.Summary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ledger")
	}
	summary := models.Summarize(donor.Value, entries)

	if s.metrics != nil {
		s.metrics.IncrementRecorded(entry.Action.String(), entry.Points, entry.Multiplier > 1)
	}
	s.logAudit(ctx, audit.EventDonationRecorded, donor.Value, "", entry.Action.String(),
		"points", entry.Points,
		"multiplier", entry.Multiplier,
		"total_points", summary.TotalPoints,
	)
	return entry, summary, nil
}

func (s *Service) underShortage(ctx context.Context, bloodType id.BloodType, requestFlag bool) (bool, error) {
	if requestFlag && bloodType.IsRare() {
		return true, nil
	}
	flagged, err := s.board.IsFlagged(ctx, bloodType)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to read shortage board")
	}
	if requestFlag && !flagged && s.logger != nil {
		s.logger.InfoContext(ctx, "shortage flag ignored for common blood type without a board flag",
			"blood_type", bloodType.String(),
		)
	}
	return flagged, nil
}

// Summary derives the donor's current points and tiers.
func (s *Service) Summary(ctx context.Context, donorID string) (models.Summary, error) {
	entries, err := s.Ledger(ctx, donorID)
	if err != nil {
		return models.Summary{}, err
	}
	return models.Summarize(donorID, entries), nil
}

// Ledger returns the donor's entries in append order.
func (s *Service) Ledger(ctx context.Context, donorID string) ([]models.Entry, error) {
	if _, err := identifier.ParseKind(identifier.KindDonor, donorID); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, "donor_id must be a DNR- identifier")
	}
	if _, err := s.donors.BloodTypeOf(ctx, donorID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "approved donor not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve donor")
	}
	entries, err := s.ledger.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ledger")
	}
	return entries, nil
}

// Standings folds the whole ledger for draw eligibility.
func (s *Service) Standings(ctx context.Context, minPoints int) ([]models.Standing, error) {
	entries, err := s.ledger.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load ledger")
	}
	return models.Standings(entries, minPoints), nil
}

// FlagShortage puts bloodType on the shortage board. Flagging twice refreshes the flag.
func (s *Service) FlagShortage(ctx context.Context, bloodType id.BloodType, actorID id.ActorID) (models.ShortageFlag, error) {
	if actorID.IsNil() {
		return models.ShortageFlag{}, dErrors.New(dErrors.CodeValidation, "actor_id is required")
	}
	flag := models.ShortageFlag{BloodType: bloodType, FlaggedBy: actorID, FlaggedAt: requestcontext.Now(ctx)}
	if err := s.board.Flag(ctx, flag); err != nil {
		return models.ShortageFlag{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to flag shortage")
	}
	s.refreshShortageGauge(ctx)
	s.logAudit(ctx, audit.EventShortageFlagged, bloodType.String(), actorID.String(), "flagged")
	return flag, nil
}

// ClearShortage removes bloodType from the board. Later actions no longer double;
// existing entries keep their multiplier.
func (s *Service) ClearShortage(ctx context.Context, bloodType id.BloodType, actorID id.ActorID) error {
	if actorID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "actor_id is required")
	}
	if err := s.board.Unflag(ctx, bloodType); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "blood type is not flagged")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to clear shortage")
	}
	s.refreshShortageGauge(ctx)
	s.logAudit(ctx, audit.EventShortageCleared, bloodType.String(), actorID.String(), "cleared")
	return nil
}

// SeedShortages flags configured blood types at boot. Types already on the
// board keep their original flag. Seeded flags carry no actor.
func (s *Service) SeedShortages(ctx context.Context, types []id.BloodType) error {
	for _, bt := range types {
		flagged, err := s.board.IsFlagged(ctx, bt)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to read shortage board")
		}
		if flagged {
			continue
		}
		if err := s.board.Flag(ctx, models.ShortageFlag{BloodType: bt, FlaggedAt: requestcontext.Now(ctx)}); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed shortage")
		}
		if s.logger != nil {
			s.logger.InfoContext(ctx, "shortage seeded from config", "blood_type", bt.String())
		}
	}
	s.refreshShortageGauge(ctx)
	return nil
}

func (s *Service) Shortages(ctx context.Context) ([]models.ShortageFlag, error) {
	flags, err := s.board.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list shortages")
	}
	return flags, nil
}

func (s *Service) refreshShortageGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if flags, err := s.board.List(ctx); err == nil {
		s.metrics.SetActiveShortages(len(flags))
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, subject, actorID, decision string, attributes ...any) {
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
		ActorID:  actorID,
	})
}
