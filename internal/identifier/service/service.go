package service

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"donorhub/internal/identifier/metrics"
	"donorhub/internal/identifier/models"
	dErrors "donorhub/pkg/domain-errors"
)

// Store is the durable set of issued values, one namespace per kind.
type Store interface {
	// Reserve atomically records value for kind. It returns false when the value was already issued.
	Reserve(ctx context.Context, ident models.Identifier) (bool, error)
	Count(ctx context.Context, kind models.Kind) (int, error)
}

// RandomSource returns a uniform integer in [0, n).
type RandomSource func(n int) (int, error)

const defaultMaxRandomAttempts = 32

var tracer = otel.Tracer("donorhub/internal/identifier")

// Service issues unique identifiers per kind.
type Service struct {
	store             Store
	random            RandomSource
	maxRandomAttempts int
	logger            *slog.Logger
	metrics           *metrics.Metrics
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

// WithRandomSource replaces the crypto/rand draw. Tests use it to force collisions.
func WithRandomSource(src RandomSource) Option {
	return func(s *Service) {
		s.random = src
	}
}

// WithMaxRandomAttempts bounds random draws before the deterministic sweep.
func WithMaxRandomAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxRandomAttempts = n
		}
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:             store,
		random:            cryptoIntn,
		maxRandomAttempts: defaultMaxRandomAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue draws a fresh value for kind and records it durably.
//
// Draws are uniform over 000000–999999. A draw that collides with an issued
// value is retried. After maxRandomAttempts collisions the namespace is swept
// from a random offset so a free value is always found if one exists.
func (s *Service) Issue(ctx context.Context, kind models.Kind) (models.Identifier, error) {
	ctx, span := tracer.Start(ctx, "identifier.Issue")
	defer span.End()
	span.SetAttributes(attribute.String("identifier.kind", kind.String()))

	if !kind.IsValid() {
		return models.Identifier{}, dErrors.New(dErrors.CodeInvalidInput, "unknown identifier kind")
	}

	issued, err := s.store.Count(ctx, kind)
	if err != nil {
		return models.Identifier{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count issued identifiers")
	}
	if issued >= models.NamespaceSize {
		return models.Identifier{}, s.exhausted(ctx, kind)
	}

	for range s.maxRandomAttempts {
		n, err := s.random(models.NamespaceSize)
		if err != nil {
			return models.Identifier{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to draw identifier")
		}
		ident, ok, err := s.tryReserve(ctx, kind, n)
		if err != nil {
			return models.Identifier{}, err
		}
		if ok {
			return ident, nil
		}
	}

	start, err := s.random(models.NamespaceSize)
	if err != nil {
		return models.Identifier{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to draw identifier")
	}
	if s.logger != nil {
		s.logger.WarnContext(ctx, "identifier random draws exhausted, sweeping namespace",
			"kind", kind, "attempts", s.maxRandomAttempts)
	}
	for i := range models.NamespaceSize {
		ident, ok, err := s.tryReserve(ctx, kind, (start+i)%models.NamespaceSize)
		if err != nil {
			return models.Identifier{}, err
		}
		if ok {
			return ident, nil
		}
	}
	return models.Identifier{}, s.exhausted(ctx, kind)
}

func (s *Service) tryReserve(ctx context.Context, kind models.Kind, n int) (models.Identifier, bool, error) {
	ident, err := models.Format(kind, n)
	if err != nil {
		return models.Identifier{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to format identifier")
	}
	ok, err := s.store.Reserve(ctx, ident)
	if err != nil {
		return models.Identifier{}, false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reserve identifier")
	}
	if !ok {
		if s.metrics != nil {
			s.metrics.IncrementCollision(kind.String())
		}
		return models.Identifier{}, false, nil
	}
	if s.metrics != nil {
		s.metrics.IncrementIssued(kind.String())
	}
	return ident, true, nil
}

func (s *Service) exhausted(ctx context.Context, kind models.Kind) error {
	if s.metrics != nil {
		s.metrics.IncrementExhausted(kind.String())
	}
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "identifier namespace exhausted", "kind", kind)
	}
	return dErrors.New(dErrors.CodeExhaustedNamespace, "no unused "+kind.String()+" identifiers remain")
}

func cryptoIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
