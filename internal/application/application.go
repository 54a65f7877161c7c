package application

import (
	"log/slog"
	"time"

	"donorhub/internal/application/adapters"
	"donorhub/internal/application/handler"
	"donorhub/internal/application/metrics"
	"donorhub/internal/application/service"
)

// Service owns donor and hospital applications from sign-up to deletion.
type Service = service.Service

type Handler = handler.Handler

type DonorDirectory = adapters.DonorDirectory

// NewService wires the lifecycle over its store. tokens and publisher may be nil;
// without tokens, login is refused.
func NewService(
	store service.Store,
	issuer service.IdentifierIssuer,
	selector service.AppointmentSelector,
	tokens service.TokenIssuer,
	sessionTTL time.Duration,
	publisher service.AuditPublisher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	opts := []service.Option{service.WithLogger(logger), service.WithMetrics(m)}
	if tokens != nil {
		opts = append(opts, service.WithTokenIssuer(tokens, sessionTTL))
	}
	if publisher != nil {
		opts = append(opts, service.WithAuditPublisher(publisher))
	}
	return service.New(store, issuer, selector, opts...)
}

// NewHandler mounts the lifecycle over HTTP. guard may be nil to disable login lockout.
func NewHandler(s *Service, guard handler.LoginGuard, logger *slog.Logger) *Handler {
	var opts []handler.Option
	if guard != nil {
		opts = append(opts, handler.WithLoginGuard(guard))
	}
	return handler.New(s, logger, opts...)
}

// NewDonorDirectory exposes approved donors to the ledger and the draw.
func NewDonorDirectory(finder adapters.ApplicationFinder) *DonorDirectory {
	return adapters.NewDonorDirectory(finder)
}
