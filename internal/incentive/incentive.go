package incentive

import (
	"log/slog"

	"donorhub/internal/incentive/handler"
	"donorhub/internal/incentive/metrics"
	"donorhub/internal/incentive/service"
)

// Service records point-earning actions and manages the shortage board.
type Service = service.Service

type Handler = handler.Handler

// NewService wires the ledger over its stores. publisher may be nil.
func NewService(
	ledger service.LedgerStore,
	board service.ShortageBoard,
	donors service.DonorDirectory,
	publisher service.AuditPublisher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	opts := []service.Option{service.WithLogger(logger), service.WithMetrics(m)}
	if publisher != nil {
		opts = append(opts, service.WithAuditPublisher(publisher))
	}
	return service.New(ledger, board, donors, opts...)
}

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
