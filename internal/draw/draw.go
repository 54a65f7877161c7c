package draw

import (
	"log/slog"
	"time"

	"donorhub/internal/draw/handler"
	"donorhub/internal/draw/metrics"
	"donorhub/internal/draw/scheduler"
	"donorhub/internal/draw/service"
)

// Service evaluates the prize-draw window and records draws.
type Service = service.Service

type Handler = handler.Handler

type Scheduler = scheduler.Scheduler

// NewService wires the draw scheduler logic. lottery and publisher may be nil.
func NewService(
	store service.Store,
	ledger service.Ledger,
	lottery service.LotteryDirectory,
	publisher service.AuditPublisher,
	period time.Duration,
	minPoints int,
	logger *slog.Logger,
	m *metrics.Metrics,
) (*Service, error) {
	opts := []service.Option{service.WithLogger(logger), service.WithMetrics(m)}
	if publisher != nil {
		opts = append(opts, service.WithAuditPublisher(publisher))
	}
	return service.New(store, ledger, lottery, period, minPoints, opts...)
}

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

// NewScheduler runs s.RunIfDue on the cron spec.
func NewScheduler(spec string, s *Service, logger *slog.Logger) (*Scheduler, error) {
	return scheduler.New(spec, s, logger)
}
