package lockout

import (
	"log/slog"

	"donorhub/internal/lockout/metrics"
	"donorhub/internal/lockout/models"
	"donorhub/internal/lockout/service"
)

// Service throttles repeated failed logins per email and client address.
type Service = service.Service

type Policy = models.Policy

// NewService wires the lockout over its store. publisher may be nil.
func NewService(store service.Store, policy Policy, publisher service.AuditPublisher, logger *slog.Logger, m *metrics.Metrics) *Service {
	opts := []service.Option{service.WithPolicy(policy), service.WithLogger(logger), service.WithMetrics(m)}
	if publisher != nil {
		opts = append(opts, service.WithAuditPublisher(publisher))
	}
	return service.New(store, opts...)
}
