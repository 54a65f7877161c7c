package identifier

import (
	"log/slog"

	"donorhub/internal/identifier/metrics"
	"donorhub/internal/identifier/models"
	"donorhub/internal/identifier/service"
)

// Service issues donor, hospital and lottery identifiers.
type Service = service.Service

type Identifier = models.Identifier

// NewService constructs the issuer over a durable store.
func NewService(store service.Store, logger *slog.Logger, m *metrics.Metrics) *Service {
	return service.New(store, service.WithLogger(logger), service.WithMetrics(m))
}
