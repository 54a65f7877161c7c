package appointment

import (
	"log/slog"

	"donorhub/internal/appointment/handler"
	"donorhub/internal/appointment/service"
)

// Selector validates region and facility choices.
type Selector = service.Selector

// Handler exposes the selector over HTTP.
type Handler = handler.Handler

func NewSelector(logger *slog.Logger) *Selector {
	return service.New(service.WithLogger(logger))
}

func NewHandler(s *Selector, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
