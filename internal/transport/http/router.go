package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"donorhub/pkg/platform/httputil"
	"donorhub/pkg/platform/middleware/metadata"
	request "donorhub/pkg/platform/middleware/request"
	"donorhub/pkg/platform/middleware/requesttime"
)

type Middleware = func(http.Handler) http.Handler

// HealthCheck probes one backing service. Checks run in order on GET /healthz.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type ApplicationRoutes interface {
	Register(r chi.Router, requireAdmin Middleware)
}

type IncentiveRoutes interface {
	Register(r chi.Router, requireAdmin, requireSession Middleware)
}

type DrawRoutes interface {
	Register(r chi.Router, requireAdmin func(http.Handler) http.Handler)
}

type AppointmentRoutes interface {
	Register(r chi.Router)
}

// Deps is everything NewRouter mounts. Gatherer defaults to the global registry.
type Deps struct {
	Logger         *slog.Logger
	Applications   ApplicationRoutes
	Incentives     IncentiveRoutes
	Draw           DrawRoutes
	Appointments   AppointmentRoutes
	RequireAdmin   Middleware
	RequireSession Middleware
	Gatherer       prometheus.Gatherer
	HealthChecks   []HealthCheck
	HealthTimeout  time.Duration
}

// NewRouter builds the chi router with the request middleware chain applied
// to every route.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Recovery(d.Logger))
	r.Use(request.Logger(d.Logger))

	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", healthHandler(d.HealthChecks, d.HealthTimeout, d.Logger))

	r.Group(func(r chi.Router) {
		r.Use(request.ContentTypeJSON)
		d.Applications.Register(r, d.RequireAdmin)
		d.Incentives.Register(r, d.RequireAdmin, d.RequireSession)
		d.Draw.Register(r, d.RequireAdmin)
		d.Appointments.Register(r)
	})
	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func healthHandler(checks []HealthCheck, timeout time.Duration, logger *slog.Logger) http.HandlerFunc {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(checks))}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				logger.WarnContext(ctx, "health check failed",
					"check", c.Name,
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				resp.Checks[c.Name] = "unavailable"
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
