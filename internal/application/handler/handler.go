package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"donorhub/internal/application/models"
	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
	"donorhub/pkg/platform/httputil"
	request "donorhub/pkg/platform/middleware/request"
	"donorhub/pkg/requestcontext"
)

// Service is the application lifecycle as seen by HTTP.
type Service interface {
	RegisterDonor(ctx context.Context, req models.DonorRegistration) (*models.RegistrationResult, error)
	RegisterHospital(ctx context.Context, req models.HospitalRegistration) (*models.RegistrationResult, error)
	Authenticate(ctx context.Context, email, password string) (*models.LoginResult, error)
	Get(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	Decide(ctx context.Context, appID id.ApplicationID, decision models.Decision, actorID id.ActorID, reason string) (*models.Application, error)
	Edit(ctx context.Context, appID id.ApplicationID, actorID id.ActorID, edit models.Edit) (*models.EditResult, error)
	Delete(ctx context.Context, appID id.ApplicationID, actorID id.ActorID) error
	Directory(ctx context.Context, kind models.Kind, bloodType id.BloodType, region string) ([]*models.Application, error)
	Queue(ctx context.Context, kind models.Kind, status models.Status) ([]*models.Application, error)
}

// LoginGuard refuses logins after repeated failures from one email and address.
type LoginGuard interface {
	Check(ctx context.Context, email, ip string) error
	RecordFailure(ctx context.Context, email, ip string) error
	Clear(ctx context.Context, email, ip string) error
}

type Middleware = func(http.Handler) http.Handler

type Handler struct {
	service Service
	guard   LoginGuard
	logger  *slog.Logger
}

type Option func(*Handler)

// WithLoginGuard enables login lockout.
func WithLoginGuard(guard LoginGuard) Option {
	return func(h *Handler) { h.guard = guard }
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts sign-up and login publicly and everything else behind requireAdmin.
func (h *Handler) Register(r chi.Router, requireAdmin Middleware) {
	r.Post("/registrations/donors", h.handleRegisterDonor)
	r.Post("/registrations/hospitals", h.handleRegisterHospital)
	r.Post("/auth/login", h.handleLogin)
	r.Get("/hospitals", h.handleHospitalDirectory)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Get("/admin/applications", h.handleQueue)
		r.Get("/admin/applications/{applicationID}", h.handleGet)
		r.Put("/admin/applications/{applicationID}", h.handleEdit)
		r.Delete("/admin/applications/{applicationID}", h.handleDelete)
		r.Post("/admin/applications/{applicationID}/decision", h.handleDecision)
		r.Get("/admin/donors", h.handleDonorDirectory)
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type decisionRequest struct {
	Decision string      `json:"decision"`
	ActorID  *id.ActorID `json:"actor_id,omitempty"`
	Reason   string      `json:"reason,omitempty"`
}

type decisionResponse struct {
	ApplicationID id.ApplicationID `json:"application_id"`
	Identifier    string           `json:"identifier"`
	Status        models.Status    `json:"status"`
}

type listResponse struct {
	Applications []*models.Application `json:"applications"`
}

func (h *Handler) handleRegisterDonor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.DonorRegistration
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.RegisterDonor(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "donor registration failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

func (h *Handler) handleRegisterHospital(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.HospitalRegistration
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.RegisterHospital(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "hospital registration failed",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, res)
}

// handleLogin counts only wrong credentials against the guard. Pending or
// rejected applicants get their own error and are not throttled for it.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req loginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	ip := requestcontext.ClientIP(ctx)
	if h.guard != nil {
		if err := h.guard.Check(ctx, req.Email, ip); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	res, err := h.service.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		if h.guard != nil && dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			if gerr := h.guard.RecordFailure(ctx, req.Email, ip); gerr != nil {
				h.logger.ErrorContext(ctx, "failed to record login failure",
					"request_id", request.GetRequestID(ctx),
					"error", gerr,
				)
			}
		}
		httputil.WriteError(w, err)
		return
	}
	if h.guard != nil {
		if err := h.guard.Clear(ctx, req.Email, ip); err != nil {
			h.logger.ErrorContext(ctx, "failed to clear login lockout",
				"request_id", request.GetRequestID(ctx),
				"error", err,
			)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	app, err := h.service.Get(r.Context(), appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

// handleDecision takes the actor from the body, falling back to the staff
// actor the admin middleware put on the context.
func (h *Handler) handleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req decisionRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	decision, err := models.ParseDecision(req.Decision)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	actorID := requestcontext.ActorID(ctx)
	if req.ActorID != nil {
		actorID = *req.ActorID
	}

	app, err := h.service.Decide(ctx, appID, decision, actorID, req.Reason)
	if err != nil {
		h.logger.WarnContext(ctx, "application decision failed",
			"request_id", request.GetRequestID(ctx),
			"application_id", appID.String(),
			"decision", decision,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, decisionResponse{
		ApplicationID: app.ID,
		Identifier:    app.Identifier,
		Status:        app.Status,
	})
}

func (h *Handler) handleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var edit models.Edit
	if err := httputil.DecodeJSON(r, &edit); err != nil {
		httputil.WriteError(w, err)
		return
	}
	res, err := h.service.Edit(ctx, appID, requestcontext.ActorID(ctx), edit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, res)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(ctx, appID, requestcontext.ActorID(ctx)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleQueue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		kind   models.Kind
		status = models.StatusPending
		err    error
	)
	if raw := q.Get("kind"); raw != "" {
		if kind, err = models.ParseKind(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	if raw := q.Get("status"); raw != "" {
		if status, err = models.ParseStatus(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	apps, err := h.service.Queue(r.Context(), kind, status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Applications: apps})
}

func (h *Handler) handleDonorDirectory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var bloodType id.BloodType
	if raw := q.Get("blood_type"); raw != "" {
		parsed, err := id.ParseBloodType(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		bloodType = parsed
	}
	h.writeDirectory(w, r, models.KindDonor, bloodType, q.Get("region"))
}

func (h *Handler) handleHospitalDirectory(w http.ResponseWriter, r *http.Request) {
	h.writeDirectory(w, r, models.KindHospital, "", r.URL.Query().Get("region"))
}

func (h *Handler) writeDirectory(w http.ResponseWriter, r *http.Request, kind models.Kind, bloodType id.BloodType, region string) {
	apps, err := h.service.Directory(r.Context(), kind, bloodType, region)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, listResponse{Applications: apps})
}
