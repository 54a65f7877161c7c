package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	identifier "donorhub/internal/identifier/models"
	"donorhub/internal/incentive/models"
	id "donorhub/pkg/domain"
	dErrors "donorhub/pkg/domain-errors"
	"donorhub/pkg/platform/httputil"
	request "donorhub/pkg/platform/middleware/request"
	"donorhub/pkg/requestcontext"
)

// Service is the points ledger as seen by HTTP.
type Service interface {
	RecordAction(ctx context.Context, req models.RecordRequest) (*models.Entry, models.Summary, error)
	Summary(ctx context.Context, donorID string) (models.Summary, error)
	Ledger(ctx context.Context, donorID string) ([]models.Entry, error)
	FlagShortage(ctx context.Context, bloodType id.BloodType, actorID id.ActorID) (models.ShortageFlag, error)
	ClearShortage(ctx context.Context, bloodType id.BloodType, actorID id.ActorID) error
	Shortages(ctx context.Context) ([]models.ShortageFlag, error)
}

type Middleware = func(http.Handler) http.Handler

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts public, staff and donor-session routes. requireAdmin and
// requireSession are applied to their groups only.
func (h *Handler) Register(r chi.Router, requireAdmin, requireSession Middleware) {
	r.Get("/shortages", h.handleListShortages)

	r.Group(func(r chi.Router) {
		r.Use(requireAdmin)
		r.Post("/donations", h.handleRecord)
		r.Get("/donors/{donorID}/standing", h.handleStanding)
		r.Get("/donors/{donorID}/ledger", h.handleLedger)
		r.Post("/admin/shortages/{bloodType}", h.handleFlag)
		r.Delete("/admin/shortages/{bloodType}", h.handleClear)
	})

	r.Group(func(r chi.Router) {
		r.Use(requireSession)
		r.Get("/me/standing", h.handleMyStanding)
	})
}

type recordRequest struct {
	DonorID      string     `json:"donor_id"`
	Action       string     `json:"action"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
	ShortageFlag bool       `json:"shortage_flag"`
}

// recordResponse flattens the updated summary next to the new entry.
type recordResponse struct {
	Entry *models.Entry `json:"entry"`
	models.Summary
}

type ledgerResponse struct {
	DonorID string         `json:"donor_id"`
	Entries []models.Entry `json:"entries"`
}

type shortagesResponse struct {
	Shortages []models.ShortageFlag `json:"shortages"`
}

func (h *Handler) handleRecord(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req recordRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	action, err := models.ParseActionKind(req.Action)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	record := models.RecordRequest{DonorID: req.DonorID, Action: action, ShortageFlag: req.ShortageFlag}
	if req.Timestamp != nil {
		record.Timestamp = *req.Timestamp
	}

	entry, summary, err := h.service.RecordAction(ctx, record)
	if err != nil {
		h.logger.WarnContext(ctx, "record action failed",
			"request_id", request.GetRequestID(ctx),
			"donor_id", req.DonorID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, recordResponse{Entry: entry, Summary: summary})
}

func (h *Handler) handleStanding(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context(), chi.URLParam(r, "donorID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleLedger(w http.ResponseWriter, r *http.Request) {
	donorID := chi.URLParam(r, "donorID")
	entries, err := h.service.Ledger(r.Context(), donorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ledgerResponse{DonorID: donorID, Entries: entries})
}

// handleMyStanding serves the signed-in donor. Hospital sessions have no standing.
func (h *Handler) handleMyStanding(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	subject := requestcontext.Subject(ctx)
	if _, err := identifier.ParseKind(identifier.KindDonor, subject); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "only donors have a standing"))
		return
	}
	summary, err := h.service.Summary(ctx, subject)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, summary)
}

func (h *Handler) handleListShortages(w http.ResponseWriter, r *http.Request) {
	flags, err := h.service.Shortages(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, shortagesResponse{Shortages: flags})
}

func (h *Handler) handleFlag(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bloodType, err := id.ParseBloodType(chi.URLParam(r, "bloodType"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	flag, err := h.service.FlagShortage(ctx, bloodType, requestcontext.ActorID(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, flag)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	bloodType, err := id.ParseBloodType(chi.URLParam(r, "bloodType"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.ClearShortage(ctx, bloodType, requestcontext.ActorID(ctx)); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
