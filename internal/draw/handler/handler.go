package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"donorhub/internal/draw/models"
	dErrors "donorhub/pkg/domain-errors"
	"donorhub/pkg/platform/httputil"
	request "donorhub/pkg/platform/middleware/request"
)

type Service interface {
	Status(ctx context.Context) (models.Status, error)
	RunNow(ctx context.Context) (*models.Record, error)
	History(ctx context.Context, limit int) ([]models.Record, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router, requireAdmin func(http.Handler) http.Handler) {
	r.Get("/draw/status", h.handleStatus)
	r.Get("/draw/history", h.handleHistory)
	r.With(requireAdmin).Post("/admin/draw/run", h.handleRun)
}

type historyResponse struct {
	Draws []models.Record `json:"draws"`
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = n
	}
	records, err := h.service.History(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if records == nil {
		records = []models.Record{}
	}
	httputil.WriteJSON(w, http.StatusOK, historyResponse{Draws: records})
}

func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	record, err := h.service.RunNow(ctx)
	if err != nil {
		h.logger.InfoContext(ctx, "manual draw refused",
			"request_id", request.GetRequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, record)
}
