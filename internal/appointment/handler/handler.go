package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"donorhub/internal/appointment/models"
	dErrors "donorhub/pkg/domain-errors"
	"donorhub/pkg/platform/httputil"
	request "donorhub/pkg/platform/middleware/request"
)

// Service is the appointment selector as seen by HTTP.
type Service interface {
	Regions() []models.Region
	ResolveRegion(name string) (models.Region, error)
	SelectRegion(region models.Region) ([]models.Facility, error)
	OnRegionChanged(sel models.Selection, newRegion models.Region) (models.Selection, error)
	Validate(sel models.Selection) (models.Selection, error)
}

type Handler struct {
	selector Service
	logger   *slog.Logger
}

func New(selector Service, logger *slog.Logger) *Handler {
	return &Handler{selector: selector, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/appointments/regions", h.handleListRegions)
	r.Get("/appointments/regions/{region}/facilities", h.handleListFacilities)
	r.Post("/appointments/selection", h.handleSelect)
	r.Post("/appointments/selection/region-change", h.handleRegionChange)
}

type regionsResponse struct {
	Regions []models.Region `json:"regions"`
}

type facilitiesResponse struct {
	Region     models.Region     `json:"region"`
	Facilities []models.Facility `json:"facilities"`
}

type selectionResponse struct {
	Selection       models.Selection  `json:"selection"`
	Facilities      []models.Facility `json:"facilities"`
	FacilityCleared bool              `json:"facility_cleared,omitempty"`
}

type regionChangeRequest struct {
	Selection models.Selection `json:"selection"`
	NewRegion string           `json:"new_region"`
}

func (h *Handler) handleListRegions(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, regionsResponse{Regions: h.selector.Regions()})
}

func (h *Handler) handleListFacilities(w http.ResponseWriter, r *http.Request) {
	region, err := h.selector.ResolveRegion(chi.URLParam(r, "region"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	facilities, err := h.selector.SelectRegion(region)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, facilitiesResponse{Region: region, Facilities: facilities})
}

// handleSelect validates a full selection. With no facility it returns the region's choices.
func (h *Handler) handleSelect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var sel models.Selection
	if err := httputil.DecodeJSON(r, &sel); err != nil {
		httputil.WriteError(w, err)
		return
	}
	validated, err := h.selector.Validate(sel)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeFacilityNotInRegion) {
			h.logger.InfoContext(ctx, "appointment facility rejected",
				"request_id", request.GetRequestID(ctx),
				"region", sel.Region,
				"facility", sel.Facility,
			)
		}
		httputil.WriteError(w, err)
		return
	}
	facilities, err := h.selector.SelectRegion(validated.Region)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, selectionResponse{Selection: validated, Facilities: facilities})
}

func (h *Handler) handleRegionChange(w http.ResponseWriter, r *http.Request) {
	var req regionChangeRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	current, err := h.selector.Validate(req.Selection)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	newRegion, err := h.selector.ResolveRegion(req.NewRegion)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	changed, err := h.selector.OnRegionChanged(current, newRegion)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	facilities, err := h.selector.SelectRegion(newRegion)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, selectionResponse{
		Selection:       changed,
		Facilities:      facilities,
		FacilityCleared: current.HasFacility() && !changed.HasFacility(),
	})
}
