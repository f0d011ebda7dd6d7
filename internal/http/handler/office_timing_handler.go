package handler

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// OfficeTimingHandler handles HTTP requests for the office hours panel
type OfficeTimingHandler struct {
	timingService *service.OfficeTimingService
	logger        *zap.Logger
}

func NewOfficeTimingHandler(timingService *service.OfficeTimingService, logger *zap.Logger) *OfficeTimingHandler {
	return &OfficeTimingHandler{timingService: timingService, logger: logger}
}

// List godoc
// @Summary List office hours
// @Description Returns the weekly opening hours, Monday first.
// @Tags OfficeHours
// @Produce json
// @Success 200 {object} domain.Envelope{items=[]domain.OfficeTiming}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /office-hours [get]
func (h *OfficeTimingHandler) List(w http.ResponseWriter, r *http.Request) {
	timings, err := h.timingService.List(r.Context())
	if err != nil {
		respondFailure(w, h.logger, "load office hours", err)
		return
	}

	respondList(w, timings)
}

// Update godoc
// @Summary Update one day's office hours
// @Tags OfficeHours
// @Accept json
// @Produce json
// @Param id path string true "Office timing ID"
// @Param request body domain.OfficeTimingRequest true "Opening window"
// @Success 200 {object} domain.Envelope{data=domain.OfficeTiming,items=[]domain.OfficeTiming}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /office-hours/{id} [put]
func (h *OfficeTimingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.OfficeTimingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.timingService.Update(r.Context(), idParam(r), &req)
	if err != nil {
		respondFailure(w, h.logger, "update office hours", err)
		return
	}

	respondMutation(w, http.StatusOK, result, identity[domain.OfficeTiming], "Office hours updated")
}
