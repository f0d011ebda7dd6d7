package handler

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// ImpactHandler handles HTTP requests for the impact statistics panel
type ImpactHandler struct {
	impactService *service.ImpactService
	logger        *zap.Logger
}

func NewImpactHandler(impactService *service.ImpactService, logger *zap.Logger) *ImpactHandler {
	return &ImpactHandler{impactService: impactService, logger: logger}
}

// List godoc
// @Summary List impact statistics
// @Tags Impacts
// @Produce json
// @Success 200 {object} domain.Envelope{items=[]domain.Impact}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /impacts [get]
func (h *ImpactHandler) List(w http.ResponseWriter, r *http.Request) {
	impacts, err := h.impactService.List(r.Context())
	if err != nil {
		respondFailure(w, h.logger, "load impacts", err)
		return
	}

	respondList(w, impacts)
}

// Create godoc
// @Summary Create impact statistic
// @Tags Impacts
// @Accept json
// @Produce json
// @Param request body domain.ImpactRequest true "Impact form"
// @Success 201 {object} domain.Envelope{data=domain.Impact,items=[]domain.Impact}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /impacts [post]
func (h *ImpactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.ImpactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.impactService.Create(r.Context(), &req)
	if err != nil {
		respondFailure(w, h.logger, "create impact", err)
		return
	}

	respondMutation(w, http.StatusCreated, result, identity[domain.Impact], "Impact created")
}

// Update godoc
// @Summary Update impact statistic
// @Tags Impacts
// @Accept json
// @Produce json
// @Param id path string true "Impact ID"
// @Param request body domain.ImpactRequest true "Impact form"
// @Success 200 {object} domain.Envelope{data=domain.Impact,items=[]domain.Impact}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /impacts/{id} [put]
func (h *ImpactHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.ImpactRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.impactService.Update(r.Context(), idParam(r), &req)
	if err != nil {
		respondFailure(w, h.logger, "update impact", err)
		return
	}

	respondMutation(w, http.StatusOK, result, identity[domain.Impact], "Impact updated")
}

// Delete godoc
// @Summary Delete impact statistic
// @Tags Impacts
// @Produce json
// @Param id path string true "Impact ID"
// @Success 200 {object} domain.Envelope{items=[]domain.Impact}
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /impacts/{id} [delete]
func (h *ImpactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.impactService.Delete(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "delete impact", err)
		return
	}

	respondMutation(w, http.StatusOK, result, identity[domain.Impact], "Impact deleted")
}
