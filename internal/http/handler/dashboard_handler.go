package handler

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetSummary godoc
// @Summary Get dashboard counts
// @Description Counts across the panels, fetched concurrently from the business API.
// @Description
// @Description - `outOfStock`: products with stock of zero or less
// @Description - `upcomingClasses`: classes dated today or later
// @Description - `activeCoupons`: active coupons that have not expired
// @Description - `payLaterOverdue`: overdue records, or pending records past their due date
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.Envelope{data=domain.DashboardSummary}
// @Failure 502 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard [get]
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardService.Summary(r.Context())
	if err != nil {
		respondFailure(w, h.logger, "load dashboard", err)
		return
	}

	respondJSON(w, http.StatusOK, envelopeOf(summary))
}
