package handler

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/mapper"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// PayLaterHandler handles HTTP requests for the pay-later panel
type PayLaterHandler struct {
	payLaterService *service.PayLaterService
	formatter       *pricing.Formatter
	logger          *zap.Logger
}

func NewPayLaterHandler(payLaterService *service.PayLaterService, formatter *pricing.Formatter, logger *zap.Logger) *PayLaterHandler {
	return &PayLaterHandler{payLaterService: payLaterService, formatter: formatter, logger: logger}
}

func (h *PayLaterHandler) row(p *domain.PayLaterRecord) domain.PayLaterRow {
	return mapper.ToPayLaterRow(p, h.formatter)
}

// List godoc
// @Summary List pay-later records
// @Tags PayLater
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, paid, overdue)
// @Success 200 {object} domain.Envelope{items=[]domain.PayLaterRow}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pay-later [get]
func (h *PayLaterHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.PayLaterStatus(r.URL.Query().Get("status"))
	switch status {
	case "", domain.PayLaterStatusPending, domain.PayLaterStatusPaid, domain.PayLaterStatusOverdue:
	default:
		respondWithError(w, http.StatusBadRequest, "Unknown pay-later status")
		return
	}

	records, err := h.payLaterService.List(r.Context(), status)
	if err != nil {
		respondFailure(w, h.logger, "load pay-later records", err)
		return
	}

	respondList(w, mapper.Rows(records, h.row))
}

// MarkPaid godoc
// @Summary Mark pay-later record as paid
// @Tags PayLater
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} domain.Envelope{data=domain.PayLaterRow,items=[]domain.PayLaterRow}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pay-later/{id}/paid [post]
func (h *PayLaterHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	result, err := h.payLaterService.MarkPaid(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "mark payment as paid", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Payment marked as paid")
}

// Delete godoc
// @Summary Delete pay-later record
// @Tags PayLater
// @Produce json
// @Param id path string true "Record ID"
// @Success 200 {object} domain.Envelope{items=[]domain.PayLaterRow}
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /pay-later/{id} [delete]
func (h *PayLaterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.payLaterService.Delete(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "delete pay-later record", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Pay-later record deleted")
}
