package handler

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/mapper"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// EventPricingHandler handles HTTP requests for the event pricing panel
type EventPricingHandler struct {
	eventService *service.EventPricingService
	formatter    *pricing.Formatter
	logger       *zap.Logger
}

func NewEventPricingHandler(eventService *service.EventPricingService, formatter *pricing.Formatter, logger *zap.Logger) *EventPricingHandler {
	return &EventPricingHandler{eventService: eventService, formatter: formatter, logger: logger}
}

func (h *EventPricingHandler) row(e *domain.Event) domain.EventRow {
	return mapper.ToEventRow(e, h.formatter)
}

// List godoc
// @Summary List event packages
// @Tags EventPricing
// @Produce json
// @Success 200 {object} domain.Envelope{items=[]domain.EventRow}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /event-pricing [get]
func (h *EventPricingHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.eventService.List(r.Context())
	if err != nil {
		respondFailure(w, h.logger, "load event pricing", err)
		return
	}

	respondList(w, mapper.Rows(events, h.row))
}

// Create godoc
// @Summary Create event package
// @Tags EventPricing
// @Accept json
// @Produce json
// @Param request body domain.EventRequest true "Event pricing form"
// @Success 201 {object} domain.Envelope{data=domain.EventRow,items=[]domain.EventRow}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /event-pricing [post]
func (h *EventPricingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.EventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.eventService.Create(r.Context(), &req)
	if err != nil {
		respondFailure(w, h.logger, "create event pricing", err)
		return
	}

	respondMutation(w, http.StatusCreated, result, h.row, "Event pricing created")
}

// Update godoc
// @Summary Update event package
// @Tags EventPricing
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body domain.EventRequest true "Event pricing form"
// @Success 200 {object} domain.Envelope{data=domain.EventRow,items=[]domain.EventRow}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /event-pricing/{id} [put]
func (h *EventPricingHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.EventRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.eventService.Update(r.Context(), idParam(r), &req)
	if err != nil {
		respondFailure(w, h.logger, "update event pricing", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Event pricing updated")
}

// Delete godoc
// @Summary Delete event package
// @Tags EventPricing
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} domain.Envelope{items=[]domain.EventRow}
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /event-pricing/{id} [delete]
func (h *EventPricingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.eventService.Delete(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "delete event pricing", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Event pricing deleted")
}
