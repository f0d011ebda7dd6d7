package handler

import (
	"net/http"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/mapper"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// OrderHandler handles HTTP requests for the orders panel
type OrderHandler struct {
	orderService *service.OrderService
	formatter    *pricing.Formatter
	logger       *zap.Logger
}

func NewOrderHandler(orderService *service.OrderService, formatter *pricing.Formatter, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		formatter:    formatter,
		logger:       logger,
	}
}

func (h *OrderHandler) row(o *domain.Order) domain.OrderRow {
	return mapper.ToOrderRow(o, h.formatter)
}

// List godoc
// @Summary List orders
// @Tags Orders
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, processing, shipped, delivered, cancelled)
// @Success 200 {object} domain.Envelope{items=[]domain.OrderRow}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders [get]
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.OrderStatus(r.URL.Query().Get("status"))

	orders, err := h.orderService.List(r.Context(), status)
	if err != nil {
		respondFailure(w, h.logger, "load orders", err)
		return
	}

	respondList(w, mapper.Rows(orders, h.row))
}

// Get godoc
// @Summary Get order
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Envelope{data=domain.OrderRow}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderService.Get(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "load order", err)
		return
	}

	respondJSON(w, http.StatusOK, domain.Envelope{Data: h.row(order)})
}

// UpdateStatus godoc
// @Summary Change order status
// @Tags Orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param request body domain.OrderStatusRequest true "New status"
// @Success 200 {object} domain.Envelope{data=domain.OrderRow,items=[]domain.OrderRow}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req domain.OrderStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.orderService.UpdateStatus(r.Context(), idParam(r), &req)
	if err != nil {
		respondFailure(w, h.logger, "update order status", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Order status updated")
}

// Delete godoc
// @Summary Delete order
// @Tags Orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Envelope{items=[]domain.OrderRow}
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.orderService.Delete(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "delete order", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Order deleted")
}
