package handler

import (
	"net/http"
	"time"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/mapper"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/service"
	"go.uber.org/zap"
)

// CouponHandler handles HTTP requests for the coupons panel
type CouponHandler struct {
	couponService *service.CouponService
	formatter     *pricing.Formatter
	now           func() time.Time
	logger        *zap.Logger
}

func NewCouponHandler(couponService *service.CouponService, formatter *pricing.Formatter, logger *zap.Logger) *CouponHandler {
	return &CouponHandler{
		couponService: couponService,
		formatter:     formatter,
		now:           time.Now,
		logger:        logger,
	}
}

func (h *CouponHandler) row(c *domain.Coupon) domain.CouponRow {
	return mapper.ToCouponRow(c, h.formatter, h.now())
}

// List godoc
// @Summary List coupons
// @Tags Coupons
// @Produce json
// @Success 200 {object} domain.Envelope{items=[]domain.CouponRow}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /coupons [get]
func (h *CouponHandler) List(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.couponService.List(r.Context())
	if err != nil {
		respondFailure(w, h.logger, "load coupons", err)
		return
	}

	respondList(w, mapper.Rows(coupons, h.row))
}

// Create godoc
// @Summary Create coupon
// @Description The coupon code is required and stored upper-case.
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body domain.CouponRequest true "Coupon form"
// @Success 201 {object} domain.Envelope{data=domain.CouponRow,items=[]domain.CouponRow}
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /coupons [post]
func (h *CouponHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CouponRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.couponService.Create(r.Context(), &req)
	if err != nil {
		respondFailure(w, h.logger, "create coupon", err)
		return
	}

	respondMutation(w, http.StatusCreated, result, h.row, "Coupon created")
}

// Update godoc
// @Summary Update coupon
// @Tags Coupons
// @Accept json
// @Produce json
// @Param id path string true "Coupon ID"
// @Param request body domain.CouponRequest true "Coupon form"
// @Success 200 {object} domain.Envelope{data=domain.CouponRow,items=[]domain.CouponRow}
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /coupons/{id} [put]
func (h *CouponHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.CouponRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.couponService.Update(r.Context(), idParam(r), &req)
	if err != nil {
		respondFailure(w, h.logger, "update coupon", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Coupon updated")
}

// Toggle godoc
// @Summary Activate or deactivate coupon
// @Tags Coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} domain.Envelope{data=domain.CouponRow,items=[]domain.CouponRow}
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /coupons/{id}/toggle [post]
func (h *CouponHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	result, err := h.couponService.Toggle(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "update coupon", err)
		return
	}

	message := "Coupon deactivated"
	if result.Record != nil && result.Record.IsActive {
		message = "Coupon activated"
	}
	respondMutation(w, http.StatusOK, result, h.row, message)
}

// Delete godoc
// @Summary Delete coupon
// @Tags Coupons
// @Produce json
// @Param id path string true "Coupon ID"
// @Success 200 {object} domain.Envelope{items=[]domain.CouponRow}
// @Failure 403 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /coupons/{id} [delete]
func (h *CouponHandler) Delete(w http.ResponseWriter, r *http.Request) {
	result, err := h.couponService.Delete(r.Context(), idParam(r))
	if err != nil {
		respondFailure(w, h.logger, "delete coupon", err)
		return
	}

	respondMutation(w, http.StatusOK, result, h.row, "Coupon deleted")
}

// Preview godoc
// @Summary Preview coupon discount
// @Description Applies a percentage or fixed discount to an order amount. The result is never below zero.
// @Tags Coupons
// @Accept json
// @Produce json
// @Param request body domain.CouponPreviewRequest true "Coupon and order amount"
// @Success 200 {object} domain.Envelope{data=domain.CouponPreview}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /coupons/preview [post]
func (h *CouponHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req domain.CouponPreviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	respondJSON(w, http.StatusOK, domain.Envelope{Data: h.couponService.Preview(&req)})
}
