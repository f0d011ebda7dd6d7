package service

import (
	"context"
	"strings"
	"time"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/bloomhouse/admin-console/internal/upstream"
	"go.uber.org/zap"
)

// CouponService manages discount coupons
type CouponService struct {
	coupons   collection[domain.Coupon]
	formatter *pricing.Formatter
	logger    *zap.Logger
}

// NewCouponService creates a new coupon service
func NewCouponService(client *upstream.Client, formatter *pricing.Formatter, logger *zap.Logger) *CouponService {
	return &CouponService{
		coupons:   newCollection[domain.Coupon](client, upstream.PathCoupons, "coupon", logger),
		formatter: formatter,
		logger:    logger,
	}
}

// List returns all coupons
func (s *CouponService) List(ctx context.Context) ([]domain.Coupon, error) {
	return s.coupons.list(ctx, nil)
}

// Create adds a coupon. Codes are stored upper-case.
func (s *CouponService) Create(ctx context.Context, req *domain.CouponRequest) (*MutationResult[domain.Coupon], error) {
	payload := couponPayloadFrom(req)

	result, err := s.coupons.create(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("coupon created", zap.String("code", payload.Code))
	return result, nil
}

// Update replaces a coupon
func (s *CouponService) Update(ctx context.Context, id domain.ID, req *domain.CouponRequest) (*MutationResult[domain.Coupon], error) {
	result, err := s.coupons.update(ctx, id, couponPayloadFrom(req))
	if err != nil {
		return nil, err
	}

	s.logger.Info("coupon updated", zap.String("coupon_id", id.String()))
	return result, nil
}

// Toggle flips a coupon between active and inactive
func (s *CouponService) Toggle(ctx context.Context, id domain.ID) (*MutationResult[domain.Coupon], error) {
	current, err := s.coupons.get(ctx, id)
	if err != nil {
		return nil, err
	}

	payload := couponPayloadFromRecord(current)
	payload.IsActive = !current.IsActive

	result, err := s.coupons.update(ctx, id, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info("coupon toggled",
		zap.String("coupon_id", id.String()),
		zap.Bool("active", payload.IsActive))
	return result, nil
}

// Delete removes a coupon
func (s *CouponService) Delete(ctx context.Context, id domain.ID) (*MutationResult[domain.Coupon], error) {
	result, err := s.coupons.delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("coupon deleted", zap.String("coupon_id", id.String()))
	return result, nil
}

// Preview shows what a coupon takes off an order amount
func (s *CouponService) Preview(req *domain.CouponPreviewRequest) domain.CouponPreview {
	return pricing.CouponDiscount(*req, s.formatter)
}

type couponPayload struct {
	Code           string              `json:"code"`
	Description    string              `json:"description"`
	DiscountType   domain.DiscountType `json:"discountType"`
	DiscountValue  float64             `json:"discountValue"`
	MinOrderAmount float64             `json:"minOrderAmount"`
	MaxUses        int                 `json:"maxUses"`
	ExpiresAt      *time.Time          `json:"expiresAt,omitempty"`
	IsActive       bool                `json:"isActive"`
}

func couponPayloadFrom(req *domain.CouponRequest) *couponPayload {
	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	return &couponPayload{
		Code:           strings.ToUpper(strings.TrimSpace(req.Code)),
		Description:    req.Description,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MinOrderAmount: req.MinOrderAmount,
		MaxUses:        req.MaxUses,
		ExpiresAt:      req.ExpiresAt,
		IsActive:       isActive,
	}
}

func couponPayloadFromRecord(c *domain.Coupon) *couponPayload {
	return &couponPayload{
		Code:           c.Code,
		Description:    c.Description,
		DiscountType:   c.DiscountType,
		DiscountValue:  c.DiscountValue.Float64(),
		MinOrderAmount: c.MinOrderAmount.Float64(),
		MaxUses:        c.MaxUses,
		ExpiresAt:      c.ExpiresAt,
		IsActive:       c.IsActive,
	}
}
