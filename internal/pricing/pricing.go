// Package pricing computes discount previews for the product and coupon forms.
package pricing

import (
	"errors"

	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPercent = errors.New("discount percent must be between 0 and 100")
	ErrNegativePrice  = errors.New("price must not be negative")
)

var hundred = decimal.NewFromInt(100)

// SellingPrice applies a percentage discount: original - original*percent/100, rounded to cents
func SellingPrice(original, percent decimal.Decimal) (decimal.Decimal, error) {
	if original.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return decimal.Zero, ErrInvalidPercent
	}
	return original.Sub(original.Mul(percent).Div(hundred)).Round(2), nil
}

// ResolveSellingPrice returns explicit when the form supplied one, otherwise the discounted price
func ResolveSellingPrice(original, percent float64, explicit *float64) (float64, error) {
	if explicit != nil {
		if *explicit < 0 {
			return 0, ErrNegativePrice
		}
		return *explicit, nil
	}
	price, err := SellingPrice(decimal.NewFromFloat(original), decimal.NewFromFloat(percent))
	if err != nil {
		return 0, err
	}
	return price.InexactFloat64(), nil
}

// Preview computes the price panel shown beside the product form
func Preview(original, percent float64, f *Formatter) (domain.PricingPreview, error) {
	orig := decimal.NewFromFloat(original)
	selling, err := SellingPrice(orig, decimal.NewFromFloat(percent))
	if err != nil {
		return domain.PricingPreview{}, err
	}
	discount := orig.Sub(selling)

	return domain.PricingPreview{
		OriginalPrice:         orig.InexactFloat64(),
		DiscountPercent:       percent,
		DiscountAmount:        discount.InexactFloat64(),
		SellingPrice:          selling.InexactFloat64(),
		OriginalPriceDisplay:  f.FormatDecimal(orig),
		DiscountAmountDisplay: f.FormatDecimal(discount),
		SellingPriceDisplay:   f.FormatDecimal(selling),
	}, nil
}

// CouponDiscount applies a coupon to an order amount. The result never goes below zero.
func CouponDiscount(req domain.CouponPreviewRequest, f *Formatter) domain.CouponPreview {
	amount := decimal.NewFromFloat(req.OrderAmount)
	out := domain.CouponPreview{
		OrderAmount: amount.InexactFloat64(),
		FinalAmount: amount.InexactFloat64(),
	}

	if amount.LessThan(decimal.NewFromFloat(req.MinOrderAmount)) {
		out.Reason = "Order amount is below the coupon minimum of " + f.Format(req.MinOrderAmount)
		out.FinalDisplay = f.FormatDecimal(amount)
		return out
	}

	value := decimal.NewFromFloat(req.DiscountValue)
	var discount decimal.Decimal
	switch req.DiscountType {
	case domain.DiscountTypePercentage:
		discount = amount.Mul(decimal.Min(value, hundred)).Div(hundred).Round(2)
	default:
		discount = value
	}
	if discount.GreaterThan(amount) {
		discount = amount
	}

	final := amount.Sub(discount)
	out.Eligible = true
	out.DiscountAmount = discount.InexactFloat64()
	out.FinalAmount = final.InexactFloat64()
	out.FinalDisplay = f.FormatDecimal(final)
	return out
}
