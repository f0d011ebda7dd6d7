package mapper

import (
	"fmt"
	"time"

	"github.com/bloomhouse/admin-console/internal/catalog"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/shopspring/decimal"
)

// ToProductRow converts Product to ProductRow
func ToProductRow(product *domain.Product, f *pricing.Formatter) domain.ProductRow {
	row := domain.ProductRow{
		Product:              *product,
		OriginalPriceDisplay: f.Format(product.OriginalPrice.Float64()),
		SellingPriceDisplay:  f.Format(product.SellingPrice.Float64()),
		InStock:              product.Stock > 0,
		CreatedAtDisplay:     f.FormatDate(product.CreatedAt),
	}

	for _, c := range product.Categories {
		row.CategoryLabels = append(row.CategoryLabels, catalog.Label(c))
	}

	return row
}

// ToOrderRow converts Order to OrderRow
func ToOrderRow(order *domain.Order, f *pricing.Formatter) domain.OrderRow {
	count := 0
	for _, item := range order.Items {
		count += item.Quantity
	}

	return domain.OrderRow{
		Order:               *order,
		ItemCount:           count,
		TotalDisplay:        f.Format(order.TotalAmount.Float64()),
		CreatedAtDisplay:    f.FormatDateTime(order.CreatedAt),
		DeliveryDateDisplay: f.FormatDate(order.DeliveryDate),
	}
}

// ToClassRow converts Class to ClassRow
func ToClassRow(class *domain.Class, f *pricing.Formatter) domain.ClassRow {
	remaining := class.Capacity - class.EnrolledCount
	if remaining < 0 {
		remaining = 0
	}

	return domain.ClassRow{
		Class:          *class,
		DateDisplay:    f.FormatDay(class.Date),
		PriceDisplay:   f.Format(class.Price.Float64()),
		SeatsRemaining: remaining,
	}
}

// ToCouponRow converts Coupon to CouponRow. now decides whether the coupon has expired.
func ToCouponRow(coupon *domain.Coupon, f *pricing.Formatter, now time.Time) domain.CouponRow {
	row := domain.CouponRow{
		Coupon:           *coupon,
		MinOrderDisplay:  f.Format(coupon.MinOrderAmount.Float64()),
		ExpiresAtDisplay: f.FormatDate(coupon.ExpiresAt),
		Expired:          coupon.ExpiresAt != nil && coupon.ExpiresAt.Before(now),
	}

	if coupon.DiscountType == domain.DiscountTypePercentage {
		row.ValueDisplay = fmt.Sprintf("%g%%", coupon.DiscountValue.Float64())
	} else {
		row.ValueDisplay = f.Format(coupon.DiscountValue.Float64())
	}

	return row
}

// ToEventRow converts Event to EventRow
func ToEventRow(event *domain.Event, f *pricing.Formatter) domain.EventRow {
	minimum := event.BasePrice.Decimal().Add(event.PricePerGuest.Decimal().Mul(decimal.NewFromInt(int64(event.MinGuests))))

	return domain.EventRow{
		Event:                *event,
		BasePriceDisplay:     f.Format(event.BasePrice.Float64()),
		PricePerGuestDisplay: f.Format(event.PricePerGuest.Float64()),
		MinimumTotalDisplay:  f.FormatDecimal(minimum),
	}
}

// ToPayLaterRow converts PayLaterRecord to PayLaterRow
func ToPayLaterRow(record *domain.PayLaterRecord, f *pricing.Formatter) domain.PayLaterRow {
	return domain.PayLaterRow{
		PayLaterRecord: *record,
		AmountDisplay:  f.Format(record.Amount.Float64()),
		DueDateDisplay: f.FormatDate(record.DueDate),
		PaidAtDisplay:  f.FormatDateTime(record.PaidAt),
	}
}

// Rows maps a list with fn
func Rows[T, R any](items []T, fn func(*T) R) []R {
	out := make([]R, 0, len(items))
	for i := range items {
		out = append(out, fn(&items[i]))
	}
	return out
}
