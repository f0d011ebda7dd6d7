package pricing_test

import (
	"testing"
	"time"

	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/bloomhouse/admin-console/internal/domain"
	"github.com/bloomhouse/admin-console/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFormatter(t *testing.T, currency, symbol string) *pricing.Formatter {
	t.Helper()
	f, err := pricing.NewFormatter(&config.ConsoleConfig{
		Currency:       currency,
		CurrencySymbol: symbol,
		DateLayout:     "02 Jan 2006",
		Timezone:       "UTC",
	})
	require.NoError(t, err)
	return f
}

func TestSellingPrice(t *testing.T) {
	tests := []struct {
		name     string
		original string
		percent  string
		want     string
		wantErr  error
	}{
		{name: "no discount", original: "1000", percent: "0", want: "1000"},
		{name: "ten percent", original: "1000", percent: "10", want: "900"},
		{name: "fractional result rounds to cents", original: "99.99", percent: "15", want: "84.99"},
		{name: "full discount", original: "250", percent: "100", want: "0"},
		{name: "percent above 100", original: "100", percent: "101", wantErr: pricing.ErrInvalidPercent},
		{name: "negative percent", original: "100", percent: "-1", wantErr: pricing.ErrInvalidPercent},
		{name: "negative price", original: "-5", percent: "10", wantErr: pricing.ErrNegativePrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pricing.SellingPrice(decimal.RequireFromString(tt.original), decimal.RequireFromString(tt.percent))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestResolveSellingPrice(t *testing.T) {
	got, err := pricing.ResolveSellingPrice(500, 20, nil)
	require.NoError(t, err)
	assert.Equal(t, 400.0, got)

	explicit := 450.0
	got, err = pricing.ResolveSellingPrice(500, 20, &explicit)
	require.NoError(t, err)
	assert.Equal(t, 450.0, got)

	negative := -1.0
	_, err = pricing.ResolveSellingPrice(500, 20, &negative)
	assert.ErrorIs(t, err, pricing.ErrNegativePrice)
}

func TestPreview(t *testing.T) {
	f := newFormatter(t, "INR", "₹")

	p, err := pricing.Preview(1250, 20, f)

	require.NoError(t, err)
	assert.Equal(t, 1250.0, p.OriginalPrice)
	assert.Equal(t, 250.0, p.DiscountAmount)
	assert.Equal(t, 1000.0, p.SellingPrice)
	assert.Equal(t, "₹1,250.00", p.OriginalPriceDisplay)
	assert.Equal(t, "₹250.00", p.DiscountAmountDisplay)
	assert.Equal(t, "₹1,000.00", p.SellingPriceDisplay)
}

func TestCouponDiscount(t *testing.T) {
	f := newFormatter(t, "INR", "₹")

	tests := []struct {
		name         string
		req          domain.CouponPreviewRequest
		wantEligible bool
		wantDiscount float64
		wantFinal    float64
	}{
		{
			name:         "percentage",
			req:          domain.CouponPreviewRequest{DiscountType: domain.DiscountTypePercentage, DiscountValue: 10, OrderAmount: 1500},
			wantEligible: true, wantDiscount: 150, wantFinal: 1350,
		},
		{
			name:         "fixed",
			req:          domain.CouponPreviewRequest{DiscountType: domain.DiscountTypeFixed, DiscountValue: 200, OrderAmount: 1500},
			wantEligible: true, wantDiscount: 200, wantFinal: 1300,
		},
		{
			name:         "fixed larger than order never goes negative",
			req:          domain.CouponPreviewRequest{DiscountType: domain.DiscountTypeFixed, DiscountValue: 500, OrderAmount: 300},
			wantEligible: true, wantDiscount: 300, wantFinal: 0,
		},
		{
			name:         "below minimum",
			req:          domain.CouponPreviewRequest{DiscountType: domain.DiscountTypeFixed, DiscountValue: 100, MinOrderAmount: 1000, OrderAmount: 999},
			wantEligible: false, wantDiscount: 0, wantFinal: 999,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pricing.CouponDiscount(tt.req, f)
			assert.Equal(t, tt.wantEligible, got.Eligible)
			assert.Equal(t, tt.wantDiscount, got.DiscountAmount)
			assert.Equal(t, tt.wantFinal, got.FinalAmount)
			if !tt.wantEligible {
				assert.NotEmpty(t, got.Reason)
			}
		})
	}
}

func TestFormatter_Format(t *testing.T) {
	inr := newFormatter(t, "INR", "₹")
	usd := newFormatter(t, "USD", "$")

	assert.Equal(t, "₹0.00", inr.Format(0))
	assert.Equal(t, "₹999.50", inr.Format(999.5))
	assert.Equal(t, "₹12,34,567.00", inr.Format(1234567))
	assert.Equal(t, "-₹1,000.00", inr.Format(-1000))
	assert.Equal(t, "$1,234,567.89", usd.Format(1234567.891))
	assert.Equal(t, "$100.00", usd.Format(100))
}

func TestFormatter_Dates(t *testing.T) {
	f := newFormatter(t, "INR", "₹")
	ts := time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC)

	assert.Equal(t, "05 Mar 2024", f.FormatDate(&ts))
	assert.Equal(t, "05 Mar 2024 14:30", f.FormatDateTime(&ts))
	assert.Equal(t, "", f.FormatDate(nil))
	assert.Equal(t, "", f.FormatDateTime(&time.Time{}))
	assert.Equal(t, "05 Mar 2024", f.FormatDay("2024-03-05"))
	assert.Equal(t, "soon", f.FormatDay("soon"))
}

func TestNewFormatter_InvalidTimezone(t *testing.T) {
	_, err := pricing.NewFormatter(&config.ConsoleConfig{Timezone: "Mars/Olympus"})
	assert.Error(t, err)
}
