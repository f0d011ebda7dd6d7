package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/bloomhouse/admin-console/internal/config"
	"github.com/shopspring/decimal"
)

// Formatter renders amounts and dates for display
type Formatter struct {
	currency   string
	symbol     string
	dateLayout string
	location   *time.Location
}

// NewFormatter creates a formatter from console display settings
func NewFormatter(cfg *config.ConsoleConfig) (*Formatter, error) {
	loc := time.UTC
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid console timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	layout := cfg.DateLayout
	if layout == "" {
		layout = "02 Jan 2006"
	}

	return &Formatter{
		currency:   strings.ToUpper(cfg.Currency),
		symbol:     cfg.CurrencySymbol,
		dateLayout: layout,
		location:   loc,
	}, nil
}

// Format renders an amount with the currency symbol and two decimals, e.g. ₹1,250.00
func (f *Formatter) Format(amount float64) string {
	return f.FormatDecimal(decimal.NewFromFloat(amount))
}

// FormatDecimal is Format for decimal values
func (f *Formatter) FormatDecimal(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var grouped string
	if f.currency == "INR" {
		grouped = groupIndian(intPart)
	} else {
		grouped = groupThousands(intPart)
	}

	sign := ""
	if amount.Round(2).IsNegative() {
		sign = "-"
	}
	return sign + f.symbol + grouped + "." + frac
}

// FormatDate renders a date in the console layout; zero or nil times render empty
func (f *Formatter) FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(f.location).Format(f.dateLayout)
}

// FormatDateTime renders date and 24h time
func (f *Formatter) FormatDateTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(f.location).Format(f.dateLayout + " 15:04")
}

// FormatDay renders a YYYY-MM-DD date string in the console layout, passing through
// values that do not parse.
func (f *Formatter) FormatDay(day string) string {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return day
	}
	return t.Format(f.dateLayout)
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// groupIndian groups the last three digits, then pairs (12,34,567)
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(append(parts, tail), ",")
}
