// Package money converts user input into the fixed two-digit decimal used for
// rental prices.
package money

import (
	"math"
	"strings"

	"github.com/Romankivs/Lab1Istp/util/common"
	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for prices.
const Scale = 2

// MaxPrice is the largest value that fits a decimal(10,2) column.
var MaxPrice = decimal.RequireFromString("99999999.99")

// ParsePrice parses a textual amount and quantizes it to Scale digits,
// rounding half away from zero. Empty, non-numeric, negative and
// out-of-range input yields a ValidationError.
func ParsePrice(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return decimal.Decimal{}, common.NewValidationError(field, "value is required")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, common.NewValidationError(field, "%q is not a number", s)
	}
	return quantize(field, d)
}

// FromFloat quantizes a floating point amount. NaN and infinities cannot be
// represented and are rejected.
func FromFloat(field string, f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, common.NewValidationError(field, "%v cannot be represented", f)
	}
	return quantize(field, decimal.NewFromFloat(f))
}

func quantize(field string, d decimal.Decimal) (decimal.Decimal, error) {
	if d.IsNegative() {
		return decimal.Decimal{}, common.NewValidationError(field, "must not be negative")
	}
	q := d.Round(Scale)
	if q.GreaterThan(MaxPrice) {
		return decimal.Decimal{}, common.NewValidationError(field, "must not exceed %s", MaxPrice.StringFixed(Scale))
	}
	return q, nil
}

// Format renders an amount with exactly Scale fractional digits.
func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}
