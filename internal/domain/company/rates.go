package company

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)
var one = decimal.NewFromInt(1)

// ParseRate normalizes operator-entered rates into canonical decimal form:
// "2.7" and "2.7%" both become 0.027, "0.027" stays 0.027.
func ParseRate(raw string) (decimal.Decimal, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return decimal.Zero, errors.New("rate is required")
	}

	percent := strings.HasSuffix(text, "%")
	if percent {
		text = strings.TrimSpace(strings.TrimSuffix(text, "%"))
	}

	value, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, errors.New("rate must be a valid number")
	}
	if value.IsNegative() {
		return decimal.Zero, errors.New("rate cannot be negative")
	}

	if percent || value.GreaterThan(one) {
		return value.Div(hundred), nil
	}
	return value, nil
}

// FormatRatePercent renders a decimal rate for display, e.g. 0.027 -> "2.7%".
func FormatRatePercent(rate decimal.Decimal) string {
	return rate.Mul(hundred).String() + "%"
}
