package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "€"

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)

// Money is a currency amount at the reporting boundary. The simulation
// itself works in float64; values are converted once when rendered.
type Money struct {
	decimal.Decimal
}

// NewMoney creates a new Money instance from a float64
func NewMoney(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewMoneyFromDecimal creates a new Money instance from a decimal.Decimal
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Monthly converts an annual amount to monthly
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(twelve)}
}

// Deflate expresses a nominal amount in start-of-plan money.
func (m Money) Deflate(priceIndex float64) Money {
	if priceIndex <= 0 {
		return m
	}
	return Money{m.Decimal.Div(decimal.NewFromFloat(priceIndex))}
}

// Share returns m as a percentage of total, or zero when total is zero.
func (m Money) Share(total Money) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return m.Decimal.Div(total.Decimal).Mul(hundred)
}

// String returns the amount with two decimals and no grouping.
func (m Money) String() string {
	return m.Decimal.StringFixed(2)
}

// Format renders the amount as "€1,234,567.89" (negative: "-€12.00").
func (m Money) Format() string {
	return m.format(2)
}

// FormatWhole renders the amount rounded to whole euros, e.g. "€1,234,568".
func (m Money) FormatWhole() string {
	return m.format(0)
}

func (m Money) format(places int32) string {
	s := m.Decimal.Abs().StringFixed(places)
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if m.Decimal.Round(places).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(CurrencySymbol)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}
