package output

import (
	"strconv"

	money "github.com/rpgo/wealth-simulator/pkg/decimal"
	"github.com/shopspring/decimal"
)

var decimalHundred = decimal.NewFromInt(100)

// FormatCurrency formats a decimal as euros with grouping and 2 decimals.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return money.NewMoneyFromDecimal(amount).Format()
}

// FormatWhole formats a float amount as whole euros.
func FormatWhole(amount float64) string {
	return money.NewMoney(amount).FormatWhole()
}

// FormatPercentage formats a fraction (0.25) as a percentage ("25.00%").
func FormatPercentage(fraction decimal.Decimal) string {
	return fraction.Mul(decimalHundred).StringFixed(2) + "%"
}

func formatRate(rate float64) string {
	return FormatPercentage(decimal.NewFromFloat(rate))
}

func fixed(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
