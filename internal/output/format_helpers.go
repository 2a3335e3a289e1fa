package output

import (
	"strconv"

	"github.com/fireplan/fire-simulator/pkg/decimal"
	shopspring "github.com/shopspring/decimal"
)

var decimalHundred = shopspring.NewFromInt(100)

// FormatCurrency formats an amount as whole yen with thousands separators.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount shopspring.Decimal) string {
	return decimal.NewMoneyFromDecimal(amount).Format()
}

// FormatMan formats an amount in units of 10,000 yen.
func FormatMan(amount shopspring.Decimal) string {
	return decimal.NewMoneyFromDecimal(amount).FormatMan()
}

// FormatPercentage formats a fraction (0.1234) as a percentage with 2 decimals.
func FormatPercentage(fraction shopspring.Decimal) string {
	return fraction.Mul(decimalHundred).StringFixed(2) + "%"
}

func intToString(v int) string { return strconv.Itoa(v) }

func boolToString(v bool) string { return strconv.FormatBool(v) }
