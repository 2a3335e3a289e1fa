package decimal

import (
	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// CurrencyCode is the ISO code used for display. Amounts are whole yen.
const CurrencyCode = gomoney.JPY

var tenThousand = decimal.NewFromInt(10000)

// Money is a yen amount kept at full decimal precision until display.
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal wraps a decimal amount for display.
func NewMoneyFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// Format renders the amount with the yen symbol and thousands separators, e.g. ¥1,234,567.
func (m Money) Format() string {
	return gomoney.New(m.Decimal.Round(0).IntPart(), CurrencyCode).Display()
}

// FormatMan renders the amount in units of 10,000 yen (man-en) with one decimal, e.g. 1234.6万円.
func (m Money) FormatMan() string {
	return m.Decimal.Div(tenThousand).StringFixed(1) + "万円"
}
