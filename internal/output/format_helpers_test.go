package output

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "¥1,235", FormatCurrency(decimal.NewFromFloat(1234.567)))
	assert.Equal(t, "¥0", FormatCurrency(decimal.Zero))
}

func TestFormatMan(t *testing.T) {
	assert.Equal(t, "2300.0万円", FormatMan(decimal.NewFromInt(23000000)))
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "12.35%", FormatPercentage(decimal.NewFromFloat(0.123456)))
	assert.Equal(t, "100.00%", FormatPercentage(decimal.NewFromInt(1)))
}
