package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrTargetOutOfRange is returned when even the upper search bound cannot fund
// the household to life expectancy.
var ErrTargetOutOfRange = errors.New("fire target exceeds search upper bound")

// ConfigurationError reports a missing or out-of-range configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// NumericDivergenceError is returned when the bisection hits its iteration cap
// before the bracket narrows below the tolerance.
type NumericDivergenceError struct {
	Low        decimal.Decimal
	High       decimal.Decimal
	Iterations int
}

func (e *NumericDivergenceError) Error() string {
	return fmt.Sprintf("bisection did not converge after %d iterations: last bracket [%s, %s]",
		e.Iterations, e.Low.StringFixed(0), e.High.StringFixed(0))
}
