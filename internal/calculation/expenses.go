package calculation

import (
	"math"
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/fireplan/fire-simulator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Share of a flat budget treated as discretionary when a stage has no ratio configured.
var defaultDiscretionaryRatio = decimal.NewFromFloat(0.25)

const additionalChildrenCategory = "additional_children"

// growthFactor returns (1+rate)^years, rounded so it can be multiplied into
// yen amounts without growing the mantissa.
func growthFactor(rate decimal.Decimal, years int) decimal.Decimal {
	if years <= 0 || rate.IsZero() {
		return decimalOne
	}
	return decimal.NewFromFloat(math.Pow(1+rate.InexactFloat64(), float64(years))).Round(10)
}

// wholeYears is the number of completed years at a year offset.
func wholeYears(yearOffset float64) int {
	return int(math.Floor(yearOffset + 1e-9))
}

// ExpenseCalculator resolves the base living-cost budget for a point in time.
type ExpenseCalculator struct {
	fire     domain.FireConfig
	fallback decimal.Decimal
	children []domain.Child
}

// NewExpenseCalculator creates an expense calculator for a configuration.
func NewExpenseCalculator(config *domain.Configuration) *ExpenseCalculator {
	return &ExpenseCalculator{
		fire:     config.Fire,
		fallback: config.Simulation.InitialMonthlyExpense.Mul(decimal.NewFromInt(12)),
		children: config.Education.Children,
	}
}

// LifeStage derives the household stage from the first child's age. A household
// without children, or whose first child is not yet born, is an empty nest.
func (ec *ExpenseCalculator) LifeStage(date time.Time) domain.LifeStage {
	if len(ec.children) == 0 {
		return domain.StageEmptyNest
	}
	first := ec.children[0]
	if first.Birthdate.IsZero() || first.Birthdate.After(date) {
		return domain.StageEmptyNest
	}
	return domain.LifeStageForAge(dateutil.FractionalAge(first.Birthdate, date))
}

func (ec *ExpenseCalculator) discretionaryRatio(stage domain.LifeStage) decimal.Decimal {
	if r, ok := ec.fire.DiscretionaryRatioByStage[stage]; ok {
		return r
	}
	return defaultDiscretionaryRatio
}

// additionalChildren sums the per-stage surcharge of every born child after the first.
func (ec *ExpenseCalculator) additionalChildren(date time.Time) decimal.Decimal {
	total := decimal.Zero
	if len(ec.children) < 2 || len(ec.fire.AdditionalChildExpenseByStage) == 0 {
		return total
	}
	for _, child := range ec.children[1:] {
		if child.Birthdate.IsZero() || child.Birthdate.After(date) {
			continue
		}
		stage := domain.LifeStageForAge(dateutil.FractionalAge(child.Birthdate, date))
		total = total.Add(ec.fire.AdditionalChildExpenseByStage[stage])
	}
	return total
}

// BaseBudget returns the unscaled annual budget in force on date.
func (ec *ExpenseCalculator) BaseBudget(date time.Time) domain.Budget {
	stage := ec.LifeStage(date)
	ratio := ec.discretionaryRatio(stage)

	if ec.fire.ManualAnnualExpense.IsPositive() {
		return domain.FlatBudget{Annual: ec.fire.ManualAnnualExpense, DiscretionaryRatio: ratio}
	}

	extra := ec.additionalChildren(date)
	if cats := ec.fire.ExpenseCategories; cats.Enabled {
		if amounts, ok := cats.BudgetsByStage[stage]; ok {
			lines := make([]domain.BudgetLine, 0, len(cats.Definitions)+1)
			for _, def := range cats.Definitions {
				amount, ok := amounts[def.ID]
				if !ok {
					continue
				}
				lines = append(lines, domain.BudgetLine{Category: def.ID, Amount: amount, Discretionary: def.Discretionary})
			}
			if extra.IsPositive() {
				lines = append(lines, domain.BudgetLine{Category: additionalChildrenCategory, Amount: extra})
			}
			return domain.CategorizedBudget{Lines: lines}
		}
	}

	if base, ok := ec.fire.BaseExpenseByStage[stage]; ok {
		return domain.FlatBudget{Annual: base.Add(extra), DiscretionaryRatio: ratio}
	}
	return domain.FlatBudget{Annual: ec.fallback, DiscretionaryRatio: ratio}
}

// Budget returns the annual budget on date grown by expense inflation for the
// completed years since the start of the run.
func (ec *ExpenseCalculator) Budget(date time.Time, yearOffset float64, params domain.ScenarioParameters) domain.Budget {
	return ec.BaseBudget(date).Scale(growthFactor(params.ExpenseGrowthRate, wholeYears(yearOffset)))
}
