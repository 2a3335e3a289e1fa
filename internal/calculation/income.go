package calculation

import (
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/fireplan/fire-simulator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Monthly child allowance amounts (October 2024 schedule).
var (
	AllowanceFirstChildUnder3 = decimal.NewFromInt(15000)
	AllowanceLaterChildUnder3 = decimal.NewFromInt(20000)
	AllowanceAge3To17         = decimal.NewFromInt(10000)
)

// IncomeCalculator computes labor income and the public child allowance.
type IncomeCalculator struct {
	sim       domain.SimulationConfig
	allowance domain.ChildAllowanceConfig
	children  []domain.Child
}

// NewIncomeCalculator creates an income calculator.
func NewIncomeCalculator(config *domain.Configuration) *IncomeCalculator {
	return &IncomeCalculator{
		sim:       config.Simulation,
		allowance: config.ChildAllowance,
		children:  config.Education.Children,
	}
}

// LaborIncome returns monthly labor income. Before FI each earner's salary
// grows by the scenario's income growth rate per completed year when the
// earner opts in; after FI only the configured side income remains.
func (ic *IncomeCalculator) LaborIncome(yearOffset float64, params domain.ScenarioParameters, postFire bool) decimal.Decimal {
	if postFire {
		return ic.sim.PostFireIncome
	}
	growth := growthFactor(params.IncomeGrowthRate, wholeYears(yearOffset))
	if len(ic.sim.Earners) == 0 {
		return ic.sim.InitialLaborIncome.Mul(growth)
	}
	total := decimal.Zero
	for _, e := range ic.sim.Earners {
		if e.IncomeGrowth {
			total = total.Add(e.MonthlyIncome.Mul(growth))
		} else {
			total = total.Add(e.MonthlyIncome)
		}
	}
	return total
}

// ChildAllowance returns the monthly allowance on date. Households whose annual
// labor income exceeds the configured limit receive nothing.
func (ic *IncomeCalculator) ChildAllowance(date time.Time, monthlyLaborIncome decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	if !ic.allowance.Enabled {
		return total
	}
	if ic.allowance.IncomeLimit.IsPositive() && monthlyLaborIncome.Mul(decimal.NewFromInt(12)).GreaterThan(ic.allowance.IncomeLimit) {
		return total
	}
	for i, child := range ic.children {
		if child.Birthdate.IsZero() || child.Birthdate.After(date) {
			continue
		}
		age := dateutil.FractionalAge(child.Birthdate, date)
		switch {
		case age < 3 && i == 0:
			total = total.Add(AllowanceFirstChildUnder3)
		case age < 3:
			total = total.Add(AllowanceLaterChildUnder3)
		case age < 18:
			total = total.Add(AllowanceAge3To17)
		}
	}
	return total
}
