package calculation

import (
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// CashFlowContext is the run state the calculators read for one month.
type CashFlowContext struct {
	Clock                 domain.SimulationClock
	Params                domain.ScenarioParameters
	PostFire              bool
	FireDate              time.Time // zero until FI; fixes the end of pension contributions
	PrevYearRealizedGains decimal.Decimal
}

// MonthlyCashFlow is the itemized income and expense of one month. Budget is
// annual; every other amount is monthly.
type MonthlyCashFlow struct {
	LaborIncome     decimal.Decimal
	Pension         decimal.Decimal
	ChildAllowance  decimal.Decimal
	IncomeBoost     decimal.Decimal
	Budget          domain.Budget
	Education       decimal.Decimal
	Mortgage        decimal.Decimal
	Maintenance     decimal.Decimal
	Workation       decimal.Decimal
	NationalPension decimal.Decimal
	HealthInsurance decimal.Decimal
}

// Income returns total monthly income.
func (f MonthlyCashFlow) Income() decimal.Decimal {
	return f.LaborIncome.Add(f.Pension).Add(f.ChildAllowance).Add(f.IncomeBoost)
}

// BaseExpense returns the monthly share of the living-cost budget.
func (f MonthlyCashFlow) BaseExpense() decimal.Decimal {
	if f.Budget == nil {
		return decimal.Zero
	}
	return roundLedger(f.Budget.Total().Div(monthsPerYear))
}

// Expense returns total monthly expense.
func (f MonthlyCashFlow) Expense() decimal.Decimal {
	return f.BaseExpense().
		Add(f.Education).
		Add(f.Mortgage).
		Add(f.Maintenance).
		Add(f.Workation).
		Add(f.NationalPension).
		Add(f.HealthInsurance)
}

// WithBudget returns a copy with the living-cost budget replaced.
func (f MonthlyCashFlow) WithBudget(b domain.Budget) MonthlyCashFlow {
	f.Budget = b
	return f
}

// WithIncomeBoost returns a copy with the extra monthly income set.
func (f MonthlyCashFlow) WithIncomeBoost(boost decimal.Decimal) MonthlyCashFlow {
	f.IncomeBoost = boost
	return f
}

// CashFlowCalculator combines the individual calculators into one monthly
// cash-flow statement. It holds no mutable state and is safe for concurrent use.
type CashFlowCalculator struct {
	Expenses  *ExpenseCalculator
	Education *EducationCalculator
	Pension   *PensionCalculator
	Insurance *SocialInsuranceCalculator
	Housing   *HousingCalculator
	Income    *IncomeCalculator
}

// NewCashFlowCalculator creates the calculators for a configuration.
func NewCashFlowCalculator(config *domain.Configuration) *CashFlowCalculator {
	return &CashFlowCalculator{
		Expenses:  NewExpenseCalculator(config),
		Education: NewEducationCalculator(config.Education),
		Pension:   NewPensionCalculator(config.Pension),
		Insurance: NewSocialInsuranceCalculator(config),
		Housing:   NewHousingCalculator(config),
		Income:    NewIncomeCalculator(config),
	}
}

func monthly(annual decimal.Decimal) decimal.Decimal {
	return roundLedger(annual.Div(monthsPerYear))
}

// Calculate returns the cash flow for the month described by ctx.
func (c *CashFlowCalculator) Calculate(ctx CashFlowContext) MonthlyCashFlow {
	date := ctx.Clock.Date
	labor := c.Income.LaborIncome(ctx.Clock.YearOffset, ctx.Params, ctx.PostFire)

	flow := MonthlyCashFlow{
		LaborIncome:    roundLedger(labor),
		Pension:        monthly(c.Pension.CalculateAnnualIncome(date, ctx.FireDate)),
		ChildAllowance: c.Income.ChildAllowance(date, labor),
		Budget:         c.Expenses.Budget(date, ctx.Clock.YearOffset, ctx.Params),
		Education:      monthly(c.Education.CalculateAnnualCost(date)),
		Mortgage:       c.Housing.MortgagePayment(date),
		Maintenance:    monthly(c.Housing.MaintenanceCost(date)),
		Workation:      monthly(c.Housing.WorkationCost(date)),
	}
	if ctx.PostFire {
		flow.NationalPension = monthly(c.Insurance.NationalPensionPremium(date))
		flow.HealthInsurance = monthly(c.Insurance.HealthInsurancePremium(date, labor.Mul(monthsPerYear), ctx.PrevYearRealizedGains))
	}
	return flow
}

// AnnualExpense returns the annualized expense of the month described by ctx.
func (c *CashFlowCalculator) AnnualExpense(ctx CashFlowContext) decimal.Decimal {
	return c.Calculate(ctx).Expense().Mul(monthsPerYear)
}

// LifeStage returns the household stage on date.
func (c *CashFlowCalculator) LifeStage(date time.Time) domain.LifeStage {
	return c.Expenses.LifeStage(date)
}
