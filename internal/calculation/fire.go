package calculation

import (
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// DecumulationChecker is the canonical FI test. A household is financially
// independent when retiring now and living off its assets under pessimistic
// returns reaches life expectancy without ruin and above the ruin threshold.
// The multiple-of-expense test only screens out states that cannot pass.
type DecumulationChecker struct {
	config        *domain.Configuration
	engine        *CycleEngine
	totalMonths   int
	quickMultiple decimal.Decimal
}

// NewDecumulationChecker creates a checker that runs under the pessimistic scenario.
func NewDecumulationChecker(config *domain.Configuration, start time.Time, flows *CashFlowCalculator) (*DecumulationChecker, error) {
	params, err := config.Scenario(domain.ScenarioPessimistic)
	if err != nil {
		return nil, err
	}
	return &DecumulationChecker{
		config:        config,
		engine:        NewCycleEngine(config, params, start, flows),
		totalMonths:   (config.Simulation.LifeExpectancy - config.Simulation.StartAge) * 12,
		quickMultiple: config.Fire.QuickCheckMultiple,
	}, nil
}

// RemainingMonths returns the months from the state's clock to life expectancy.
func (c *DecumulationChecker) RemainingMonths(s CycleState) int {
	return c.totalMonths - s.Clock.MonthIndex
}

// PassesQuickCheck reports whether total assets reach the configured multiple
// of the current post-FI annual expense.
func (c *DecumulationChecker) PassesQuickCheck(s CycleState) bool {
	if !c.quickMultiple.IsPositive() {
		return true
	}
	annual := c.engine.flows.AnnualExpense(CashFlowContext{
		Clock:    s.Clock,
		Params:   c.engine.params,
		PostFire: true,
		FireDate: retirementDate(s),
	})
	return s.Account.TotalAssets().GreaterThanOrEqual(annual.Mul(c.quickMultiple))
}

// retirementDate is the state's candidate FI date, or its clock when none is set.
func retirementDate(s CycleState) time.Time {
	if s.FireDate.IsZero() {
		return s.Clock.Date
	}
	return s.FireDate
}

// Decumulate retires the household at its candidate FI date and runs the post-FI
// cycle for months months on the pessimistic mean path. Dynamic expense
// reduction is off so the test does not lean on future spending cuts.
func (c *DecumulationChecker) Decumulate(s CycleState, months int) CycleState {
	s.FireAchieved = true
	s.FireDate = retirementDate(s)
	s.Ruined = false
	policy := c.engine.DecumulationPolicy()
	policy.DynamicReduction = false
	rates := ConstantReturns{AnnualRate: c.engine.params.AnnualReturnRate.InexactFloat64()}.Generate(months)
	final, _ := c.engine.Run(s, policy, rates, false)
	return final
}

// IsFinanciallyIndependent implements FireChecker.
func (c *DecumulationChecker) IsFinanciallyIndependent(s CycleState) bool {
	remaining := c.RemainingMonths(s)
	if remaining <= 0 {
		return true
	}
	if !c.PassesQuickCheck(s) {
		return false
	}
	final := c.Decumulate(s, remaining)
	return !final.Ruined && final.Account.TotalAssets().GreaterThan(c.config.Simulation.RuinThreshold)
}
