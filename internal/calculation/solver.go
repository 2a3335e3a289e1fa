package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	two                = decimal.NewFromInt(2)
	fourPercentFactor  = decimal.NewFromInt(25)
	defaultUpperFactor = decimal.NewFromInt(100)
)

// bisect finds the smallest value in [lo, hi] for which feasible holds,
// assuming feasible is monotonic. It stops once the bracket is narrower than
// tol and fails with NumericDivergenceError when maxIter is reached first.
// The returned value is the feasible end of the final bracket.
func bisect(ctx context.Context, lo, hi, tol decimal.Decimal, maxIter int, feasible func(decimal.Decimal) bool) (decimal.Decimal, int, error) {
	if !feasible(hi) {
		return decimal.Zero, 0, domain.ErrTargetOutOfRange
	}
	if feasible(lo) {
		return lo, 0, nil
	}
	iter := 0
	for hi.Sub(lo).GreaterThan(tol) {
		if iter >= maxIter {
			return decimal.Zero, iter, &domain.NumericDivergenceError{Low: lo, High: hi, Iterations: iter}
		}
		if err := ctx.Err(); err != nil {
			return decimal.Zero, iter, err
		}
		mid := lo.Add(hi).Div(two).Round(0)
		if mid.Equal(lo) || mid.Equal(hi) {
			break
		}
		if feasible(mid) {
			hi = mid
		} else {
			lo = mid
		}
		iter++
	}
	return hi, iter, nil
}

// FireTargetSolver searches for the minimum starting wealth that funds the
// household to life expectancy.
type FireTargetSolver struct {
	config *domain.Configuration
	start  time.Time
	flows  *CashFlowCalculator
	logger Logger
}

// NewFireTargetSolver creates a solver.
func NewFireTargetSolver(config *domain.Configuration, start time.Time, logger Logger) *FireTargetSolver {
	if logger == nil {
		logger = NopLogger{}
	}
	return &FireTargetSolver{config: config, start: start, flows: NewCashFlowCalculator(config), logger: logger}
}

// AnnualExpense is the withdrawal the target must fund: the manual figure
// when configured, otherwise this month's post-FI expense annualized.
func (s *FireTargetSolver) AnnualExpense() decimal.Decimal {
	if s.config.Fire.ManualAnnualExpense.IsPositive() {
		return s.config.Fire.ManualAnnualExpense
	}
	engine := NewCycleEngine(s.config, s.config.Simulation.Standard, s.start, s.flows)
	return s.flows.AnnualExpense(CashFlowContext{
		Clock:    engine.ClockAt(0),
		Params:   s.config.Simulation.Standard,
		PostFire: true,
		FireDate: engine.ClockAt(0).Date,
	}).Round(0)
}

// UpperBound returns the top of the search range.
func (s *FireTargetSolver) UpperBound(annualExpense decimal.Decimal) decimal.Decimal {
	if s.config.Fire.UpperBound.IsPositive() {
		return s.config.Fire.UpperBound
	}
	return annualExpense.Mul(defaultUpperFactor)
}

// HorizonMonths is the decumulation length: start age to life expectancy.
func (s *FireTargetSolver) HorizonMonths() int {
	return (s.config.Simulation.LifeExpectancy - s.config.Simulation.StartAge) * 12
}

// Feasible reports whether wealth, held entirely in taxable stock at cost,
// sustains a fixed inflation-linked withdrawal of annualExpense under params
// without ruin until life expectancy.
func (s *FireTargetSolver) Feasible(params domain.ScenarioParameters, wealth, annualExpense decimal.Decimal) bool {
	engine := NewCycleEngine(s.config, params, s.start, s.flows)
	state := engine.NewState(0, domain.AccountState{TaxableStock: wealth, TaxableCostBasis: wealth})
	rates := ConstantReturns{AnnualRate: params.AnnualReturnRate.InexactFloat64()}.Generate(s.HorizonMonths())
	final, _ := engine.Run(state, FixedWithdrawalPolicy(annualExpense), rates, false)
	return !final.Ruined && final.Account.TotalAssets().GreaterThan(s.config.Simulation.RuinThreshold)
}

// MinimumWealth bisects the smallest feasible starting wealth for params.
func (s *FireTargetSolver) MinimumWealth(ctx context.Context, params domain.ScenarioParameters, annualExpense decimal.Decimal) (decimal.Decimal, int, error) {
	upper := s.UpperBound(annualExpense)
	feasible := func(w decimal.Decimal) bool { return s.Feasible(params, w, annualExpense) }
	return bisect(ctx, decimal.Zero, upper, s.config.Fire.Tolerance, s.config.Fire.MaxIterations, feasible)
}

// Solve computes the recommended target and the reference figures around it.
func (s *FireTargetSolver) Solve(ctx context.Context) (*domain.FireTargetResult, error) {
	annual := s.AnnualExpense()
	pessimistic, err := s.config.Scenario(domain.ScenarioPessimistic)
	if err != nil {
		return nil, err
	}

	minimum, iterations, err := s.MinimumWealth(ctx, pessimistic, annual)
	if err != nil {
		return nil, fmt.Errorf("solving fire target: %w", err)
	}
	s.logger.Debugf("fire target: minimum %s after %d iterations", minimum.StringFixed(0), iterations)

	buffer := s.config.Fire.SafetyBuffer
	recommended := minimum.Mul(buffer).Round(0)
	current := s.config.InitialState.AccountState().TotalAssets()

	result := &domain.FireTargetResult{
		AnnualExpense:     annual,
		MinimumRequired:   minimum,
		SafetyBuffer:      buffer,
		RecommendedTarget: recommended,
		ByScenario:        map[string]decimal.Decimal{domain.ScenarioPessimistic: minimum},
		FourPercentRule:   annual.Mul(fourPercentFactor),
		CurrentAssets:     current,
		Shortfall:         decimal.Max(decimal.Zero, recommended.Sub(current)),
		Iterations:        iterations,
	}
	if recommended.IsPositive() {
		result.ProgressRate = current.Div(recommended).Round(4)
	}

	for _, name := range []string{domain.ScenarioStandard, domain.ScenarioOptimistic} {
		params, _ := s.config.Scenario(name)
		w, _, err := s.MinimumWealth(ctx, params, annual)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if err != nil {
			s.logger.Warnf("fire target for %s scenario: %v", name, err)
			continue
		}
		result.ByScenario[name] = w
	}
	return result, nil
}
