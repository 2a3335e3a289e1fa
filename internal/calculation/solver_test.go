package calculation

import (
	"context"
	"errors"
	"testing"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threshold(v int64) func(decimal.Decimal) bool {
	return func(w decimal.Decimal) bool { return w.GreaterThanOrEqual(yen(v)) }
}

func TestBisect(t *testing.T) {
	ctx := context.Background()

	got, iter, err := bisect(ctx, yen(0), yen(10000000), yen(1000), 100, threshold(1234567))
	require.NoError(t, err)
	assert.Greater(t, iter, 0)
	assert.True(t, got.GreaterThanOrEqual(yen(1234567)))
	assert.True(t, got.LessThanOrEqual(yen(1234567+1000)), got.String())

	got, iter, err = bisect(ctx, yen(0), yen(10000000), yen(1), 100, threshold(1234567))
	require.NoError(t, err)
	assert.True(t, got.Equal(yen(1234567)), "whole-yen midpoints converge exactly")
	assert.LessOrEqual(t, iter, 30)
}

func TestBisect_Bounds(t *testing.T) {
	ctx := context.Background()

	_, _, err := bisect(ctx, yen(0), yen(1000), yen(1), 100, threshold(5000))
	assert.ErrorIs(t, err, domain.ErrTargetOutOfRange)

	got, iter, err := bisect(ctx, yen(0), yen(1000), yen(1), 100, threshold(0))
	require.NoError(t, err)
	assert.True(t, got.IsZero())
	assert.Zero(t, iter)
}

func TestBisect_Divergence(t *testing.T) {
	_, iter, err := bisect(context.Background(), yen(0), yen(100000000), yen(1), 3, threshold(33333333))

	var div *domain.NumericDivergenceError
	require.True(t, errors.As(err, &div), "got %v", err)
	assert.Equal(t, 3, iter)
	assert.Equal(t, 3, div.Iterations)
	assert.True(t, div.Low.LessThan(div.High))
	assert.Contains(t, err.Error(), "3 iterations")
}

func TestBisect_NonMonotonicTerminates(t *testing.T) {
	calls := 0
	flip := func(w decimal.Decimal) bool {
		calls++
		switch {
		case w.Equal(yen(1000000)):
			return true
		case w.IsZero():
			return false
		}
		return calls%2 == 0
	}
	_, iter, err := bisect(context.Background(), yen(0), yen(1000000), yen(1), 50, flip)
	if err != nil {
		var div *domain.NumericDivergenceError
		assert.True(t, errors.As(err, &div))
	}
	assert.LessOrEqual(t, iter, 50)
	assert.Greater(t, calls, 2)
}

func TestBisect_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := bisect(ctx, yen(0), yen(1000000), yen(1), 50, threshold(500))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFireTargetSolver_Feasibility(t *testing.T) {
	c := retireeConfig()
	solver := NewFireTargetSolver(c, c.Simulation.StartDate, nil)
	annual := solver.AnnualExpense()
	pessimistic := c.Simulation.Pessimistic

	require.True(t, annual.Equal(yen(3000000)))
	assert.Equal(t, 360, solver.HorizonMonths())
	assert.False(t, solver.Feasible(pessimistic, yen(0), annual))
	assert.True(t, solver.Feasible(pessimistic, yen(100000000), annual))

	// Once feasible, every larger wealth stays feasible.
	seen := false
	for w := int64(0); w <= 150000000; w += 10000000 {
		ok := solver.Feasible(pessimistic, yen(w), annual)
		if seen {
			assert.True(t, ok, "wealth %d", w)
		}
		seen = seen || ok
	}
	assert.True(t, seen)
}

func TestFireTargetSolver_Solve(t *testing.T) {
	c := retireeConfig()
	solver := NewFireTargetSolver(c, c.Simulation.StartDate, nil)

	result, err := solver.Solve(context.Background())
	require.NoError(t, err)

	min := result.MinimumRequired
	assert.True(t, min.IsPositive())
	assert.True(t, min.LessThan(yen(100000000)))
	assert.True(t, result.RecommendedTarget.Equal(min.Mul(rate(1.2)).Round(0)))
	assert.True(t, result.FourPercentRule.Equal(yen(75000000)))
	assert.True(t, result.AnnualExpense.Equal(yen(3000000)))
	assert.Greater(t, result.Iterations, 0)

	pessimistic := c.Simulation.Pessimistic
	assert.True(t, solver.Feasible(pessimistic, min, result.AnnualExpense))
	assert.False(t, solver.Feasible(pessimistic, min.Sub(c.Fire.Tolerance).Sub(yen(1)), result.AnnualExpense))

	require.Contains(t, result.ByScenario, domain.ScenarioStandard)
	require.Contains(t, result.ByScenario, domain.ScenarioOptimistic)
	assert.True(t, result.ByScenario[domain.ScenarioPessimistic].Equal(min))
	assert.True(t, result.ByScenario[domain.ScenarioStandard].LessThanOrEqual(min))
	assert.True(t, result.ByScenario[domain.ScenarioOptimistic].LessThanOrEqual(result.ByScenario[domain.ScenarioStandard]))

	current := c.InitialState.AccountState().TotalAssets()
	assert.True(t, result.CurrentAssets.Equal(current))
	assert.True(t, result.Shortfall.Equal(result.RecommendedTarget.Sub(current)))
	assert.True(t, result.ProgressRate.Equal(current.Div(result.RecommendedTarget).Round(4)))
}

func TestFireTargetSolver_OutOfRange(t *testing.T) {
	c := retireeConfig()
	c.Fire.UpperBound = yen(10000000)
	_, err := NewFireTargetSolver(c, c.Simulation.StartDate, nil).Solve(context.Background())
	assert.ErrorIs(t, err, domain.ErrTargetOutOfRange)
}

func TestFireTargetSolver_AnnualExpenseFromCalculators(t *testing.T) {
	c := baseConfig()
	solver := NewFireTargetSolver(c, c.Simulation.StartDate, nil)
	assert.True(t, solver.AnnualExpense().Equal(yen(3000000)))

	c.SocialInsurance.Enabled = true
	c.SocialInsurance.HealthInsurance.Members = 2
	solver = NewFireTargetSolver(c, c.Simulation.StartDate, nil)
	// No post-FI income: only the flat health insurance parts are added.
	assert.True(t, solver.AnnualExpense().Equal(yen(3130000)), solver.AnnualExpense().String())
}
