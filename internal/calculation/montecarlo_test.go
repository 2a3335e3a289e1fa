package calculation

import (
	"context"
	"testing"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wealthyRetiree can live off 200M for 20 years almost regardless of returns.
func wealthyRetiree() *domain.Configuration {
	c := retireeConfig()
	c.Simulation.LifeExpectancy = 80
	c.InitialState.Cash = yen(1000000)
	c.InitialState.TaxableStock = yen(200000000)
	c.InitialState.TaxableCostBasis = yen(200000000)
	c.MonteCarlo.Iterations = 300
	c.MonteCarlo.Seed = 42
	c.MonteCarlo.ReturnStdDev = 0.06
	return c
}

func newSimulator(t *testing.T, c *domain.Configuration) *MonteCarloSimulator {
	t.Helper()
	runner, err := NewScenarioRunner(c, c.Simulation.StartDate)
	require.NoError(t, err)
	return NewMonteCarloSimulator(c, runner, nil)
}

func TestMonteCarloSimulator_Defaults(t *testing.T) {
	orig := seedFunc
	SetSeedFunc(func() int64 { return 777 })
	defer SetSeedFunc(orig)

	c := wealthyRetiree()
	c.MonteCarlo.Seed = 0
	mcs := newSimulator(t, c)
	assert.Equal(t, int64(777), mcs.Seed)
	assert.Greater(t, mcs.Workers, 0)
	assert.Equal(t, 300, mcs.NumSimulations)
}

func TestMonteCarloSimulator_DeterministicAcrossWorkerCounts(t *testing.T) {
	c := wealthyRetiree()
	c.MonteCarlo.Iterations = 40

	run := func(workers int) *domain.MonteCarloResults {
		mcs := newSimulator(t, c)
		mcs.Workers = workers
		res, err := mcs.RunSimulation(context.Background())
		require.NoError(t, err)
		return res
	}
	a, b := run(1), run(4)

	require.Len(t, a.Simulations, 40)
	for i := range a.Simulations {
		assert.Equal(t, int64(42+i), a.Simulations[i].Seed)
		assert.True(t, a.Simulations[i].FinalAssets.Equal(b.Simulations[i].FinalAssets), "iteration %d", i)
	}
	assert.True(t, a.SuccessRate.Equal(b.SuccessRate))
	assert.True(t, a.MedianFinalAssets.Equal(b.MedianFinalAssets))
}

func TestMonteCarloSimulator_MedianTracksDeterministicPath(t *testing.T) {
	c := wealthyRetiree()
	mcs := newSimulator(t, c)
	engine := mcs.runner.Engine(c.Simulation.Standard)

	res, err := mcs.RunFrom(context.Background(), engine.InitialState())
	require.NoError(t, err)

	assert.Equal(t, 240, res.HorizonMonths)
	assert.Equal(t, 0, res.StartMonth)
	assert.True(t, res.SuccessRate.Equal(rate(1)), res.SuccessRate.String())

	median := res.MedianFinalAssets.InexactFloat64()
	deterministic := res.DeterministicFinalAssets.InexactFloat64()
	require.Greater(t, deterministic, 0.0)
	assert.InEpsilon(t, deterministic, median, 0.10)

	p := res.PercentileRanges
	assert.True(t, p.P10.LessThanOrEqual(p.P25))
	assert.True(t, p.P25.LessThanOrEqual(p.P50))
	assert.True(t, p.P50.LessThanOrEqual(p.P75))
	assert.True(t, p.P75.LessThanOrEqual(p.P90))
	assert.True(t, p.P50.Equal(res.MedianFinalAssets))
}

func TestMonteCarloSimulator_EnhancedAndIIDShareLongRunMean(t *testing.T) {
	run := func(enhanced bool) *domain.MonteCarloResults {
		c := wealthyRetiree()
		c.MonteCarlo.Iterations = 400
		c.MonteCarlo.ReturnStdDev = 0.15
		if enhanced {
			c.MonteCarlo.EnhancedModel = defaultEnhancedModel()
		}
		mcs := newSimulator(t, c)
		res, err := mcs.RunFrom(context.Background(), mcs.runner.Engine(c.Simulation.Standard).InitialState())
		require.NoError(t, err)
		return res
	}
	iid, enhanced := run(false), run(true)

	iidMean := iid.MeanFinalAssets.InexactFloat64()
	enhancedMean := enhanced.MeanFinalAssets.InexactFloat64()
	require.Greater(t, iidMean, 0.0)
	assert.InEpsilon(t, iidMean, enhancedMean, 0.25)
	assert.InEpsilon(t, iid.DeterministicFinalAssets.InexactFloat64(), iidMean, 0.15)
}

func TestMonteCarloSimulator_StartsAtStandardFI(t *testing.T) {
	c := wealthyRetiree()
	c.MonteCarlo.Iterations = 5
	mcs := newSimulator(t, c)

	standard, err := mcs.runner.Run(context.Background(), domain.ScenarioStandard)
	require.NoError(t, err)
	require.True(t, standard.FireAchieved)

	start, err := mcs.StartingPoint(context.Background())
	require.NoError(t, err)
	assert.Equal(t, standard.FireMonth+1, start.Clock.MonthIndex)
	assert.True(t, start.FireAchieved)

	res, err := mcs.RunSimulation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, start.Clock.MonthIndex, res.StartMonth)
	assert.Equal(t, mcs.runner.HorizonMonths()-res.StartMonth, res.HorizonMonths)
}

func TestMonteCarloSimulator_Ruin(t *testing.T) {
	c := wealthyRetiree()
	c.InitialState.TaxableStock = yen(20000000)
	c.InitialState.TaxableCostBasis = yen(20000000)
	c.MonteCarlo.Iterations = 20
	mcs := newSimulator(t, c)

	res, err := mcs.RunFrom(context.Background(), mcs.runner.Engine(c.Simulation.Standard).InitialState())
	require.NoError(t, err)
	assert.True(t, res.SuccessRate.IsZero())
	for _, s := range res.Simulations {
		assert.False(t, s.Success)
		assert.Greater(t, s.RuinMonth, 0)
		assert.LessOrEqual(t, s.MaxDrawdown, 0.0)
	}
}

func TestMonteCarloSimulator_Errors(t *testing.T) {
	c := wealthyRetiree()
	mcs := newSimulator(t, c)

	mcs.NumSimulations = 0
	_, err := mcs.RunSimulation(context.Background())
	assert.Error(t, err)

	mcs.NumSimulations = 10
	_, err = mcs.RunFrom(context.Background(), mcs.runner.Engine(c.Simulation.Standard).NewState(240, domain.AccountState{}))
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = mcs.RunSimulation(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestQuantile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	assert.True(t, quantile(0.5, sorted).Equal(yen(5)))
	assert.True(t, quantile(0.9, sorted).Equal(yen(9)))
	assert.True(t, quantile(0.5, nil).IsZero())
}
