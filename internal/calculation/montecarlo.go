package calculation

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"
)

// MonteCarloSimulator runs the post-FI cycle over many sampled return paths.
type MonteCarloSimulator struct {
	config         *domain.Configuration
	runner         *ScenarioRunner
	logger         Logger
	NumSimulations int
	Seed           int64
	Workers        int
}

// NewMonteCarloSimulator creates a simulator. A zero configured seed is
// replaced by seedFunc so unseeded runs still differ.
func NewMonteCarloSimulator(config *domain.Configuration, runner *ScenarioRunner, logger Logger) *MonteCarloSimulator {
	if logger == nil {
		logger = NopLogger{}
	}
	mc := config.MonteCarlo
	seed := mc.Seed
	if seed == 0 {
		seed = seedFunc()
	}
	workers := mc.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &MonteCarloSimulator{
		config:         config,
		runner:         runner,
		logger:         logger,
		NumSimulations: mc.Iterations,
		Seed:           seed,
		Workers:        workers,
	}
}

// StartingPoint returns the state the stochastic runs start from: the
// standard scenario's state right after FI, or the initial state when the
// standard scenario never reaches FI.
func (mcs *MonteCarloSimulator) StartingPoint(ctx context.Context) (CycleState, error) {
	run, err := mcs.runner.run(ctx, domain.ScenarioStandard)
	if err != nil {
		return CycleState{}, err
	}
	if run.fireState != nil {
		return *run.fireState, nil
	}
	params, _ := mcs.config.Scenario(domain.ScenarioStandard)
	return mcs.runner.Engine(params).InitialState(), nil
}

// RunSimulation executes the Monte Carlo simulation. Iteration i uses seed
// Seed+i, so results do not depend on the worker count.
func (mcs *MonteCarloSimulator) RunSimulation(ctx context.Context) (*domain.MonteCarloResults, error) {
	if mcs.NumSimulations <= 0 {
		return nil, fmt.Errorf("monte carlo: iterations must be positive, got %d", mcs.NumSimulations)
	}
	start, err := mcs.StartingPoint(ctx)
	if err != nil {
		return nil, fmt.Errorf("monte carlo starting point: %w", err)
	}
	return mcs.RunFrom(ctx, start)
}

// RunFrom executes the simulation from an explicit starting state.
func (mcs *MonteCarloSimulator) RunFrom(ctx context.Context, start CycleState) (*domain.MonteCarloResults, error) {
	horizon := mcs.runner.HorizonMonths() - start.Clock.MonthIndex
	if horizon <= 0 {
		return nil, fmt.Errorf("monte carlo: no months left after month %d", start.Clock.MonthIndex)
	}
	params, err := mcs.config.Scenario(domain.ScenarioStandard)
	if err != nil {
		return nil, err
	}
	engine := mcs.runner.Engine(params)
	start.FireAchieved = true
	start.Ruined = false
	start.WorstDrawdown = decimal.Zero
	start.Drawdown = domain.DrawdownState{PeakAssets: start.Account.InvestedAssets()}
	if start.FireDate.IsZero() {
		start.FireDate = start.Clock.Date
	}

	results := make([]domain.SimulationOutcome, mcs.NumSimulations)
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, mcs.Workers)

	for i := 0; i < mcs.NumSimulations; i++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(simIndex int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[simIndex] = mcs.runSingleSimulation(engine, params, start, horizon, simIndex)
		}(i)
	}
	wg.Wait()

	baseline := ConstantReturns{AnnualRate: params.AnnualReturnRate.InexactFloat64()}.Generate(horizon)
	deterministic, _ := engine.Run(start, engine.DecumulationPolicy(), baseline, false)

	finals := make([]float64, len(results))
	for i, r := range results {
		finals[i] = r.FinalAssets.InexactFloat64()
	}
	sort.Float64s(finals)

	out := &domain.MonteCarloResults{
		Simulations:              results,
		NumSimulations:           mcs.NumSimulations,
		Enhanced:                 mcs.config.MonteCarlo.EnhancedModel.Enabled,
		StartMonth:               start.Clock.MonthIndex,
		HorizonMonths:            horizon,
		SuccessRate:              mcs.calculateSuccessRate(results),
		MeanFinalAssets:          decimal.NewFromFloat(stat.Mean(finals, nil)).Round(0),
		MedianFinalAssets:        quantile(0.5, finals),
		PercentileRanges:         calculatePercentileRanges(finals),
		DeterministicFinalAssets: deterministic.Account.TotalAssets().Round(0),
	}
	mcs.logger.Infof("monte carlo: %d runs from month %d, success rate %s", out.NumSimulations, out.StartMonth, out.SuccessRate.StringFixed(3))
	return out, nil
}

// runSingleSimulation samples one return path and runs the decumulation cycle on it.
func (mcs *MonteCarloSimulator) runSingleSimulation(engine *CycleEngine, params domain.ScenarioParameters, start CycleState, horizon, iteration int) domain.SimulationOutcome {
	seed := mcs.Seed + int64(iteration)
	rates := NewReturnGenerator(params, mcs.config.MonteCarlo, seed).Generate(horizon)
	final, _ := engine.Run(start, engine.DecumulationPolicy(), rates, false)

	total := final.Account.TotalAssets()
	outcome := domain.SimulationOutcome{
		Iteration:   iteration,
		Seed:        seed,
		FinalAssets: total.Round(0),
		Success:     !final.Ruined && total.GreaterThan(mcs.config.Simulation.RuinThreshold),
		MaxDrawdown: final.WorstDrawdown.InexactFloat64(),
	}
	if final.Ruined {
		outcome.RuinMonth = final.RuinMonth
	}
	return outcome
}

// calculateSuccessRate returns the fraction of runs that never ruined.
func (mcs *MonteCarloSimulator) calculateSuccessRate(simulations []domain.SimulationOutcome) decimal.Decimal {
	if len(simulations) == 0 {
		return decimal.Zero
	}
	successes := 0
	for _, s := range simulations {
		if s.Success {
			successes++
		}
	}
	return decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(len(simulations)))).Round(4)
}

// quantile reads the empirical p-quantile of sorted values in whole yen.
func quantile(p float64, sorted []float64) decimal.Decimal {
	if len(sorted) == 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(stat.Quantile(p, stat.Empirical, sorted, nil)).Round(0)
}

// calculatePercentileRanges reads the reporting percentiles from sorted final assets.
func calculatePercentileRanges(sorted []float64) domain.PercentileRanges {
	return domain.PercentileRanges{
		P10: quantile(0.10, sorted),
		P25: quantile(0.25, sorted),
		P50: quantile(0.50, sorted),
		P75: quantile(0.75, sorted),
		P90: quantile(0.90, sorted),
	}
}
