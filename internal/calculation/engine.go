package calculation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
)

// CalculationEngine orchestrates the scenario runs, the FI target search and
// the Monte Carlo simulation for one configuration.
type CalculationEngine struct {
	Logger Logger
}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the calculation engine. If nil is provided, a no-op logger is used.
func (ce *CalculationEngine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// RunScenario simulates one named deterministic scenario.
func (ce *CalculationEngine) RunScenario(ctx context.Context, config *domain.Configuration, name string) (*domain.ScenarioResult, error) {
	runner, err := NewScenarioRunner(config, SimulationStart(config))
	if err != nil {
		return nil, err
	}
	result, err := runner.Run(ctx, name)
	if err != nil {
		return nil, err
	}
	ce.logScenario(result)
	return &result, nil
}

func (ce *CalculationEngine) logScenario(r domain.ScenarioResult) {
	if r.FireAchieved {
		ce.Logger.Infof("%s: FI at month %d (%s, age %.1f)", r.Scenario, r.FireMonth, r.FireDate.Format("2006-01"), r.FireAge)
	} else {
		ce.Logger.Infof("%s: FI not reached", r.Scenario)
	}
	if r.Ruined {
		ce.Logger.Warnf("%s: assets exhausted at month %d", r.Scenario, r.RuinMonth)
	}
}

// RunScenarios runs the standard, optimistic and pessimistic scenarios in parallel.
func (ce *CalculationEngine) RunScenarios(ctx context.Context, config *domain.Configuration) (*domain.ScenarioComparison, error) {
	start := SimulationStart(config)
	runner, err := NewScenarioRunner(config, start)
	if err != nil {
		return nil, err
	}

	scenarios := make([]domain.ScenarioResult, len(domain.ScenarioNames))
	errs := make([]error, len(domain.ScenarioNames))
	var wg sync.WaitGroup
	for i, name := range domain.ScenarioNames {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			ce.Logger.Debugf("running %s scenario", name)
			scenarios[i], errs[i] = runner.Run(ctx, name)
		}(i, name)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("RunScenario %s failed: %w", domain.ScenarioNames[i], err)
		}
		ce.logScenario(scenarios[i])
	}

	return &domain.ScenarioComparison{
		StartDate:     start,
		InitialAssets: config.InitialState.AccountState().TotalAssets(),
		Scenarios:     scenarios,
	}, nil
}

// CalculateFireTarget runs the bisection solver.
func (ce *CalculationEngine) CalculateFireTarget(ctx context.Context, config *domain.Configuration) (*domain.FireTargetResult, error) {
	solver := NewFireTargetSolver(config, SimulationStart(config), ce.Logger)
	result, err := solver.Solve(ctx)
	if err != nil {
		return nil, err
	}
	ce.Logger.Infof("fire target: minimum %s, recommended %s (x%s)",
		result.MinimumRequired.StringFixed(0), result.RecommendedTarget.StringFixed(0), result.SafetyBuffer.String())
	return result, nil
}

// RunMonteCarlo runs the stochastic decumulation from the standard scenario's FI point.
func (ce *CalculationEngine) RunMonteCarlo(ctx context.Context, config *domain.Configuration) (*domain.MonteCarloResults, error) {
	runner, err := NewScenarioRunner(config, SimulationStart(config))
	if err != nil {
		return nil, err
	}
	return NewMonteCarloSimulator(config, runner, ce.Logger).RunSimulation(ctx)
}

// RunFullAnalysis runs the scenarios and the FI target, plus Monte Carlo when enabled.
func (ce *CalculationEngine) RunFullAnalysis(ctx context.Context, config *domain.Configuration) (*domain.ScenarioComparison, error) {
	began := time.Now()
	comparison, err := ce.RunScenarios(ctx, config)
	if err != nil {
		return nil, err
	}
	if comparison.FireTarget, err = ce.CalculateFireTarget(ctx, config); err != nil {
		return nil, err
	}
	if config.MonteCarlo.Enabled {
		if comparison.MonteCarlo, err = ce.RunMonteCarlo(ctx, config); err != nil {
			return nil, err
		}
	}
	ce.Logger.Debugf("analysis finished in %s", time.Since(began).Round(time.Millisecond))
	return comparison, nil
}
