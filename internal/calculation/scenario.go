package calculation

import (
	"context"
	"fmt"
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
)

// ScenarioRunner drives the monthly cycle over the configured horizon for one
// deterministic parameter set.
type ScenarioRunner struct {
	config  *domain.Configuration
	start   time.Time
	flows   *CashFlowCalculator
	checker FireChecker
}

// scenarioRun is a runner result plus the state right after FI, which Monte
// Carlo uses as its starting point.
type scenarioRun struct {
	result    domain.ScenarioResult
	fireState *CycleState
}

// NewScenarioRunner creates a runner starting at start.
func NewScenarioRunner(config *domain.Configuration, start time.Time) (*ScenarioRunner, error) {
	flows := NewCashFlowCalculator(config)
	checker, err := NewDecumulationChecker(config, start, flows)
	if err != nil {
		return nil, err
	}
	return &ScenarioRunner{config: config, start: start, flows: flows, checker: checker}, nil
}

// Engine returns a cycle engine for params wired to the runner's FI checker.
func (r *ScenarioRunner) Engine(params domain.ScenarioParameters) *CycleEngine {
	e := NewCycleEngine(r.config, params, r.start, r.flows)
	e.SetFireChecker(r.checker)
	return e
}

// HorizonMonths returns the number of months a scenario run covers.
func (r *ScenarioRunner) HorizonMonths() int {
	return r.config.Simulation.HorizonYears() * 12
}

// Run simulates the named scenario from the configured initial state.
func (r *ScenarioRunner) Run(ctx context.Context, name string) (domain.ScenarioResult, error) {
	run, err := r.run(ctx, name)
	if err != nil {
		return domain.ScenarioResult{}, err
	}
	return run.result, nil
}

func (r *ScenarioRunner) run(ctx context.Context, name string) (*scenarioRun, error) {
	params, err := r.config.Scenario(name)
	if err != nil {
		return nil, err
	}
	engine := r.Engine(params)
	horizon := r.HorizonMonths()
	rate := MonthlyMean(params.AnnualReturnRate.InexactFloat64())

	state := engine.InitialState()
	policy := engine.AccumulationPolicy()
	months := make([]domain.MonthlyResult, 0, horizon)
	var fireState *CycleState

	for m := 0; m < horizon; m++ {
		if m%12 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("scenario %s: %w", name, err)
			}
		}
		if policy.CheckFI && state.FireAchieved {
			policy = engine.DecumulationPolicy()
		}
		wasFire := state.FireAchieved
		var res domain.MonthlyResult
		state, res = engine.Step(state, policy, rate)
		months = append(months, res)
		if !wasFire && state.FireAchieved {
			fs := state
			fireState = &fs
		}
		if res.Ruined && policy.CheckRuin {
			break
		}
	}

	result := domain.ScenarioResult{
		Scenario:     name,
		Months:       months,
		FireAchieved: state.FireAchieved,
		Ruined:       state.Ruined,
		FinalAssets:  state.Account.TotalAssets(),
		FinalState:   state.Account,
	}
	if state.FireAchieved {
		result.FireMonth = state.FireMonth
		result.FireDate = state.FireDate
		result.FireAge = float64(r.config.Simulation.StartAge) + float64(state.FireMonth)/12
	}
	if state.Ruined {
		result.RuinMonth = state.RuinMonth
	}
	return &scenarioRun{result: result, fireState: fireState}, nil
}
