package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fireplan/fire-simulator/internal/calculation"
	"github.com/fireplan/fire-simulator/internal/config"
	"github.com/fireplan/fire-simulator/internal/domain"
)

// Prints the itemized January cash flow of every simulated year for one
// scenario, before and after FI, to check the individual calculators.
func main() {
	path := "test/testdata/example_config.yaml"
	scenario := domain.ScenarioStandard
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	if len(os.Args) > 2 {
		scenario = os.Args[2]
	}

	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		log.Fatal(err)
	}
	params, err := cfg.Scenario(scenario)
	if err != nil {
		log.Fatal(err)
	}
	runner, err := calculation.NewScenarioRunner(cfg, calculation.SimulationStart(cfg))
	if err != nil {
		log.Fatal(err)
	}
	engine := runner.Engine(params)
	flows := calculation.NewCashFlowCalculator(cfg)

	fmt.Printf("%s scenario, %s\n", scenario, path)
	for _, postFire := range []bool{false, true} {
		fmt.Printf("\npost-FI: %v\n", postFire)
		fmt.Printf("%-8s %-12s %10s %10s %10s %10s %10s %10s %10s %10s %10s\n",
			"Month", "Stage", "Labor", "Pension", "Allowance", "Living", "Education", "Housing", "Insurance", "Income", "Expense")
		for m := 0; m < runner.HorizonMonths(); m += 12 {
			clock := engine.ClockAt(m)
			f := flows.Calculate(calculation.CashFlowContext{Clock: clock, Params: params, PostFire: postFire})
			housing := f.Mortgage.Add(f.Maintenance).Add(f.Workation)
			insurance := f.NationalPension.Add(f.HealthInsurance)
			fmt.Printf("%-8s %-12s %10s %10s %10s %10s %10s %10s %10s %10s %10s\n",
				clock.Date.Format("2006-01"), flows.LifeStage(clock.Date),
				f.LaborIncome.StringFixed(0), f.Pension.StringFixed(0), f.ChildAllowance.StringFixed(0),
				f.BaseExpense().StringFixed(0), f.Education.StringFixed(0), housing.StringFixed(0),
				insurance.StringFixed(0), f.Income().StringFixed(0), f.Expense().StringFixed(0))
		}
	}
}
