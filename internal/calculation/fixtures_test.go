package calculation

import (
	"time"

	"github.com/fireplan/fire-simulator/internal/config"
	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func rate(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func scenario(ret, inflation float64) domain.ScenarioParameters {
	return domain.ScenarioParameters{AnnualReturnRate: rate(ret), InflationRate: rate(inflation)}
}

// baseConfig is a couple with no children, flat expenses of 3M a year and
// labor income of 6M a year. Only the calculators a test enables add to that.
func baseConfig() *domain.Configuration {
	c := &domain.Configuration{
		Simulation: domain.SimulationConfig{
			StartDate:             day(2025, time.January, 1),
			StartAge:              40,
			LifeExpectancy:        90,
			InitialLaborIncome:    yen(500000),
			InitialMonthlyExpense: yen(250000),
			Standard:              scenario(0.05, 0.01),
			Optimistic:            scenario(0.07, 0.01),
			Pessimistic:           scenario(0.03, 0.01),
		},
		InitialState: domain.InitialState{
			Cash:             yen(3000000),
			TaxableStock:     yen(20000000),
			TaxableCostBasis: yen(15000000),
		},
	}
	config.ApplyDefaults(c)
	return c
}

// retireeConfig is a 60-year-old with no income who spends 3M a year.
func retireeConfig() *domain.Configuration {
	c := baseConfig()
	c.Simulation.StartAge = 60
	c.Simulation.LifeExpectancy = 90
	c.Simulation.InitialLaborIncome = decimal.Zero
	c.Simulation.Pessimistic = scenario(0.02, 0.01)
	c.Fire.ManualAnnualExpense = yen(3000000)
	return c
}
