package output

import (
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

func month(i int, cash, taxable, wrapper int64, fire bool) domain.MonthlyResult {
	c, tx, w := decimal.NewFromInt(cash), decimal.NewFromInt(taxable), decimal.NewFromInt(wrapper)
	return domain.MonthlyResult{
		Month:          i,
		Date:           time.Date(2025, time.Month(1+i%12), 1, 0, 0, 0, 0, time.UTC).AddDate(i/12, 0, 0),
		Age:            40 + float64(i)/12,
		LifeStage:      domain.StageEmptyNest,
		Income:         decimal.NewFromInt(500000),
		Expense:        decimal.NewFromInt(250000),
		Cash:           c,
		TaxableStock:   tx,
		WrapperBalance: w,
		TotalAssets:    c.Add(tx).Add(w),
		ReturnRate:     0.004,
		FireAchieved:   fire,
	}
}

func scenarioResult(name string, fireMonth int, final int64) domain.ScenarioResult {
	sc := domain.ScenarioResult{Scenario: name, FinalAssets: decimal.NewFromInt(final)}
	for i := 0; i < 3; i++ {
		sc.Months = append(sc.Months, month(i, 3000000, 20000000+int64(i)*100000, 0, fireMonth >= 0 && i >= fireMonth))
	}
	if fireMonth >= 0 {
		sc.FireAchieved = true
		sc.FireMonth = fireMonth
		sc.FireDate = sc.Months[fireMonth].Date
		sc.FireAge = sc.Months[fireMonth].Age
	}
	sc.FinalState = domain.AccountState{Cash: decimal.NewFromInt(3000000), TaxableStock: decimal.NewFromInt(final - 3000000)}
	return sc
}

func buildTestComparison() *domain.ScenarioComparison {
	return &domain.ScenarioComparison{
		StartDate:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		InitialAssets: decimal.NewFromInt(23000000),
		Scenarios: []domain.ScenarioResult{
			scenarioResult(domain.ScenarioStandard, 2, 23200000),
			scenarioResult(domain.ScenarioOptimistic, 1, 23500000),
			scenarioResult(domain.ScenarioPessimistic, -1, 22900000),
		},
	}
}

func buildMonteCarlo() *domain.MonteCarloResults {
	return &domain.MonteCarloResults{
		Simulations: []domain.SimulationOutcome{
			{Iteration: 0, Seed: 42, FinalAssets: decimal.NewFromInt(50000000), Success: true, MaxDrawdown: -0.2},
			{Iteration: 1, Seed: 43, FinalAssets: decimal.Zero, Success: false, RuinMonth: 300, MaxDrawdown: -0.65},
		},
		NumSimulations:    2,
		StartMonth:        3,
		HorizonMonths:     480,
		SuccessRate:       decimal.NewFromFloat(0.5),
		MeanFinalAssets:   decimal.NewFromInt(25000000),
		MedianFinalAssets: decimal.NewFromInt(25000000),
		PercentileRanges: domain.PercentileRanges{
			P10: decimal.NewFromInt(5000000), P25: decimal.NewFromInt(12500000), P50: decimal.NewFromInt(25000000),
			P75: decimal.NewFromInt(37500000), P90: decimal.NewFromInt(45000000),
		},
		DeterministicFinalAssets: decimal.NewFromInt(30000000),
	}
}
