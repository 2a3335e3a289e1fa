package config

import (
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CreateExampleConfiguration creates a household of two earners and two
// children with categorized budgets, NISA and dynamic reduction enabled.
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	cfg := &domain.Configuration{
		Simulation: domain.SimulationConfig{
			StartDate:      day(2025, 1, 1),
			StartAge:       35,
			LifeExpectancy: 90,
			Earners: []domain.Earner{
				{Name: "Alex", MonthlyIncome: dec(450000), IncomeGrowth: true},
				{Name: "Sam", MonthlyIncome: dec(150000), IncomeGrowth: false},
			},
			InitialMonthlyExpense: dec(280000),
			PostFireIncome:        dec(50000),
			Standard: domain.ScenarioParameters{
				AnnualReturnRate: dec(0.05), AnnualReturnStd: dec(0.15),
				InflationRate: dec(0.015), IncomeGrowthRate: dec(0.02), ExpenseGrowthRate: dec(0.015),
			},
			Optimistic: domain.ScenarioParameters{
				AnnualReturnRate: dec(0.07), AnnualReturnStd: dec(0.15),
				InflationRate: dec(0.01), IncomeGrowthRate: dec(0.03), ExpenseGrowthRate: dec(0.01),
			},
			Pessimistic: domain.ScenarioParameters{
				AnnualReturnRate: dec(0.02), AnnualReturnStd: dec(0.15),
				InflationRate: dec(0.02), IncomeGrowthRate: dec(0.01), ExpenseGrowthRate: dec(0.02),
			},
		},
		InitialState: domain.InitialState{
			Cash:             dec(5000000),
			TaxableStock:     dec(12000000),
			TaxableCostBasis: dec(9000000),
			NISABalance:      dec(6000000),
			NISACostBasis:    dec(5000000),
		},
		Fire: domain.FireConfig{
			BaseExpenseByStage: map[domain.LifeStage]decimal.Decimal{
				domain.StageYoungChild: dec(2800000),
				domain.StageElementary: dec(3000000),
				domain.StageJuniorHigh: dec(3200000),
				domain.StageHighSchool: dec(3300000),
				domain.StageUniversity: dec(3400000),
				domain.StageEmptyNest:  dec(2500000),
			},
			AdditionalChildExpenseByStage: map[domain.LifeStage]decimal.Decimal{
				domain.StageYoungChild: dec(300000),
				domain.StageElementary: dec(400000),
				domain.StageJuniorHigh: dec(500000),
				domain.StageHighSchool: dec(500000),
				domain.StageUniversity: dec(600000),
			},
			DiscretionaryRatioByStage: map[domain.LifeStage]decimal.Decimal{
				domain.StageYoungChild: dec(0.25),
				domain.StageElementary: dec(0.25),
				domain.StageJuniorHigh: dec(0.25),
				domain.StageHighSchool: dec(0.25),
				domain.StageUniversity: dec(0.30),
				domain.StageEmptyNest:  dec(0.40),
			},
			ExpenseCategories: exampleCategories(),
		},
		DynamicExpenseReduction: domain.DynamicReductionConfig{
			Enabled: true,
			IncomeBoost: domain.LevelValues{
				Normal: decimal.Zero, Warning: decimal.Zero, Concern: dec(50000), Crisis: dec(100000),
			},
		},
		Education: domain.EducationConfig{
			Enabled: true,
			Children: []domain.Child{
				{Name: "First", Birthdate: day(2022, 2, 26), Nursery: "public", University: "private_science"},
				{Name: "Second", Birthdate: day(2026, 6, 1)},
			},
		},
		Pension: domain.PensionConfig{
			Enabled: true,
			People: []domain.PensionPerson{
				{Name: "Alex", Birthdate: day(1990, 5, 10), PensionType: domain.PensionEmployee, AvgMonthlySalary: dec(450000)},
				{Name: "Sam", Birthdate: day(1991, 8, 3), PensionType: domain.PensionNational},
			},
		},
		ChildAllowance:  domain.ChildAllowanceConfig{Enabled: true},
		SocialInsurance: domain.SocialInsuranceConfig{Enabled: true},
		Mortgage: domain.MortgageConfig{
			Enabled:        true,
			MonthlyPayment: dec(120000),
			EndDate:        day(2055, 12, 1),
			MonthlyReserve: dec(10000),
		},
		HouseMaintenance: domain.HouseMaintenanceConfig{
			Enabled: true,
			Items: []domain.MaintenanceItem{
				{Name: "exterior paint", Cost: dec(1500000), FirstYear: 2035, FrequencyYears: 15},
				{Name: "water heater", Cost: dec(400000), FirstYear: 2030, FrequencyYears: 12},
			},
		},
		Workation: domain.WorkationConfig{Enabled: true, AnnualCost: dec(600000), StartChildIndex: 0, StartChildAge: 8},
		MonteCarlo: domain.MonteCarloConfig{
			Enabled: true,
			Seed:    42,
			EnhancedModel: domain.EnhancedModelConfig{
				Enabled: true,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

func exampleCategories() domain.ExpenseCategoriesConfig {
	defs := []domain.CategoryDefinition{
		{ID: "food_home", Name: "Groceries"},
		{ID: "utilities_electricity", Name: "Electricity"},
		{ID: "utilities_other", Name: "Gas, water and telecom"},
		{ID: "daily_goods", Name: "Daily goods"},
		{ID: "insurance", Name: "Insurance"},
		{ID: "medical", Name: "Medical"},
		{ID: "food_out", Name: "Eating out", Discretionary: true},
		{ID: "travel", Name: "Travel", Discretionary: true},
		{ID: "hobbies", Name: "Hobbies", Discretionary: true},
	}
	// Essential + discretionary per stage; totals match BaseExpenseByStage.
	budget := func(essential, discretionary float64) map[string]decimal.Decimal {
		return map[string]decimal.Decimal{
			"food_home":             dec(essential * 0.40),
			"utilities_electricity": dec(essential * 0.08),
			"utilities_other":       dec(essential * 0.17),
			"daily_goods":           dec(essential * 0.10),
			"insurance":             dec(essential * 0.15),
			"medical":               dec(essential * 0.10),
			"food_out":              dec(discretionary * 0.40),
			"travel":                dec(discretionary * 0.40),
			"hobbies":               dec(discretionary * 0.20),
		}
	}
	return domain.ExpenseCategoriesConfig{
		Enabled:     true,
		Definitions: defs,
		BudgetsByStage: map[domain.LifeStage]map[string]decimal.Decimal{
			domain.StageYoungChild: budget(2100000, 700000),
			domain.StageElementary: budget(2250000, 750000),
			domain.StageJuniorHigh: budget(2400000, 800000),
			domain.StageHighSchool: budget(2475000, 825000),
			domain.StageUniversity: budget(2380000, 1020000),
			domain.StageEmptyNest:  budget(1500000, 1000000),
		},
	}
}
