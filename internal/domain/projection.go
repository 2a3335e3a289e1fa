package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SimulationClock is the position of one monthly cycle.
type SimulationClock struct {
	MonthIndex int       `json:"month_index"`
	Date       time.Time `json:"date"`
	YearOffset float64   `json:"year_offset"`
}

// MonthlyResult is the snapshot emitted at the end of each simulated month.
type MonthlyResult struct {
	Month          int             `json:"month"`
	Date           time.Time       `json:"date"`
	Age            float64         `json:"age"`
	LifeStage      LifeStage       `json:"life_stage"`
	Income         decimal.Decimal `json:"income"`
	Expense        decimal.Decimal `json:"expense"`
	Cash           decimal.Decimal `json:"cash"`
	TaxableStock   decimal.Decimal `json:"taxable_stock"`
	WrapperBalance decimal.Decimal `json:"wrapper_balance"`
	TotalAssets    decimal.Decimal `json:"total_assets"`
	RealizedGain   decimal.Decimal `json:"realized_gain"`
	TaxPaid        decimal.Decimal `json:"tax_paid"`
	ReturnRate     float64         `json:"return_rate"`
	FireAchieved   bool            `json:"fire_achieved"`
	DrawdownLevel  DrawdownLevel   `json:"drawdown_level"`
	Ruined         bool            `json:"ruined"`
}

// ScenarioResult is the output of one deterministic run.
type ScenarioResult struct {
	Scenario     string          `json:"scenario"`
	Months       []MonthlyResult `json:"months"`
	FireAchieved bool            `json:"fire_achieved"`
	FireMonth    int             `json:"fire_month"`
	FireDate     time.Time       `json:"fire_date,omitempty"`
	FireAge      float64         `json:"fire_age,omitempty"`
	Ruined       bool            `json:"ruined"`
	RuinMonth    int             `json:"ruin_month,omitempty"`
	FinalAssets  decimal.Decimal `json:"final_assets"`
	FinalState   AccountState    `json:"final_state"`
}

// ScenarioComparison groups the deterministic runs of one configuration.
type ScenarioComparison struct {
	StartDate     time.Time          `json:"start_date"`
	InitialAssets decimal.Decimal    `json:"initial_assets"`
	Scenarios     []ScenarioResult   `json:"scenarios"`
	FireTarget    *FireTargetResult  `json:"fire_target,omitempty"`
	MonteCarlo    *MonteCarloResults `json:"monte_carlo,omitempty"`
	Assumptions   []string           `json:"assumptions,omitempty"`
}

// Scenario returns the named run, if present.
func (c *ScenarioComparison) Scenario(name string) (ScenarioResult, bool) {
	for _, s := range c.Scenarios {
		if s.Scenario == name {
			return s, true
		}
	}
	return ScenarioResult{}, false
}

// FireTargetResult is the bisection solver's recommendation.
type FireTargetResult struct {
	AnnualExpense     decimal.Decimal            `json:"annual_expense"`
	MinimumRequired   decimal.Decimal            `json:"minimum_required"`
	SafetyBuffer      decimal.Decimal            `json:"safety_buffer"`
	RecommendedTarget decimal.Decimal            `json:"recommended_target"`
	ByScenario        map[string]decimal.Decimal `json:"by_scenario"`
	FourPercentRule   decimal.Decimal            `json:"four_percent_rule"`
	CurrentAssets     decimal.Decimal            `json:"current_assets"`
	ProgressRate      decimal.Decimal            `json:"progress_rate"`
	Shortfall         decimal.Decimal            `json:"shortfall"`
	Iterations        int                        `json:"iterations"`
}

// MonteCarloResults aggregates the stochastic runs.
type MonteCarloResults struct {
	Simulations       []SimulationOutcome `json:"simulations"`
	NumSimulations    int                 `json:"num_simulations"`
	Enhanced          bool                `json:"enhanced"`
	StartMonth        int                 `json:"start_month"`
	HorizonMonths     int                 `json:"horizon_months"`
	SuccessRate       decimal.Decimal     `json:"success_rate"`
	MeanFinalAssets   decimal.Decimal     `json:"mean_final_assets"`
	MedianFinalAssets decimal.Decimal     `json:"median_final_assets"`
	PercentileRanges  PercentileRanges    `json:"percentile_ranges"`

	// DeterministicFinalAssets is the same decumulation on the mean return path.
	DeterministicFinalAssets decimal.Decimal `json:"deterministic_final_assets"`
}

// SimulationOutcome is one Monte Carlo iteration.
type SimulationOutcome struct {
	Iteration   int             `json:"iteration"`
	Seed        int64           `json:"seed"`
	FinalAssets decimal.Decimal `json:"final_assets"`
	Success     bool            `json:"success"`
	RuinMonth   int             `json:"ruin_month,omitempty"`
	MaxDrawdown float64         `json:"max_drawdown"`
}

// PercentileRanges represents percentile ranges for Monte Carlo results
type PercentileRanges struct {
	P10 decimal.Decimal `json:"p10"`
	P25 decimal.Decimal `json:"p25"`
	P50 decimal.Decimal `json:"p50"`
	P75 decimal.Decimal `json:"p75"`
	P90 decimal.Decimal `json:"p90"`
}
