package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Scenario names for the deterministic parameter sets.
const (
	ScenarioStandard    = "standard"
	ScenarioOptimistic  = "optimistic"
	ScenarioPessimistic = "pessimistic"
)

// ScenarioNames lists the deterministic scenarios in reporting order.
var ScenarioNames = []string{ScenarioStandard, ScenarioOptimistic, ScenarioPessimistic}

// Configuration is the immutable input to every simulation run.
type Configuration struct {
	Simulation              SimulationConfig       `yaml:"simulation" json:"simulation"`
	InitialState            InitialState           `yaml:"initial_state" json:"initial_state"`
	Fire                    FireConfig             `yaml:"fire" json:"fire"`
	AssetAllocation         AssetAllocationConfig  `yaml:"asset_allocation" json:"asset_allocation"`
	DynamicExpenseReduction DynamicReductionConfig `yaml:"dynamic_expense_reduction" json:"dynamic_expense_reduction"`
	Education               EducationConfig        `yaml:"education" json:"education"`
	Pension                 PensionConfig          `yaml:"pension" json:"pension"`
	ChildAllowance          ChildAllowanceConfig   `yaml:"child_allowance" json:"child_allowance"`
	SocialInsurance         SocialInsuranceConfig  `yaml:"social_insurance" json:"social_insurance"`
	Mortgage                MortgageConfig         `yaml:"mortgage" json:"mortgage"`
	HouseMaintenance        HouseMaintenanceConfig `yaml:"house_maintenance" json:"house_maintenance"`
	Workation               WorkationConfig        `yaml:"workation" json:"workation"`
	MonteCarlo              MonteCarloConfig       `yaml:"monte_carlo" json:"monte_carlo"`
}

// SimulationConfig holds horizon, household income and scenario parameters.
type SimulationConfig struct {
	StartDate             time.Time          `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	StartAge              int                `yaml:"start_age" json:"start_age"`
	LifeExpectancy        int                `yaml:"life_expectancy" json:"life_expectancy"`
	Years                 int                `yaml:"years,omitempty" json:"years,omitempty"`
	InitialLaborIncome    decimal.Decimal    `yaml:"initial_labor_income" json:"initial_labor_income"` // monthly
	Earners               []Earner           `yaml:"earners,omitempty" json:"earners,omitempty"`
	InitialMonthlyExpense decimal.Decimal    `yaml:"initial_monthly_expense" json:"initial_monthly_expense"`
	PostFireIncome        decimal.Decimal    `yaml:"post_fire_income" json:"post_fire_income"` // monthly
	RuinThreshold         decimal.Decimal    `yaml:"ruin_threshold" json:"ruin_threshold"`
	Standard              ScenarioParameters `yaml:"standard" json:"standard"`
	Optimistic            ScenarioParameters `yaml:"optimistic" json:"optimistic"`
	Pessimistic           ScenarioParameters `yaml:"pessimistic" json:"pessimistic"`
}

// HorizonYears returns the configured horizon, defaulting to the years until life expectancy.
func (s SimulationConfig) HorizonYears() int {
	if s.Years > 0 {
		return s.Years
	}
	return s.LifeExpectancy - s.StartAge
}

// Earner is one household member with labor income before FI.
type Earner struct {
	Name          string          `yaml:"name" json:"name"`
	MonthlyIncome decimal.Decimal `yaml:"monthly_income" json:"monthly_income"`
	IncomeGrowth  bool            `yaml:"income_growth" json:"income_growth"`
}

// ScenarioParameters is one deterministic market and inflation assumption set.
type ScenarioParameters struct {
	Name              string          `yaml:"-" json:"name"`
	AnnualReturnRate  decimal.Decimal `yaml:"annual_return_rate" json:"annual_return_rate"`
	AnnualReturnStd   decimal.Decimal `yaml:"annual_return_std" json:"annual_return_std"`
	InflationRate     decimal.Decimal `yaml:"inflation_rate" json:"inflation_rate"`
	IncomeGrowthRate  decimal.Decimal `yaml:"income_growth_rate" json:"income_growth_rate"`
	ExpenseGrowthRate decimal.Decimal `yaml:"expense_growth_rate" json:"expense_growth_rate"`
}

// Scenario returns the named parameter set with its Name populated.
func (c *Configuration) Scenario(name string) (ScenarioParameters, error) {
	var p ScenarioParameters
	switch name {
	case ScenarioStandard:
		p = c.Simulation.Standard
	case ScenarioOptimistic:
		p = c.Simulation.Optimistic
	case ScenarioPessimistic:
		p = c.Simulation.Pessimistic
	default:
		return ScenarioParameters{}, fmt.Errorf("unknown scenario %q", name)
	}
	p.Name = name
	return p, nil
}

// InitialState is the starting balance sheet.
type InitialState struct {
	Cash                    decimal.Decimal `yaml:"cash" json:"cash"`
	TaxableStock            decimal.Decimal `yaml:"taxable_stock" json:"taxable_stock"`
	TaxableCostBasis        decimal.Decimal `yaml:"taxable_cost_basis" json:"taxable_cost_basis"`
	NISABalance             decimal.Decimal `yaml:"nisa_balance" json:"nisa_balance"`
	NISACostBasis           decimal.Decimal `yaml:"nisa_cost_basis" json:"nisa_cost_basis"`
	NISAContributedThisYear decimal.Decimal `yaml:"nisa_contributed_this_year" json:"nisa_contributed_this_year"`
}

// AccountState converts the configured balances into a ledger state.
func (s InitialState) AccountState() AccountState {
	return AccountState{
		Cash:                       s.Cash,
		TaxableStock:               s.TaxableStock,
		TaxableCostBasis:           s.TaxableCostBasis,
		WrapperBalance:             s.NISABalance,
		WrapperCostBasis:           s.NISACostBasis,
		WrapperContributedThisYear: s.NISAContributedThisYear,
	}
}

// FireConfig controls expense resolution and the FI target search.
type FireConfig struct {
	SafetyBuffer                  decimal.Decimal               `yaml:"safety_buffer" json:"safety_buffer"`
	Tolerance                     decimal.Decimal               `yaml:"tolerance" json:"tolerance"`
	MaxIterations                 int                           `yaml:"max_iterations" json:"max_iterations"`
	UpperBound                    decimal.Decimal               `yaml:"upper_bound" json:"upper_bound"`
	QuickCheckMultiple            decimal.Decimal               `yaml:"quick_check_multiple" json:"quick_check_multiple"`
	ManualAnnualExpense           decimal.Decimal               `yaml:"manual_annual_expense" json:"manual_annual_expense"`
	BaseExpenseByStage            map[LifeStage]decimal.Decimal `yaml:"base_expense_by_stage,omitempty" json:"base_expense_by_stage,omitempty"`
	AdditionalChildExpenseByStage map[LifeStage]decimal.Decimal `yaml:"additional_child_expense_by_stage,omitempty" json:"additional_child_expense_by_stage,omitempty"`
	DiscretionaryRatioByStage     map[LifeStage]decimal.Decimal `yaml:"discretionary_ratio_by_stage,omitempty" json:"discretionary_ratio_by_stage,omitempty"`
	ExpenseCategories             ExpenseCategoriesConfig       `yaml:"expense_categories" json:"expense_categories"`
}

// ExpenseCategoriesConfig defines categorized budgeting.
type ExpenseCategoriesConfig struct {
	Enabled        bool                                     `yaml:"enabled" json:"enabled"`
	Definitions    []CategoryDefinition                     `yaml:"definitions" json:"definitions"`
	BudgetsByStage map[LifeStage]map[string]decimal.Decimal `yaml:"budgets_by_stage" json:"budgets_by_stage"`
}

// CategoryDefinition declares one expense category.
type CategoryDefinition struct {
	ID            string `yaml:"id" json:"id"`
	Name          string `yaml:"name" json:"name"`
	Discretionary bool   `yaml:"discretionary" json:"discretionary"`
}

// AssetAllocationConfig controls the cash buffer, auto-invest and NISA handling.
type AssetAllocationConfig struct {
	CashBufferMonths    int             `yaml:"cash_buffer_months" json:"cash_buffer_months"`
	MinCashBalance      decimal.Decimal `yaml:"min_cash_balance" json:"min_cash_balance"`
	AutoInvestThreshold decimal.Decimal `yaml:"auto_invest_threshold" json:"auto_invest_threshold"`
	NISAEnabled         *bool           `yaml:"nisa_enabled,omitempty" json:"nisa_enabled,omitempty"`
	NISAAnnualLimit     decimal.Decimal `yaml:"nisa_annual_limit" json:"nisa_annual_limit"`
	InvestBeyondNISA    *bool           `yaml:"invest_beyond_nisa,omitempty" json:"invest_beyond_nisa,omitempty"`
	CapitalGainsTaxRate decimal.Decimal `yaml:"capital_gains_tax_rate" json:"capital_gains_tax_rate"`
}

// NISAOn reports whether the wrapper account is used. Defaults to true.
func (a AssetAllocationConfig) NISAOn() bool {
	return a.NISAEnabled == nil || *a.NISAEnabled
}

// InvestsBeyondNISA reports whether surplus above the NISA cap goes to the taxable pool. Defaults to true.
func (a AssetAllocationConfig) InvestsBeyondNISA() bool {
	return a.InvestBeyondNISA == nil || *a.InvestBeyondNISA
}

// WrapperCap returns the effective annual wrapper cap (zero when NISA is off).
func (a AssetAllocationConfig) WrapperCap() decimal.Decimal {
	if !a.NISAOn() {
		return decimal.Zero
	}
	return a.NISAAnnualLimit
}

// DynamicReductionConfig drives expense cuts and income boosts by drawdown tier.
type DynamicReductionConfig struct {
	Enabled            bool            `yaml:"enabled" json:"enabled"`
	DrawdownThresholds LevelThresholds `yaml:"drawdown_thresholds" json:"drawdown_thresholds"`
	ReductionRates     LevelValues     `yaml:"reduction_rates" json:"reduction_rates"`
	IncomeBoost        LevelValues     `yaml:"income_boost" json:"income_boost"`
}

// LevelThresholds are the (negative) drawdown fractions that open each tier.
type LevelThresholds struct {
	Warning decimal.Decimal `yaml:"warning" json:"warning"`
	Concern decimal.Decimal `yaml:"concern" json:"concern"`
	Crisis  decimal.Decimal `yaml:"crisis" json:"crisis"`
}

// LevelValues holds one value per drawdown tier.
type LevelValues struct {
	Normal  decimal.Decimal `yaml:"normal" json:"normal"`
	Warning decimal.Decimal `yaml:"warning" json:"warning"`
	Concern decimal.Decimal `yaml:"concern" json:"concern"`
	Crisis  decimal.Decimal `yaml:"crisis" json:"crisis"`
}

// For returns the value for level.
func (v LevelValues) For(level DrawdownLevel) decimal.Decimal {
	switch level {
	case DrawdownWarning:
		return v.Warning
	case DrawdownConcern:
		return v.Concern
	case DrawdownCrisis:
		return v.Crisis
	default:
		return v.Normal
	}
}

// Education bands.
const (
	BandNursery      = "nursery"
	BandKindergarten = "kindergarten"
	BandElementary   = "elementary"
	BandJuniorHigh   = "junior_high"
	BandHigh         = "high"
	BandUniversity   = "university"
)

// EducationConfig lists the children and the per-band cost tables.
type EducationConfig struct {
	Enabled  bool                                  `yaml:"enabled" json:"enabled"`
	Children []Child                               `yaml:"children" json:"children"`
	Costs    map[string]map[string]decimal.Decimal `yaml:"costs" json:"costs"`
}

// Child is one child with the chosen school type per band.
type Child struct {
	Name         string    `yaml:"name" json:"name"`
	Birthdate    time.Time `yaml:"birthdate" json:"birthdate"`
	Nursery      string    `yaml:"nursery,omitempty" json:"nursery,omitempty"`
	Kindergarten string    `yaml:"kindergarten,omitempty" json:"kindergarten,omitempty"`
	Elementary   string    `yaml:"elementary,omitempty" json:"elementary,omitempty"`
	JuniorHigh   string    `yaml:"junior_high,omitempty" json:"junior_high,omitempty"`
	High         string    `yaml:"high,omitempty" json:"high,omitempty"`
	University   string    `yaml:"university,omitempty" json:"university,omitempty"`
}

// PathFor returns the configured school type for band.
func (c Child) PathFor(band string) string {
	switch band {
	case BandNursery:
		return c.Nursery
	case BandKindergarten:
		return c.Kindergarten
	case BandElementary:
		return c.Elementary
	case BandJuniorHigh:
		return c.JuniorHigh
	case BandHigh:
		return c.High
	case BandUniversity:
		return c.University
	}
	return ""
}

// Pension types.
const (
	PensionEmployee = "employee"
	PensionNational = "national"
	PensionFixed    = "fixed"
)

// PensionConfig configures the public pension of each adult.
type PensionConfig struct {
	Enabled  bool            `yaml:"enabled" json:"enabled"`
	StartAge int             `yaml:"start_age" json:"start_age"`
	People   []PensionPerson `yaml:"people" json:"people"`
}

// PensionPerson is one adult's contribution history.
type PensionPerson struct {
	Name                      string          `yaml:"name" json:"name"`
	Birthdate                 time.Time       `yaml:"birthdate" json:"birthdate"`
	PensionType               string          `yaml:"pension_type" json:"pension_type"`
	AvgMonthlySalary          decimal.Decimal `yaml:"avg_monthly_salary" json:"avg_monthly_salary"`
	WorkStartAge              int             `yaml:"work_start_age" json:"work_start_age"`
	NationalContributionYears int             `yaml:"national_contribution_years" json:"national_contribution_years"`
	AnnualAmount              decimal.Decimal `yaml:"annual_amount" json:"annual_amount"`
}

// ChildAllowanceConfig enables the public child benefit.
type ChildAllowanceConfig struct {
	Enabled     bool            `yaml:"enabled" json:"enabled"`
	IncomeLimit decimal.Decimal `yaml:"income_limit" json:"income_limit"`
}

// SocialInsuranceConfig covers post-FI premiums.
type SocialInsuranceConfig struct {
	Enabled                bool                  `yaml:"enabled" json:"enabled"`
	NationalPensionMonthly decimal.Decimal       `yaml:"national_pension_monthly" json:"national_pension_monthly"`
	HealthInsurance        HealthInsuranceConfig `yaml:"health_insurance" json:"health_insurance"`
}

// HealthInsuranceConfig is the income-based national health insurance formula.
type HealthInsuranceConfig struct {
	Rate         decimal.Decimal `yaml:"rate" json:"rate"`
	Deduction    decimal.Decimal `yaml:"deduction" json:"deduction"`
	PerMember    decimal.Decimal `yaml:"per_member" json:"per_member"`
	PerHousehold decimal.Decimal `yaml:"per_household" json:"per_household"`
	MaxPremium   decimal.Decimal `yaml:"max_premium" json:"max_premium"`
	Members      int             `yaml:"members" json:"members"`
}

// MortgageConfig is either a fixed payment until EndDate or an amortized loan.
type MortgageConfig struct {
	Enabled        bool            `yaml:"enabled" json:"enabled"`
	MonthlyPayment decimal.Decimal `yaml:"monthly_payment" json:"monthly_payment"`
	EndDate        time.Time       `yaml:"end_date,omitempty" json:"end_date,omitempty"`
	Principal      decimal.Decimal `yaml:"principal" json:"principal"`
	AnnualRate     decimal.Decimal `yaml:"annual_rate" json:"annual_rate"`
	StartDate      time.Time       `yaml:"start_date,omitempty" json:"start_date,omitempty"`
	TermYears      int             `yaml:"term_years" json:"term_years"`
	MonthlyReserve decimal.Decimal `yaml:"monthly_reserve" json:"monthly_reserve"`
}

// HouseMaintenanceConfig lists periodic repair items.
type HouseMaintenanceConfig struct {
	Enabled bool              `yaml:"enabled" json:"enabled"`
	Items   []MaintenanceItem `yaml:"items" json:"items"`
}

// MaintenanceItem recurs every FrequencyYears starting in FirstYear.
type MaintenanceItem struct {
	Name           string          `yaml:"name" json:"name"`
	Cost           decimal.Decimal `yaml:"cost" json:"cost"`
	FirstYear      int             `yaml:"first_year" json:"first_year"`
	FrequencyYears int             `yaml:"frequency_years" json:"frequency_years"`
}

// WorkationConfig adds a travel budget once a child reaches a given age.
type WorkationConfig struct {
	Enabled         bool            `yaml:"enabled" json:"enabled"`
	AnnualCost      decimal.Decimal `yaml:"annual_cost" json:"annual_cost"`
	StartChildIndex int             `yaml:"start_child_index" json:"start_child_index"`
	StartChildAge   int             `yaml:"start_child_age" json:"start_child_age"`
}

// MonteCarloConfig controls stochastic runs.
type MonteCarloConfig struct {
	Enabled            bool                `yaml:"enabled" json:"enabled"`
	Iterations         int                 `yaml:"iterations" json:"iterations"`
	Seed               int64               `yaml:"seed" json:"seed"`
	Workers            int                 `yaml:"workers" json:"workers"`
	ReturnStdDev       float64             `yaml:"return_std_dev" json:"return_std_dev"`
	MeanReversionSpeed float64             `yaml:"mean_reversion_speed" json:"mean_reversion_speed"`
	Tolerance          float64             `yaml:"tolerance" json:"tolerance"`
	EnhancedModel      EnhancedModelConfig `yaml:"enhanced_model" json:"enhanced_model"`
}

// EnhancedModelConfig parameterizes the GARCH(1,1) + regime mean-reversion generator.
type EnhancedModelConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	GarchOmega        float64 `yaml:"garch_omega" json:"garch_omega"`
	GarchAlpha        float64 `yaml:"garch_alpha" json:"garch_alpha"`
	GarchBeta         float64 `yaml:"garch_beta" json:"garch_beta"`
	VolatilityFloor   float64 `yaml:"volatility_floor" json:"volatility_floor"`
	VolatilityCeiling float64 `yaml:"volatility_ceiling" json:"volatility_ceiling"`
	Window            int     `yaml:"window" json:"window"`
	CrashThreshold    float64 `yaml:"crash_threshold" json:"crash_threshold"`
	BubbleThreshold   float64 `yaml:"bubble_threshold" json:"bubble_threshold"`
	MRSpeedCrash      float64 `yaml:"mr_speed_crash" json:"mr_speed_crash"`
	MRSpeedNormal     float64 `yaml:"mr_speed_normal" json:"mr_speed_normal"`
	MRSpeedBubble     float64 `yaml:"mr_speed_bubble" json:"mr_speed_bubble"`
}
