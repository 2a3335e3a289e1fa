package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// budgetSumTolerance is the largest accepted gap between a stage's category
// budgets and its flat base expense.
var budgetSumTolerance = decimal.NewFromInt(100)

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads, defaults and validates a YAML configuration file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes YAML bytes, applies defaults and validates the result.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	var config domain.Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	ApplyDefaults(&config)

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func invalid(field, format string, args ...any) error {
	return &domain.ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ValidateConfiguration checks every section and returns all problems joined.
// Each element is a *domain.ConfigurationError.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	var errs []error
	errs = append(errs, ip.validateSimulation(&config.Simulation)...)
	errs = append(errs, ip.validateInitialState(&config.InitialState, config.AssetAllocation.WrapperCap())...)
	errs = append(errs, ip.validateFire(&config.Fire)...)
	errs = append(errs, ip.validateAssetAllocation(&config.AssetAllocation)...)
	errs = append(errs, ip.validateDynamicReduction(&config.DynamicExpenseReduction)...)
	errs = append(errs, ip.validateHousehold(config)...)
	errs = append(errs, ip.validateMonteCarlo(&config.MonteCarlo)...)
	return errors.Join(errs...)
}

func (ip *InputParser) validateSimulation(sim *domain.SimulationConfig) []error {
	var errs []error
	if sim.StartAge <= 0 {
		errs = append(errs, invalid("simulation.start_age", "must be positive"))
	}
	if sim.LifeExpectancy <= sim.StartAge {
		errs = append(errs, invalid("simulation.life_expectancy", "must exceed start_age (%d)", sim.StartAge))
	}
	if sim.Years < 0 {
		errs = append(errs, invalid("simulation.years", "cannot be negative"))
	}
	if sim.InitialLaborIncome.IsNegative() || sim.InitialMonthlyExpense.IsNegative() || sim.PostFireIncome.IsNegative() {
		errs = append(errs, invalid("simulation", "income and expense amounts cannot be negative"))
	}
	for i, e := range sim.Earners {
		if e.MonthlyIncome.IsNegative() {
			errs = append(errs, invalid(fmt.Sprintf("simulation.earners[%d].monthly_income", i), "cannot be negative"))
		}
	}

	scenarios := map[string]domain.ScenarioParameters{
		domain.ScenarioStandard:    sim.Standard,
		domain.ScenarioOptimistic:  sim.Optimistic,
		domain.ScenarioPessimistic: sim.Pessimistic,
	}
	for _, name := range domain.ScenarioNames {
		p := scenarios[name]
		field := "simulation." + name
		if p.AnnualReturnRate.LessThanOrEqual(decimal.NewFromInt(-1)) || p.AnnualReturnRate.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, invalid(field+".annual_return_rate", "must be in (-1, 1], got %s", p.AnnualReturnRate))
		}
		if p.AnnualReturnStd.IsNegative() {
			errs = append(errs, invalid(field+".annual_return_std", "cannot be negative"))
		}
		if p.InflationRate.LessThanOrEqual(decimal.NewFromInt(-1)) {
			errs = append(errs, invalid(field+".inflation_rate", "must be greater than -1"))
		}
	}
	if !sim.Optimistic.AnnualReturnRate.GreaterThan(sim.Standard.AnnualReturnRate) {
		errs = append(errs, invalid("simulation.optimistic.annual_return_rate",
			"optimistic return %s must exceed standard return %s", sim.Optimistic.AnnualReturnRate, sim.Standard.AnnualReturnRate))
	}
	if !sim.Standard.AnnualReturnRate.GreaterThan(sim.Pessimistic.AnnualReturnRate) {
		errs = append(errs, invalid("simulation.pessimistic.annual_return_rate",
			"pessimistic return %s must be below standard return %s", sim.Pessimistic.AnnualReturnRate, sim.Standard.AnnualReturnRate))
	}
	return errs
}

func (ip *InputParser) validateInitialState(s *domain.InitialState, wrapperCap decimal.Decimal) []error {
	var errs []error
	for field, v := range map[string]decimal.Decimal{
		"cash":                       s.Cash,
		"taxable_stock":              s.TaxableStock,
		"taxable_cost_basis":         s.TaxableCostBasis,
		"nisa_balance":               s.NISABalance,
		"nisa_cost_basis":            s.NISACostBasis,
		"nisa_contributed_this_year": s.NISAContributedThisYear,
	} {
		if v.IsNegative() {
			errs = append(errs, invalid("initial_state."+field, "cannot be negative"))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	if err := s.AccountState().Validate(wrapperCap); err != nil {
		errs = append(errs, invalid("initial_state", "%v", err))
	}
	return errs
}

func (ip *InputParser) validateFire(f *domain.FireConfig) []error {
	var errs []error
	if f.SafetyBuffer.LessThan(decimal.NewFromInt(1)) {
		errs = append(errs, invalid("fire.safety_buffer", "must be at least 1, got %s", f.SafetyBuffer))
	}
	if !f.Tolerance.IsPositive() {
		errs = append(errs, invalid("fire.tolerance", "must be positive"))
	}
	if f.MaxIterations <= 0 {
		errs = append(errs, invalid("fire.max_iterations", "must be positive"))
	}
	if f.UpperBound.IsNegative() || f.QuickCheckMultiple.IsNegative() || f.ManualAnnualExpense.IsNegative() {
		errs = append(errs, invalid("fire", "upper_bound, quick_check_multiple and manual_annual_expense cannot be negative"))
	}
	for stage, ratio := range f.DiscretionaryRatioByStage {
		if !stage.Valid() {
			errs = append(errs, invalid("fire.discretionary_ratio_by_stage", "unknown life stage %q", stage))
		}
		if ratio.IsNegative() || ratio.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, invalid("fire.discretionary_ratio_by_stage."+string(stage), "must be between 0 and 1"))
		}
	}
	for _, m := range []map[domain.LifeStage]decimal.Decimal{f.BaseExpenseByStage, f.AdditionalChildExpenseByStage} {
		for stage := range m {
			if !stage.Valid() {
				errs = append(errs, invalid("fire.base_expense_by_stage", "unknown life stage %q", stage))
			}
		}
	}
	errs = append(errs, ip.validateCategories(f)...)
	return errs
}

func (ip *InputParser) validateCategories(f *domain.FireConfig) []error {
	cats := f.ExpenseCategories
	if !cats.Enabled {
		return nil
	}
	var errs []error
	if len(cats.Definitions) == 0 {
		errs = append(errs, invalid("fire.expense_categories.definitions", "at least one category is required when enabled"))
	}
	known := make(map[string]bool, len(cats.Definitions))
	for _, def := range cats.Definitions {
		if def.ID == "" {
			errs = append(errs, invalid("fire.expense_categories.definitions", "category id is required"))
			continue
		}
		if known[def.ID] {
			errs = append(errs, invalid("fire.expense_categories.definitions", "duplicate category id %q", def.ID))
		}
		known[def.ID] = true
	}
	for stage, budgets := range cats.BudgetsByStage {
		if !stage.Valid() {
			errs = append(errs, invalid("fire.expense_categories.budgets_by_stage", "unknown life stage %q", stage))
		}
		sum := decimal.Zero
		for id, amount := range budgets {
			if !known[id] {
				errs = append(errs, invalid("fire.expense_categories.budgets_by_stage."+string(stage), "undefined category %q", id))
			}
			if amount.IsNegative() {
				errs = append(errs, invalid("fire.expense_categories.budgets_by_stage."+string(stage)+"."+id, "cannot be negative"))
			}
			sum = sum.Add(amount)
		}
		if base, ok := f.BaseExpenseByStage[stage]; ok && sum.Sub(base).Abs().GreaterThan(budgetSumTolerance) {
			errs = append(errs, invalid("fire.expense_categories.budgets_by_stage."+string(stage),
				"category total %s does not match base_expense_by_stage %s", sum.StringFixed(0), base.StringFixed(0)))
		}
	}
	return errs
}

func (ip *InputParser) validateAssetAllocation(a *domain.AssetAllocationConfig) []error {
	var errs []error
	if a.CashBufferMonths < 0 {
		errs = append(errs, invalid("asset_allocation.cash_buffer_months", "cannot be negative"))
	}
	if a.MinCashBalance.IsNegative() || a.NISAAnnualLimit.IsNegative() {
		errs = append(errs, invalid("asset_allocation", "min_cash_balance and nisa_annual_limit cannot be negative"))
	}
	if a.AutoInvestThreshold.LessThan(decimal.NewFromInt(1)) {
		errs = append(errs, invalid("asset_allocation.auto_invest_threshold", "must be at least 1"))
	}
	if a.CapitalGainsTaxRate.IsNegative() || a.CapitalGainsTaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errs = append(errs, invalid("asset_allocation.capital_gains_tax_rate", "must be in [0, 1)"))
	}
	return errs
}

func (ip *InputParser) validateDynamicReduction(r *domain.DynamicReductionConfig) []error {
	if !r.Enabled {
		return nil
	}
	var errs []error
	th := r.DrawdownThresholds
	if !th.Warning.IsNegative() || !th.Concern.LessThan(th.Warning) || !th.Crisis.LessThan(th.Concern) {
		errs = append(errs, invalid("dynamic_expense_reduction.drawdown_thresholds",
			"must be negative and strictly decreasing (warning > concern > crisis)"))
	}
	if th.Crisis.LessThanOrEqual(decimal.NewFromInt(-1)) {
		errs = append(errs, invalid("dynamic_expense_reduction.drawdown_thresholds.crisis", "must be greater than -1"))
	}
	for _, level := range []domain.DrawdownLevel{domain.DrawdownNormal, domain.DrawdownWarning, domain.DrawdownConcern, domain.DrawdownCrisis} {
		rate := r.ReductionRates.For(level)
		if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
			errs = append(errs, invalid("dynamic_expense_reduction.reduction_rates."+level.String(), "must be between 0 and 1"))
		}
		if r.IncomeBoost.For(level).IsNegative() {
			errs = append(errs, invalid("dynamic_expense_reduction.income_boost."+level.String(), "cannot be negative"))
		}
	}
	return errs
}

func (ip *InputParser) validateHousehold(config *domain.Configuration) []error {
	var errs []error
	for i, c := range config.Education.Children {
		if c.Birthdate.IsZero() {
			errs = append(errs, invalid(fmt.Sprintf("education.children[%d].birthdate", i), "is required"))
		}
	}
	if config.Pension.Enabled {
		for i, p := range config.Pension.People {
			field := fmt.Sprintf("pension.people[%d]", i)
			if p.Birthdate.IsZero() {
				errs = append(errs, invalid(field+".birthdate", "is required"))
			}
			switch p.PensionType {
			case domain.PensionEmployee, domain.PensionNational, domain.PensionFixed:
			default:
				errs = append(errs, invalid(field+".pension_type", "unknown type %q", p.PensionType))
			}
		}
	}
	m := config.Mortgage
	if m.Enabled {
		amortized := m.Principal.IsPositive()
		if amortized && (m.TermYears <= 0 || m.StartDate.IsZero()) {
			errs = append(errs, invalid("mortgage", "amortized loans need term_years and start_date"))
		}
		if !amortized && m.MonthlyPayment.IsPositive() && m.EndDate.IsZero() {
			errs = append(errs, invalid("mortgage.end_date", "is required with monthly_payment"))
		}
	}
	if config.HouseMaintenance.Enabled {
		for i, item := range config.HouseMaintenance.Items {
			if item.FrequencyYears <= 0 {
				errs = append(errs, invalid(fmt.Sprintf("house_maintenance.items[%d].frequency_years", i), "must be positive"))
			}
		}
	}
	w := config.Workation
	if w.Enabled && (w.StartChildIndex < 0 || w.StartChildIndex >= len(config.Education.Children)) {
		errs = append(errs, invalid("workation.start_child_index", "references child %d of %d", w.StartChildIndex, len(config.Education.Children)))
	}
	return errs
}

func (ip *InputParser) validateMonteCarlo(mc *domain.MonteCarloConfig) []error {
	var errs []error
	if mc.Enabled && mc.Iterations <= 0 {
		errs = append(errs, invalid("monte_carlo.iterations", "must be positive"))
	}
	if mc.ReturnStdDev < 0 {
		errs = append(errs, invalid("monte_carlo.return_std_dev", "cannot be negative"))
	}
	if mc.MeanReversionSpeed < 0 || mc.MeanReversionSpeed >= 1 {
		errs = append(errs, invalid("monte_carlo.mean_reversion_speed", "must be in [0, 1)"))
	}
	em := mc.EnhancedModel
	if em.Enabled {
		if em.GarchOmega <= 0 {
			errs = append(errs, invalid("monte_carlo.enhanced_model.garch_omega", "must be positive"))
		}
		if em.GarchAlpha < 0 || em.GarchBeta < 0 || em.GarchAlpha+em.GarchBeta >= 1 {
			errs = append(errs, invalid("monte_carlo.enhanced_model", "garch_alpha and garch_beta must be non-negative with alpha + beta < 1"))
		}
		if em.VolatilityFloor <= 0 || em.VolatilityFloor > em.VolatilityCeiling {
			errs = append(errs, invalid("monte_carlo.enhanced_model.volatility_floor", "must be positive and not above volatility_ceiling"))
		}
		if em.Window <= 0 {
			errs = append(errs, invalid("monte_carlo.enhanced_model.window", "must be positive"))
		}
		if em.CrashThreshold >= 0 || em.BubbleThreshold <= 0 {
			errs = append(errs, invalid("monte_carlo.enhanced_model", "crash_threshold must be negative and bubble_threshold positive"))
		}
		for _, s := range []float64{em.MRSpeedCrash, em.MRSpeedNormal, em.MRSpeedBubble} {
			if s < 0 || s > 1 {
				errs = append(errs, invalid("monte_carlo.enhanced_model", "mean reversion speeds must be between 0 and 1"))
				break
			}
		}
	}
	return errs
}
