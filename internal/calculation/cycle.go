package calculation

import (
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/fireplan/fire-simulator/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// CyclePolicy selects which parts of the monthly cycle run. Accumulation,
// decumulation and fixed-withdrawal runs all go through the same Step and
// differ only in these flags.
type CyclePolicy struct {
	AutoInvest        bool
	CheckFI           bool
	CheckRuin         bool // stop the run at the first ruined month
	DynamicReduction  bool
	MaintainCashFloor bool
	PostFire          bool
	// FixedWithdrawal, when positive, replaces the cash-flow calculators with
	// this annual amount grown by inflation.
	FixedWithdrawal decimal.Decimal
}

// FixedWithdrawalPolicy withdraws annual (inflated yearly) with no other cash flows.
func FixedWithdrawalPolicy(annual decimal.Decimal) CyclePolicy {
	return CyclePolicy{CheckRuin: true, PostFire: true, FixedWithdrawal: annual}
}

// CycleState is everything that carries over from one month to the next.
type CycleState struct {
	Clock                 domain.SimulationClock
	Account               domain.AccountState
	Drawdown              domain.DrawdownState
	WorstDrawdown         decimal.Decimal
	FireAchieved          bool
	FireMonth             int
	FireDate              time.Time
	RealizedGainsThisYear decimal.Decimal
	PrevYearRealizedGains decimal.Decimal
	Ruined                bool
	RuinMonth             int
}

// FireChecker decides whether the household could stop working in a state.
type FireChecker interface {
	IsFinanciallyIndependent(state CycleState) bool
}

// CycleEngine advances a household one month at a time under one set of
// scenario parameters.
type CycleEngine struct {
	config   *domain.Configuration
	params   domain.ScenarioParameters
	start    time.Time
	flows    *CashFlowCalculator
	ledger   Ledger
	drawdown DrawdownTracker
	checker  FireChecker
}

// NewCycleEngine creates an engine starting on start.
func NewCycleEngine(config *domain.Configuration, params domain.ScenarioParameters, start time.Time, flows *CashFlowCalculator) *CycleEngine {
	if flows == nil {
		flows = NewCashFlowCalculator(config)
	}
	return &CycleEngine{
		config:   config,
		params:   params,
		start:    dateutil.BeginningOfMonth(start),
		flows:    flows,
		ledger:   NewLedger(config.AssetAllocation),
		drawdown: NewDrawdownTracker(config.DynamicExpenseReduction),
	}
}

// SetFireChecker installs the FI test used by policies with CheckFI.
func (e *CycleEngine) SetFireChecker(c FireChecker) {
	e.checker = c
}

// Params returns the scenario parameters the engine runs under.
func (e *CycleEngine) Params() domain.ScenarioParameters {
	return e.params
}

// ClockAt returns the clock for month index m.
func (e *CycleEngine) ClockAt(m int) domain.SimulationClock {
	return domain.SimulationClock{
		MonthIndex: m,
		Date:       dateutil.AddMonths(e.start, m),
		YearOffset: float64(m) / 12,
	}
}

// NewState returns a state at month m holding account.
func (e *CycleEngine) NewState(m int, account domain.AccountState) CycleState {
	return CycleState{
		Clock:    e.ClockAt(m),
		Account:  account,
		Drawdown: domain.DrawdownState{PeakAssets: account.InvestedAssets()},
	}
}

// InitialState returns the configured starting balances at month 0.
func (e *CycleEngine) InitialState() CycleState {
	return e.NewState(0, e.config.InitialState.AccountState())
}

// AccumulationPolicy is the pre-FI policy: invest surpluses and look for FI.
func (e *CycleEngine) AccumulationPolicy() CyclePolicy {
	return CyclePolicy{AutoInvest: true, CheckFI: true}
}

// DecumulationPolicy is the post-FI policy: live off assets and stop at ruin.
func (e *CycleEngine) DecumulationPolicy() CyclePolicy {
	return CyclePolicy{
		CheckRuin:         true,
		DynamicReduction:  e.config.DynamicExpenseReduction.Enabled,
		MaintainCashFloor: true,
		PostFire:          true,
	}
}

func (e *CycleEngine) cashFlow(s CycleState, p CyclePolicy) MonthlyCashFlow {
	if p.FixedWithdrawal.IsPositive() {
		annual := p.FixedWithdrawal.Mul(growthFactor(e.params.InflationRate, wholeYears(s.Clock.YearOffset)))
		return MonthlyCashFlow{Budget: domain.FlatBudget{Annual: annual, DiscretionaryRatio: decimal.Zero}}
	}
	return e.flows.Calculate(CashFlowContext{
		Clock:                 s.Clock,
		Params:                e.params,
		PostFire:              p.PostFire || s.FireAchieved,
		FireDate:              s.FireDate,
		PrevYearRealizedGains: s.PrevYearRealizedGains,
	})
}

// requiredCash is the buffer kept back from auto-investment.
func (e *CycleEngine) requiredCash(monthlyExpense decimal.Decimal) decimal.Decimal {
	a := e.config.AssetAllocation
	buffer := monthlyExpense.Mul(decimal.NewFromInt(int64(a.CashBufferMonths)))
	return decimal.Max(buffer, a.MinCashBalance)
}

// Step runs one month and returns the state for the next month together with
// the snapshot of the month just run. The order is: year rollover, cash
// flows, drawdown and dynamic reduction, income and withdrawal, returns, cash
// floor, auto-invest, FI test, snapshot.
func (e *CycleEngine) Step(s CycleState, p CyclePolicy, rate float64) (CycleState, domain.MonthlyResult) {
	clock := s.Clock

	if clock.MonthIndex > 0 && clock.Date.Month() == time.January {
		s.Account = ResetYear(s.Account)
		s.PrevYearRealizedGains = s.RealizedGainsThisYear
		s.RealizedGainsThisYear = decimal.Zero
	}

	flow := e.cashFlow(s, p)

	s.Drawdown = e.drawdown.Update(s.Drawdown, s.Account.InvestedAssets())
	if s.Drawdown.Drawdown.LessThan(s.WorstDrawdown) {
		s.WorstDrawdown = s.Drawdown.Drawdown
	}
	if p.DynamicReduction {
		flow = e.drawdown.Apply(flow, s.Drawdown.Level)
	}

	income := flow.Income()
	expense := flow.Expense()
	s.Account.Cash = roundLedger(s.Account.Cash.Add(income))
	var sale SaleResult
	s.Account, sale = e.ledger.Withdraw(s.Account, expense)
	realized := sale.RealizedGain
	taxPaid := sale.TaxPaid
	if sale.Ruined && !s.Ruined {
		s.Ruined = true
		s.RuinMonth = clock.MonthIndex
	}

	if !(sale.Ruined && p.CheckRuin) {
		s.Account = ApplyReturn(s.Account, rate)

		minCash := e.config.AssetAllocation.MinCashBalance
		if p.MaintainCashFloor && s.Account.Cash.LessThan(minCash) && s.Account.InvestedAssets().IsPositive() {
			var floor SaleResult
			s.Account, floor = e.ledger.RaiseCash(s.Account, minCash.Sub(s.Account.Cash))
			realized = realized.Add(floor.RealizedGain)
			taxPaid = taxPaid.Add(floor.TaxPaid)
		}

		if p.AutoInvest {
			required := e.requiredCash(expense)
			threshold := required.Mul(e.config.AssetAllocation.AutoInvestThreshold)
			if s.Account.Cash.GreaterThan(threshold) {
				s.Account, _ = e.ledger.DepositWrapperFirst(s.Account, required)
			}
		}
	}
	s.RealizedGainsThisYear = s.RealizedGainsThisYear.Add(realized)
	s.Clock = e.ClockAt(clock.MonthIndex + 1)

	if p.CheckFI && !s.FireAchieved && !sale.Ruined && clock.MonthIndex > 0 && e.checker != nil {
		candidate := s
		candidate.FireDate = clock.Date
		if e.checker.IsFinanciallyIndependent(candidate) {
			s.FireAchieved = true
			s.FireMonth = clock.MonthIndex
			s.FireDate = clock.Date
		}
	}

	return s, domain.MonthlyResult{
		Month:          clock.MonthIndex,
		Date:           clock.Date,
		Age:            float64(e.config.Simulation.StartAge) + clock.YearOffset,
		LifeStage:      e.flows.LifeStage(clock.Date),
		Income:         income,
		Expense:        expense,
		Cash:           s.Account.Cash,
		TaxableStock:   s.Account.TaxableStock,
		WrapperBalance: s.Account.WrapperBalance,
		TotalAssets:    s.Account.TotalAssets(),
		RealizedGain:   realized,
		TaxPaid:        taxPaid,
		ReturnRate:     rate,
		FireAchieved:   s.FireAchieved,
		DrawdownLevel:  s.Drawdown.Level,
		Ruined:         sale.Ruined,
	}
}

// Run steps through rates, one month per rate. A CheckFI policy switches to
// the decumulation policy once FI is reached, and a CheckRuin policy stops at
// the first ruined month. Monthly snapshots are kept only when record is set.
func (e *CycleEngine) Run(s CycleState, p CyclePolicy, rates []float64, record bool) (CycleState, []domain.MonthlyResult) {
	var results []domain.MonthlyResult
	if record {
		results = make([]domain.MonthlyResult, 0, len(rates))
	}
	for _, rate := range rates {
		if p.CheckFI && s.FireAchieved {
			p = e.DecumulationPolicy()
		}
		var res domain.MonthlyResult
		s, res = e.Step(s, p, rate)
		if record {
			results = append(results, res)
		}
		if res.Ruined && p.CheckRuin {
			break
		}
	}
	return s, results
}
