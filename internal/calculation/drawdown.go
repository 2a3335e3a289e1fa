package calculation

import (
	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// DrawdownTracker classifies declines from the peak of invested assets and
// applies the matching expense cut and income boost.
type DrawdownTracker struct {
	config domain.DynamicReductionConfig
}

// NewDrawdownTracker creates a tracker for the dynamic reduction settings.
func NewDrawdownTracker(config domain.DynamicReductionConfig) DrawdownTracker {
	return DrawdownTracker{config: config}
}

// Level maps a drawdown fraction (zero or negative) to its tier.
func (t DrawdownTracker) Level(drawdown decimal.Decimal) domain.DrawdownLevel {
	th := t.config.DrawdownThresholds
	switch {
	case drawdown.LessThanOrEqual(th.Crisis):
		return domain.DrawdownCrisis
	case drawdown.LessThanOrEqual(th.Concern):
		return domain.DrawdownConcern
	case drawdown.LessThanOrEqual(th.Warning):
		return domain.DrawdownWarning
	default:
		return domain.DrawdownNormal
	}
}

// Update records invested as the latest observation and recomputes the tier.
func (t DrawdownTracker) Update(state domain.DrawdownState, invested decimal.Decimal) domain.DrawdownState {
	if invested.GreaterThan(state.PeakAssets) {
		state.PeakAssets = invested
	}
	state.Drawdown = decimal.Zero
	if state.PeakAssets.IsPositive() {
		state.Drawdown = invested.Div(state.PeakAssets).Sub(decimalOne).Round(6)
	}
	state.Level = t.Level(state.Drawdown)
	return state
}

// Apply cuts the discretionary budget and adds the income boost for level.
// Essential spending is never reduced. A disabled protocol returns flow unchanged.
func (t DrawdownTracker) Apply(flow MonthlyCashFlow, level domain.DrawdownLevel) MonthlyCashFlow {
	if !t.config.Enabled {
		return flow
	}
	if rate := t.config.ReductionRates.For(level); rate.IsPositive() && flow.Budget != nil {
		flow = flow.WithBudget(flow.Budget.Reduce(rate))
	}
	if boost := t.config.IncomeBoost.For(level); !boost.IsZero() {
		flow = flow.WithIncomeBoost(boost)
	}
	return flow
}
