package domain

import "github.com/shopspring/decimal"

var one = decimal.NewFromInt(1)

// Budget is the annual base-expense plan for one point in time. It is either a
// FlatBudget or a CategorizedBudget; callers never branch on which.
type Budget interface {
	Total() decimal.Decimal
	Essential() decimal.Decimal
	Discretionary() decimal.Decimal
	// Reduce cuts the discretionary part by rate (0..1). Essential spending is untouched.
	Reduce(rate decimal.Decimal) Budget
	// Scale multiplies every amount by factor, e.g. for expense growth.
	Scale(factor decimal.Decimal) Budget
}

// FlatBudget is a single annual figure with a discretionary share.
type FlatBudget struct {
	Annual             decimal.Decimal `json:"annual"`
	DiscretionaryRatio decimal.Decimal `json:"discretionary_ratio"`
}

func (b FlatBudget) Total() decimal.Decimal { return b.Annual }

func (b FlatBudget) Discretionary() decimal.Decimal {
	return b.Annual.Mul(b.DiscretionaryRatio)
}

func (b FlatBudget) Essential() decimal.Decimal {
	return b.Annual.Sub(b.Discretionary())
}

func (b FlatBudget) Reduce(rate decimal.Decimal) Budget {
	discretionary := b.Discretionary().Mul(one.Sub(rate))
	annual := b.Essential().Add(discretionary)
	ratio := decimal.Zero
	if annual.IsPositive() {
		ratio = discretionary.Div(annual)
	}
	return FlatBudget{Annual: annual, DiscretionaryRatio: ratio}
}

func (b FlatBudget) Scale(factor decimal.Decimal) Budget {
	return FlatBudget{Annual: b.Annual.Mul(factor), DiscretionaryRatio: b.DiscretionaryRatio}
}

// BudgetLine is one category of a categorized budget.
type BudgetLine struct {
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	Discretionary bool            `json:"discretionary"`
}

// CategorizedBudget is a list of per-category annual amounts.
type CategorizedBudget struct {
	Lines []BudgetLine `json:"lines"`
}

func (b CategorizedBudget) sum(pick func(BudgetLine) bool) decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.Lines {
		if pick(l) {
			total = total.Add(l.Amount)
		}
	}
	return total
}

func (b CategorizedBudget) Total() decimal.Decimal {
	return b.sum(func(BudgetLine) bool { return true })
}

func (b CategorizedBudget) Essential() decimal.Decimal {
	return b.sum(func(l BudgetLine) bool { return !l.Discretionary })
}

func (b CategorizedBudget) Discretionary() decimal.Decimal {
	return b.sum(func(l BudgetLine) bool { return l.Discretionary })
}

func (b CategorizedBudget) Reduce(rate decimal.Decimal) Budget {
	keep := one.Sub(rate)
	lines := make([]BudgetLine, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = l
		if l.Discretionary {
			lines[i].Amount = l.Amount.Mul(keep)
		}
	}
	return CategorizedBudget{Lines: lines}
}

func (b CategorizedBudget) Scale(factor decimal.Decimal) Budget {
	lines := make([]BudgetLine, len(b.Lines))
	for i, l := range b.Lines {
		lines[i] = l
		lines[i].Amount = l.Amount.Mul(factor)
	}
	return CategorizedBudget{Lines: lines}
}

// Line returns the line for category id, if present.
func (b CategorizedBudget) Line(id string) (BudgetLine, bool) {
	for _, l := range b.Lines {
		if l.Category == id {
			return l, true
		}
	}
	return BudgetLine{}, false
}
