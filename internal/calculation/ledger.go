package calculation

import (
	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// Balances are rounded to this many decimal places after every ledger
// operation so repeated monthly multiplication does not grow the mantissa.
const ledgerPrecision = 4

var (
	decimalOne = decimal.NewFromInt(1)
	// Shortfalls below one sen come from division rounding, not missing money.
	shortfallEpsilon = decimal.NewFromFloat(0.01)
)

func roundLedger(d decimal.Decimal) decimal.Decimal {
	return d.Round(ledgerPrecision)
}

// Ledger performs the account operations. It holds only immutable settings;
// every operation takes a state value and returns the new one.
type Ledger struct {
	CapitalGainsTaxRate decimal.Decimal
	WrapperAnnualCap    decimal.Decimal
	InvestBeyondWrapper bool
}

// NewLedger builds a ledger from the asset allocation settings.
func NewLedger(a domain.AssetAllocationConfig) Ledger {
	return Ledger{
		CapitalGainsTaxRate: a.CapitalGainsTaxRate,
		WrapperAnnualCap:    a.WrapperCap(),
		InvestBeyondWrapper: a.InvestsBeyondNISA(),
	}
}

// SaleResult describes how a withdrawal or sale was funded.
type SaleResult struct {
	FromCash     decimal.Decimal
	WrapperSold  decimal.Decimal
	TaxableSold  decimal.Decimal
	RealizedGain decimal.Decimal
	TaxPaid      decimal.Decimal
	Shortfall    decimal.Decimal
	Ruined       bool
}

// ApplyReturn grows taxable stock and the wrapper balance by the same factor.
// Cash earns nothing.
func ApplyReturn(s domain.AccountState, monthlyRate float64) domain.AccountState {
	factor := decimalOne.Add(decimal.NewFromFloat(monthlyRate))
	s.TaxableStock = roundLedger(s.TaxableStock.Mul(factor))
	s.WrapperBalance = roundLedger(s.WrapperBalance.Mul(factor))
	return s
}

// ResetYear clears the wrapper contribution counter at a calendar-year boundary.
func ResetYear(s domain.AccountState) domain.AccountState {
	s.WrapperContributedThisYear = decimal.Zero
	return s
}

// Withdraw pays amount out of the household. Cash is used first, then the
// wrapper (tax free), then taxable stock grossed up for capital gains tax.
// When everything together cannot cover amount, all assets are liquidated
// and the result is flagged as ruined with the uncovered shortfall.
func (l Ledger) Withdraw(s domain.AccountState, amount decimal.Decimal) (domain.AccountState, SaleResult) {
	var res SaleResult
	if !amount.IsPositive() {
		return s, res
	}

	res.FromCash = decimal.Min(s.Cash, amount)
	if res.FromCash.IsNegative() {
		res.FromCash = decimal.Zero
	}
	s.Cash = s.Cash.Sub(res.FromCash)
	remaining := amount.Sub(res.FromCash)
	if !remaining.IsPositive() {
		return s, res
	}

	s, sale := l.sellInvested(s, remaining)
	res.WrapperSold = sale.WrapperSold
	res.TaxableSold = sale.TaxableSold
	res.RealizedGain = sale.RealizedGain
	res.TaxPaid = sale.TaxPaid
	res.Shortfall = sale.Shortfall
	res.Ruined = sale.Shortfall.IsPositive()
	return s, res
}

// RaiseCash sells invested assets so that net proceeds of amount land in cash.
// It never flags ruin; if holdings run out the sale simply stops.
func (l Ledger) RaiseCash(s domain.AccountState, amount decimal.Decimal) (domain.AccountState, SaleResult) {
	if !amount.IsPositive() {
		return s, SaleResult{}
	}
	s, sale := l.sellInvested(s, amount)
	s.Cash = roundLedger(s.Cash.Add(amount.Sub(sale.Shortfall)))
	return s, sale
}

// sellInvested sells net amount from the wrapper first, then taxable stock.
// Proceeds are consumed (not added to cash).
func (l Ledger) sellInvested(s domain.AccountState, net decimal.Decimal) (domain.AccountState, SaleResult) {
	var res SaleResult
	remaining := net

	if s.WrapperBalance.IsPositive() {
		sold := decimal.Min(s.WrapperBalance, remaining)
		if sold.Equal(s.WrapperBalance) {
			s.WrapperCostBasis = decimal.Zero
			s.WrapperBalance = decimal.Zero
		} else {
			basisSold := s.WrapperCostBasis.Mul(sold).Div(s.WrapperBalance)
			s.WrapperCostBasis = roundLedger(decimal.Max(decimal.Zero, s.WrapperCostBasis.Sub(basisSold)))
			s.WrapperBalance = roundLedger(s.WrapperBalance.Sub(sold))
		}
		res.WrapperSold = sold
		remaining = remaining.Sub(sold)
	}

	if remaining.IsPositive() && s.TaxableStock.IsPositive() {
		basisRatio := s.TaxableCostBasisRatio()
		gainRatio := decimalOne.Sub(basisRatio)
		effectiveTax := decimal.Zero
		if gainRatio.IsPositive() {
			effectiveTax = l.CapitalGainsTaxRate.Mul(gainRatio)
		}

		gross := remaining.Div(decimalOne.Sub(effectiveTax))
		covered := true
		if gross.GreaterThanOrEqual(s.TaxableStock) {
			gross = s.TaxableStock
			covered = false
		}

		gain := gross.Mul(gainRatio)
		tax := decimal.Zero
		if gain.IsPositive() {
			tax = gain.Mul(l.CapitalGainsTaxRate)
		}

		if covered {
			s.TaxableCostBasis = roundLedger(decimal.Max(decimal.Zero, s.TaxableCostBasis.Sub(gross.Mul(basisRatio))))
			s.TaxableStock = roundLedger(s.TaxableStock.Sub(gross))
			remaining = decimal.Zero
		} else {
			s.TaxableCostBasis = decimal.Zero
			s.TaxableStock = decimal.Zero
			remaining = remaining.Sub(gross.Sub(tax))
		}
		res.TaxableSold = roundLedger(gross)
		res.RealizedGain = roundLedger(gain)
		res.TaxPaid = roundLedger(tax)
	}

	if remaining.GreaterThan(shortfallEpsilon) {
		res.Shortfall = roundLedger(remaining)
	}
	return s, res
}

// DepositWrapperFirst invests cash above cashReserve. The wrapper receives up
// to its remaining annual allowance; the rest goes to taxable stock when
// investing beyond the wrapper is allowed, otherwise it stays in cash.
// It returns the amount invested.
func (l Ledger) DepositWrapperFirst(s domain.AccountState, cashReserve decimal.Decimal) (domain.AccountState, decimal.Decimal) {
	surplus := s.Cash.Sub(cashReserve)
	if !surplus.IsPositive() {
		return s, decimal.Zero
	}

	room := l.WrapperAnnualCap.Sub(s.WrapperContributedThisYear)
	if room.IsNegative() {
		room = decimal.Zero
	}
	toWrapper := decimal.Min(surplus, room)
	toTaxable := decimal.Zero
	if l.InvestBeyondWrapper {
		toTaxable = surplus.Sub(toWrapper)
	}

	s.WrapperBalance = roundLedger(s.WrapperBalance.Add(toWrapper))
	s.WrapperCostBasis = roundLedger(s.WrapperCostBasis.Add(toWrapper))
	s.WrapperContributedThisYear = s.WrapperContributedThisYear.Add(toWrapper)
	s.TaxableStock = roundLedger(s.TaxableStock.Add(toTaxable))
	s.TaxableCostBasis = roundLedger(s.TaxableCostBasis.Add(toTaxable))

	invested := toWrapper.Add(toTaxable)
	s.Cash = roundLedger(s.Cash.Sub(invested))
	return s, invested
}
