package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// AccountState holds the household balances. The wrapper (NISA) balance is a
// carve-out of invested assets and always receives the same return as the
// taxable pool.
type AccountState struct {
	Cash                       decimal.Decimal `json:"cash"`
	TaxableStock               decimal.Decimal `json:"taxable_stock"`
	TaxableCostBasis           decimal.Decimal `json:"taxable_cost_basis"`
	WrapperBalance             decimal.Decimal `json:"wrapper_balance"`
	WrapperCostBasis           decimal.Decimal `json:"wrapper_cost_basis"`
	WrapperContributedThisYear decimal.Decimal `json:"wrapper_contributed_this_year"`
}

// InvestedAssets returns taxable stock plus the wrapper balance.
func (s AccountState) InvestedAssets() decimal.Decimal {
	return s.TaxableStock.Add(s.WrapperBalance)
}

// TotalAssets returns cash plus invested assets.
func (s AccountState) TotalAssets() decimal.Decimal {
	return s.Cash.Add(s.InvestedAssets())
}

// TaxableCostBasisRatio returns cost basis / market value of the taxable pool,
// or 1 when the pool is empty (no unrealized gain).
func (s AccountState) TaxableCostBasisRatio() decimal.Decimal {
	if !s.TaxableStock.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return s.TaxableCostBasis.Div(s.TaxableStock)
}

// Validate checks the structural invariants of the ledger.
func (s AccountState) Validate(annualCap decimal.Decimal) error {
	if s.Cash.IsNegative() || s.TaxableStock.IsNegative() || s.WrapperBalance.IsNegative() {
		return fmt.Errorf("negative balance: cash=%s taxable=%s wrapper=%s", s.Cash, s.TaxableStock, s.WrapperBalance)
	}
	if s.WrapperBalance.GreaterThan(s.InvestedAssets()) {
		return fmt.Errorf("wrapper balance %s exceeds invested assets %s", s.WrapperBalance, s.InvestedAssets())
	}
	if annualCap.IsPositive() && s.WrapperContributedThisYear.GreaterThan(annualCap) {
		return fmt.Errorf("wrapper contributions %s exceed annual cap %s", s.WrapperContributedThisYear, annualCap)
	}
	return nil
}
