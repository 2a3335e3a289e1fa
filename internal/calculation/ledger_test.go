package calculation

import (
	"testing"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yen(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func testLedger() Ledger {
	return Ledger{
		CapitalGainsTaxRate: decimal.NewFromFloat(0.20315),
		WrapperAnnualCap:    yen(3600000),
		InvestBeyondWrapper: true,
	}
}

func TestApplyReturn_GrowsBothInvestedBalancesEqually(t *testing.T) {
	states := []domain.AccountState{
		{Cash: yen(1000000), TaxableStock: yen(8000000), WrapperBalance: yen(2000000)},
		{TaxableStock: yen(123456789), WrapperBalance: yen(98765432)},
		{TaxableStock: yen(1), WrapperBalance: yen(1)},
	}
	rates := []float64{0.05, -0.12, 0.0004, -0.5, 0.3}

	for _, s := range states {
		for _, r := range rates {
			next := ApplyReturn(s, r)
			wrapperGrowth := next.WrapperBalance.Div(s.WrapperBalance).InexactFloat64()
			taxableGrowth := next.TaxableStock.Div(s.TaxableStock).InexactFloat64()
			assert.InDelta(t, 1+r, wrapperGrowth, 1e-6)
			assert.InDelta(t, 1+r, taxableGrowth, 1e-6)
			assert.InDelta(t, wrapperGrowth, taxableGrowth, 1e-6)
			assert.True(t, next.Cash.Equal(s.Cash), "cash earns no return")
			assert.True(t, next.WrapperBalance.LessThanOrEqual(next.InvestedAssets()))
		}
	}
}

func TestApplyReturn_KeepsCostBasis(t *testing.T) {
	s := domain.AccountState{TaxableStock: yen(100), TaxableCostBasis: yen(80), WrapperBalance: yen(50), WrapperCostBasis: yen(50)}
	next := ApplyReturn(s, 0.1)
	assert.True(t, next.TaxableCostBasis.Equal(yen(80)))
	assert.True(t, next.WrapperCostBasis.Equal(yen(50)))
}

func TestWithdraw_CashFirst(t *testing.T) {
	s := domain.AccountState{Cash: yen(500000), TaxableStock: yen(1000000), TaxableCostBasis: yen(500000)}
	next, res := testLedger().Withdraw(s, yen(300000))

	assert.True(t, next.Cash.Equal(yen(200000)))
	assert.True(t, next.TaxableStock.Equal(yen(1000000)))
	assert.True(t, res.FromCash.Equal(yen(300000)))
	assert.True(t, res.RealizedGain.IsZero())
	assert.False(t, res.Ruined)
}

func TestWithdraw_WrapperBeforeTaxable(t *testing.T) {
	s := domain.AccountState{
		Cash:             yen(100000),
		TaxableStock:     yen(1000000),
		TaxableCostBasis: yen(500000),
		WrapperBalance:   yen(400000),
		WrapperCostBasis: yen(200000),
	}
	next, res := testLedger().Withdraw(s, yen(300000))

	assert.True(t, next.Cash.IsZero())
	assert.True(t, res.WrapperSold.Equal(yen(200000)))
	assert.True(t, next.WrapperBalance.Equal(yen(200000)))
	assert.True(t, next.WrapperCostBasis.Equal(yen(100000)), "wrapper basis reduced proportionally")
	assert.True(t, next.TaxableStock.Equal(yen(1000000)), "taxable untouched while wrapper covers")
	assert.True(t, res.TaxPaid.IsZero())
}

func TestWithdraw_TaxableGrossUp(t *testing.T) {
	// Half of the taxable pool is gain, so the effective tax on a sale is 0.20315 * 0.5.
	s := domain.AccountState{TaxableStock: yen(10000000), TaxableCostBasis: yen(5000000)}
	next, res := testLedger().Withdraw(s, yen(1000000))

	eff := 0.20315 * 0.5
	wantGross := 1000000 / (1 - eff)
	assert.InDelta(t, wantGross, res.TaxableSold.InexactFloat64(), 1)
	assert.InDelta(t, wantGross*0.5, res.RealizedGain.InexactFloat64(), 1)
	assert.InDelta(t, wantGross*0.5*0.20315, res.TaxPaid.InexactFloat64(), 1)
	assert.InDelta(t, 1000000, res.TaxableSold.Sub(res.TaxPaid).InexactFloat64(), 0.01, "net proceeds cover the withdrawal")
	assert.InDelta(t, 10000000-wantGross, next.TaxableStock.InexactFloat64(), 1)
	assert.InDelta(t, 0.5, next.TaxableCostBasisRatio().InexactFloat64(), 1e-9, "basis ratio unchanged by a proportional sale")
	assert.False(t, res.Ruined)
}

func TestWithdraw_NoTaxOnLoss(t *testing.T) {
	s := domain.AccountState{TaxableStock: yen(1000000), TaxableCostBasis: yen(1500000)}
	_, res := testLedger().Withdraw(s, yen(100000))
	assert.True(t, res.TaxPaid.IsZero())
	assert.True(t, res.RealizedGain.IsNegative())
	assert.InDelta(t, 100000, res.TaxableSold.InexactFloat64(), 0.01)
}

func TestWithdraw_RuinLiquidatesEverything(t *testing.T) {
	s := domain.AccountState{
		Cash:             yen(100000),
		TaxableStock:     yen(200000),
		TaxableCostBasis: yen(200000),
		WrapperBalance:   yen(100000),
		WrapperCostBasis: yen(100000),
	}
	next, res := testLedger().Withdraw(s, yen(1000000))

	require.True(t, res.Ruined)
	assert.True(t, next.TotalAssets().IsZero())
	assert.True(t, next.WrapperCostBasis.IsZero())
	assert.True(t, next.TaxableCostBasis.IsZero())
	assert.True(t, res.Shortfall.Equal(yen(600000)))
}

func TestWithdraw_ExactlyAllAssetsIsNotRuin(t *testing.T) {
	s := domain.AccountState{Cash: yen(100), TaxableStock: yen(900), TaxableCostBasis: yen(900)}
	next, res := testLedger().Withdraw(s, yen(1000))
	assert.False(t, res.Ruined)
	assert.True(t, next.TotalAssets().IsZero())
}

func TestWithdraw_NonPositiveAmount(t *testing.T) {
	s := domain.AccountState{Cash: yen(100)}
	next, res := testLedger().Withdraw(s, yen(-5))
	assert.Equal(t, s, next)
	assert.False(t, res.Ruined)
}

func TestRaiseCash(t *testing.T) {
	s := domain.AccountState{Cash: yen(200000), WrapperBalance: yen(300000), WrapperCostBasis: yen(300000), TaxableStock: yen(5000000), TaxableCostBasis: yen(5000000)}
	next, sale := testLedger().RaiseCash(s, yen(800000))

	assert.True(t, next.Cash.Equal(yen(1000000)))
	assert.True(t, next.WrapperBalance.IsZero())
	assert.True(t, sale.TaxableSold.Equal(yen(500000)))
	assert.False(t, sale.Ruined)

	empty := domain.AccountState{Cash: yen(10), TaxableStock: yen(40), TaxableCostBasis: yen(40)}
	next, sale = testLedger().RaiseCash(empty, yen(100))
	assert.True(t, next.Cash.Equal(yen(50)))
	assert.True(t, sale.Shortfall.Equal(yen(60)))
	assert.False(t, sale.Ruined)
}

func TestDepositWrapperFirst(t *testing.T) {
	tests := []struct {
		name        string
		state       domain.AccountState
		reserve     int64
		beyond      bool
		wantWrapper int64
		wantTaxable int64
		wantCash    int64
	}{
		{"all fits wrapper", domain.AccountState{Cash: yen(3000000)}, 1000000, true, 2000000, 0, 1000000},
		{"overflow to taxable", domain.AccountState{Cash: yen(6000000)}, 1000000, true, 3600000, 1400000, 1000000},
		{"overflow stays in cash", domain.AccountState{Cash: yen(6000000)}, 1000000, false, 3600000, 0, 2400000},
		{"partly used allowance", domain.AccountState{Cash: yen(3000000), WrapperContributedThisYear: yen(3000000)}, 0, true, 600000, 2400000, 0},
		{"below reserve", domain.AccountState{Cash: yen(500000)}, 1000000, true, 0, 0, 500000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := testLedger()
			l.InvestBeyondWrapper = tt.beyond
			next, invested := l.DepositWrapperFirst(tt.state, yen(tt.reserve))

			assert.True(t, next.WrapperBalance.Equal(yen(tt.wantWrapper)), "wrapper %s", next.WrapperBalance)
			assert.True(t, next.TaxableStock.Equal(yen(tt.wantTaxable)), "taxable %s", next.TaxableStock)
			assert.True(t, next.Cash.Equal(yen(tt.wantCash)), "cash %s", next.Cash)
			assert.True(t, invested.Equal(yen(tt.wantWrapper+tt.wantTaxable)))
			assert.True(t, next.WrapperContributedThisYear.LessThanOrEqual(l.WrapperAnnualCap))
			assert.True(t, next.WrapperCostBasis.Equal(next.WrapperBalance))
			assert.NoError(t, next.Validate(l.WrapperAnnualCap))
		})
	}
}

func TestResetYear(t *testing.T) {
	s := domain.AccountState{WrapperContributedThisYear: yen(3600000), Cash: yen(1)}
	next := ResetYear(s)
	assert.True(t, next.WrapperContributedThisYear.IsZero())
	assert.True(t, next.Cash.Equal(yen(1)))
}

func TestNewLedger(t *testing.T) {
	off := false
	l := NewLedger(domain.AssetAllocationConfig{
		NISAEnabled:         &off,
		NISAAnnualLimit:     yen(3600000),
		CapitalGainsTaxRate: decimal.NewFromFloat(0.2),
	})
	assert.True(t, l.WrapperAnnualCap.IsZero())
	assert.True(t, l.InvestBeyondWrapper)

	next, _ := l.DepositWrapperFirst(domain.AccountState{Cash: yen(100)}, decimal.Zero)
	assert.True(t, next.WrapperBalance.IsZero())
	assert.True(t, next.TaxableStock.Equal(yen(100)))
}
