package output

import (
	"fmt"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// DefaultAssumptions lists key modeling assumptions rendered in detailed outputs
// when the comparison carries none of its own.
var DefaultAssumptions = []string{
	"Returns applied monthly to taxable stock and NISA alike; cash earns nothing",
	"Capital gains tax 20.315% on realized taxable gains",
	"FI tested by retiring under the pessimistic scenario until life expectancy",
}

func pct(d decimal.Decimal) float64 { return d.Mul(decimalHundred).InexactFloat64() }

// GenerateAssumptions creates the assumptions list from actual config values.
func GenerateAssumptions(config *domain.Configuration) []string {
	sim := config.Simulation
	out := make([]string, 0, 8)
	for _, name := range domain.ScenarioNames {
		p, err := config.Scenario(name)
		if err != nil {
			continue
		}
		out = append(out, fmt.Sprintf("%s: return %.1f%%, inflation %.1f%%, income growth %.1f%%, expense growth %.1f%%",
			name, pct(p.AnnualReturnRate), pct(p.InflationRate), pct(p.IncomeGrowthRate), pct(p.ExpenseGrowthRate)))
	}
	a := config.AssetAllocation
	out = append(out, fmt.Sprintf("Capital gains tax %.3f%% on realized taxable gains", pct(a.CapitalGainsTaxRate)))
	if a.NISAOn() {
		out = append(out, fmt.Sprintf("NISA contributions capped at %s per calendar year", FormatCurrency(a.NISAAnnualLimit)))
	} else {
		out = append(out, "NISA disabled; all investments are taxable")
	}
	out = append(out, fmt.Sprintf("FI tested by retiring under the pessimistic scenario until age %d", sim.LifeExpectancy))
	if config.DynamicExpenseReduction.Enabled {
		th := config.DynamicExpenseReduction.DrawdownThresholds
		out = append(out, fmt.Sprintf("Discretionary spending cut after drawdowns of %.0f%% / %.0f%% / %.0f%%",
			pct(th.Warning), pct(th.Concern), pct(th.Crisis)))
	}
	if mc := config.MonteCarlo; mc.Enabled {
		model := "i.i.d. normal"
		if mc.EnhancedModel.Enabled {
			model = "GARCH(1,1) with regime mean reversion"
		}
		out = append(out, fmt.Sprintf("Monte Carlo: %d runs, %s, annual volatility %.1f%%", mc.Iterations, model, mc.ReturnStdDev*100))
	}
	return out
}
