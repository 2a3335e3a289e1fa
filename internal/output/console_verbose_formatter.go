package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the detailed console report via the pluggable interface.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "FIRE NET-WORTH SIMULATION")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	assumptions := results.Assumptions
	if len(assumptions) == 0 {
		assumptions = DefaultAssumptions
	}
	for _, a := range assumptions {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Start Date:     %s\n", results.StartDate.Format("2006-01"))
	fmt.Fprintf(&buf, "Initial Assets: %s (%s)\n", FormatCurrency(results.InitialAssets), FormatMan(results.InitialAssets))
	fmt.Fprintln(&buf)

	for i, sc := range results.Scenarios {
		writeScenario(&buf, i+1, sc)
	}
	if results.FireTarget != nil {
		writeFireTarget(&buf, results.FireTarget)
	}
	if results.MonteCarlo != nil {
		writeMonteCarlo(&buf, results.MonteCarlo)
	}

	rec := AnalyzeScenarios(results)
	fmt.Fprintln(&buf, "SUMMARY")
	fmt.Fprintln(&buf, "=======")
	switch {
	case rec.EarliestScenario == "":
		fmt.Fprintln(&buf, "No scenario reaches FI within the horizon.")
	case rec.AllReachFI:
		fmt.Fprintf(&buf, "Every scenario reaches FI: earliest %s at age %.1f, latest %s at age %.1f (%d months apart)\n",
			rec.EarliestScenario, rec.EarliestFireAge, rec.LatestScenario, rec.LatestFireAge, rec.SpreadMonths)
	default:
		fmt.Fprintf(&buf, "Earliest FI: %s at age %.1f; not every scenario reaches FI\n", rec.EarliestScenario, rec.EarliestFireAge)
	}
	if rec.AnyRuined {
		fmt.Fprintln(&buf, "WARNING: at least one scenario runs out of assets")
	}
	return buf.Bytes(), nil
}

func writeScenario(buf *bytes.Buffer, n int, sc domain.ScenarioResult) {
	fmt.Fprintf(buf, "SCENARIO %d: %s\n", n, sc.Scenario)
	fmt.Fprintln(buf, strings.Repeat("=", 50))
	if sc.FireAchieved {
		fmt.Fprintf(buf, "  FI Reached:    month %d (%s), age %.1f\n", sc.FireMonth, sc.FireDate.Format("2006-01"), sc.FireAge)
	} else {
		fmt.Fprintln(buf, "  FI Reached:    no")
	}
	if sc.Ruined {
		fmt.Fprintf(buf, "  Ruined:        month %d\n", sc.RuinMonth)
	}
	fmt.Fprintf(buf, "  Final Assets:  %s\n", FormatCurrency(sc.FinalAssets))
	fmt.Fprintln(buf)
	if len(sc.Months) == 0 {
		return
	}
	fmt.Fprintln(buf, "YEARLY SNAPSHOTS:")
	fmt.Fprintf(buf, "%6s %8s %14s %14s %14s %16s %14s %16s  %s\n", "Age", "Date", "Income", "Expense", "Cash", "Taxable", "NISA", "Total", "Level")
	fmt.Fprintln(buf, strings.Repeat("-", 118))
	last := len(sc.Months) - 1
	for i, m := range sc.Months {
		if i%12 != 0 && i != last {
			continue
		}
		marker := ""
		if m.FireAchieved && (i == 0 || !sc.Months[i-1].FireAchieved) {
			marker = " <- FI"
		}
		fmt.Fprintf(buf, "%6.1f %8s %14s %14s %14s %16s %14s %16s  %s%s\n",
			m.Age, m.Date.Format("2006-01"),
			FormatCurrency(m.Income), FormatCurrency(m.Expense), FormatCurrency(m.Cash),
			FormatCurrency(m.TaxableStock), FormatCurrency(m.WrapperBalance), FormatCurrency(m.TotalAssets),
			m.DrawdownLevel, marker)
	}
	fmt.Fprintln(buf)
}

func writeFireTarget(buf *bytes.Buffer, t *domain.FireTargetResult) {
	fmt.Fprintln(buf, "FIRE TARGET")
	fmt.Fprintln(buf, "===========")
	fmt.Fprintf(buf, "  Annual Expense:        %s\n", FormatCurrency(t.AnnualExpense))
	fmt.Fprintf(buf, "  Minimum (pessimistic): %s\n", FormatCurrency(t.MinimumRequired))
	fmt.Fprintf(buf, "  Safety Buffer:         x%s\n", t.SafetyBuffer.String())
	fmt.Fprintf(buf, "  Recommended Target:    %s (%s)\n", FormatCurrency(t.RecommendedTarget), FormatMan(t.RecommendedTarget))
	for _, name := range domain.ScenarioNames {
		if w, ok := t.ByScenario[name]; ok {
			fmt.Fprintf(buf, "    %-20s %s\n", name+":", FormatCurrency(w))
		}
	}
	fmt.Fprintf(buf, "  4%% Rule:               %s\n", FormatCurrency(t.FourPercentRule))
	fmt.Fprintf(buf, "  Current Assets:        %s\n", FormatCurrency(t.CurrentAssets))
	fmt.Fprintf(buf, "  Progress:              %s\n", FormatPercentage(t.ProgressRate))
	if t.Shortfall.GreaterThan(decimal.Zero) {
		fmt.Fprintf(buf, "  Shortfall:             %s\n", FormatCurrency(t.Shortfall))
	}
	fmt.Fprintf(buf, "  Solver Iterations:     %d\n", t.Iterations)
	fmt.Fprintln(buf)
}

func writeMonteCarlo(buf *bytes.Buffer, mc *domain.MonteCarloResults) {
	model := "i.i.d."
	if mc.Enhanced {
		model = "enhanced"
	}
	fmt.Fprintln(buf, "MONTE CARLO")
	fmt.Fprintln(buf, "===========")
	fmt.Fprintf(buf, "  Runs:                  %d (%s), from month %d for %d months\n", mc.NumSimulations, model, mc.StartMonth, mc.HorizonMonths)
	fmt.Fprintf(buf, "  Success Rate:          %s\n", FormatPercentage(mc.SuccessRate))
	fmt.Fprintf(buf, "  Mean Final Assets:     %s\n", FormatCurrency(mc.MeanFinalAssets))
	fmt.Fprintf(buf, "  Median Final Assets:   %s\n", FormatCurrency(mc.MedianFinalAssets))
	fmt.Fprintf(buf, "  Mean Return Path:      %s\n", FormatCurrency(mc.DeterministicFinalAssets))
	p := mc.PercentileRanges
	fmt.Fprintf(buf, "  P10 / P25 / P50 / P75 / P90: %s / %s / %s / %s / %s\n",
		FormatCurrency(p.P10), FormatCurrency(p.P25), FormatCurrency(p.P50), FormatCurrency(p.P75), FormatCurrency(p.P90))
	fmt.Fprintln(buf)
}
