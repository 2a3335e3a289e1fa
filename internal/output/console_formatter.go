package output

import (
	"bytes"
	"fmt"

	"github.com/fireplan/fire-simulator/internal/domain"
)

// ConsoleFormatter provides a concise console style summary via the formatter interface.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "FIRE SIMULATION SUMMARY")
	fmt.Fprintln(&buf, "================================")
	fmt.Fprintf(&buf, "Start: %s  Initial Assets: %s\n", results.StartDate.Format("2006-01"), FormatCurrency(results.InitialAssets))
	fmt.Fprintln(&buf)
	for _, sc := range results.Scenarios {
		fmt.Fprintf(&buf, "%s: %s Final=%s\n", sc.Scenario, fireSummary(sc), FormatCurrency(sc.FinalAssets))
	}
	if t := results.FireTarget; t != nil {
		fmt.Fprintf(&buf, "Target: %s (minimum %s, progress %s)\n",
			FormatCurrency(t.RecommendedTarget), FormatCurrency(t.MinimumRequired), FormatPercentage(t.ProgressRate))
	}
	if mc := results.MonteCarlo; mc != nil {
		fmt.Fprintf(&buf, "Monte Carlo: success %s median %s\n", FormatPercentage(mc.SuccessRate), FormatCurrency(mc.MedianFinalAssets))
	}
	rec := AnalyzeScenarios(results)
	if rec.EarliestScenario != "" {
		fmt.Fprintln(&buf)
		fmt.Fprintf(&buf, "Earliest FI: %s (age %.1f)\n", rec.EarliestScenario, rec.EarliestFireAge)
	}
	return buf.Bytes(), nil
}

// fireSummary describes the FI point of one scenario in a single phrase.
func fireSummary(sc domain.ScenarioResult) string {
	s := "FI not reached"
	if sc.FireAchieved {
		s = fmt.Sprintf("FI at age %.1f (%s, month %d)", sc.FireAge, sc.FireDate.Format("2006-01"), sc.FireMonth)
	}
	if sc.Ruined {
		s += fmt.Sprintf(", ruined at month %d", sc.RuinMonth)
	}
	return s
}
