package output

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"

	"github.com/fireplan/fire-simulator/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one row per scenario).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "summary-csv" }

func (c CSVSummarizer) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Scenario", "FireAchieved", "FireMonth", "FireDate", "FireAge", "Ruined", "RuinMonth", "FinalAssets", "FinalCash", "FinalTaxable", "FinalNISA"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	scenarios := append([]domain.ScenarioResult(nil), results.Scenarios...)
	sort.Slice(scenarios, func(i, j int) bool { return scenarios[i].Scenario < scenarios[j].Scenario })
	for _, sc := range scenarios {
		fireDate := ""
		if sc.FireAchieved {
			fireDate = sc.FireDate.Format("2006-01-02")
		}
		row := []string{
			sc.Scenario,
			boolToString(sc.FireAchieved),
			intToString(sc.FireMonth),
			fireDate,
			strconv.FormatFloat(sc.FireAge, 'f', 2, 64),
			boolToString(sc.Ruined),
			intToString(sc.RuinMonth),
			sc.FinalAssets.StringFixed(0),
			sc.FinalState.Cash.StringFixed(0),
			sc.FinalState.TaxableStock.StringFixed(0),
			sc.FinalState.WrapperBalance.StringFixed(0),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
