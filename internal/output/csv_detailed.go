package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/fireplan/fire-simulator/internal/domain"
)

// MonthlyCSVExporter writes one row per scenario month.
type MonthlyCSVExporter struct{}

func (c MonthlyCSVExporter) Name() string { return "csv" }

var monthlyHeader = []string{
	"Scenario", "Month", "Date", "Age", "LifeStage", "Income", "Expense", "Cash", "TaxableStock",
	"NISABalance", "TotalAssets", "RealizedGain", "TaxPaid", "ReturnRate", "FireAchieved", "DrawdownLevel", "Ruined",
}

func (c MonthlyCSVExporter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(monthlyHeader); err != nil {
		return nil, err
	}
	for _, sc := range results.Scenarios {
		for _, m := range sc.Months {
			row := []string{
				sc.Scenario,
				intToString(m.Month),
				m.Date.Format("2006-01-02"),
				strconv.FormatFloat(m.Age, 'f', 2, 64),
				string(m.LifeStage),
				m.Income.StringFixed(0),
				m.Expense.StringFixed(0),
				m.Cash.StringFixed(0),
				m.TaxableStock.StringFixed(0),
				m.WrapperBalance.StringFixed(0),
				m.TotalAssets.StringFixed(0),
				m.RealizedGain.StringFixed(0),
				m.TaxPaid.StringFixed(0),
				strconv.FormatFloat(m.ReturnRate, 'f', 6, 64),
				boolToString(m.FireAchieved),
				m.DrawdownLevel.String(),
				boolToString(m.Ruined),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
