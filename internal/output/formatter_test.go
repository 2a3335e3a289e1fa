package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// Golden snapshot tests (prefix-based) ensure key headers remain stable.
func TestGoldenSnapshots(t *testing.T) {
	cases := []struct {
		name      string
		golden    string
		formatter Formatter
	}{
		{"console_verbose", "console_verbose.golden", ConsoleVerboseFormatter{}},
		{"console_lite", "console_lite.golden", ConsoleFormatter{}},
		{"csv_summary", "csv_summary.golden", CSVSummarizer{}},
		{"csv_monthly", "csv_monthly.golden", MonthlyCSVExporter{}},
		{"montecarlo_csv", "montecarlo_csv.golden", MonteCarloCSVFormatter{}},
	}

	cmp := buildTestComparison()
	cmp.MonteCarlo = buildMonteCarlo()
	update := os.Getenv("UPDATE_GOLDEN") == "1"
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := tc.formatter.Format(cmp)
			require.NoError(t, err)
			goldenPath := filepath.Join("testdata", tc.golden)
			if update {
				require.NoError(t, os.WriteFile(goldenPath, []byte(firstLine(string(out))+"\n"), 0644))
			}
			data, err := os.ReadFile(goldenPath)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(out), strings.TrimSpace(string(data))),
				"output does not match golden prefix %q", strings.TrimSpace(string(data)))
		})
	}
}

func TestConsoleLiteFormatter(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestComparison())
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, "Initial Assets: ¥23,000,000")
	assert.Contains(t, content, "standard: FI at age 40.2 (2025-03, month 2) Final=¥23,200,000")
	assert.Contains(t, content, "pessimistic: FI not reached")
	assert.Contains(t, content, "Earliest FI: optimistic")
	assert.NotContains(t, content, "Monte Carlo")
}

func TestConsoleVerboseFormatter(t *testing.T) {
	cmp := buildTestComparison()
	cmp.FireTarget = &domain.FireTargetResult{
		AnnualExpense:     decimal.NewFromInt(3000000),
		MinimumRequired:   decimal.NewFromInt(60000000),
		SafetyBuffer:      decimal.NewFromFloat(1.2),
		RecommendedTarget: decimal.NewFromInt(72000000),
		ByScenario:        map[string]decimal.Decimal{domain.ScenarioStandard: decimal.NewFromInt(50000000)},
		CurrentAssets:     decimal.NewFromInt(23000000),
		ProgressRate:      decimal.NewFromFloat(0.3194),
		Shortfall:         decimal.NewFromInt(49000000),
		Iterations:        27,
	}
	cmp.MonteCarlo = buildMonteCarlo()
	cmp.Assumptions = []string{"custom assumption"}

	out, err := ConsoleVerboseFormatter{}.Format(cmp)
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, "FIRE NET-WORTH SIMULATION")
	assert.Contains(t, content, "• custom assumption")
	assert.NotContains(t, content, DefaultAssumptions[0])
	assert.Contains(t, content, "SCENARIO 3: pessimistic")
	assert.Contains(t, content, "<- FI")
	assert.Contains(t, content, "Recommended Target:    ¥72,000,000 (7200.0万円)")
	assert.Contains(t, content, "Shortfall:             ¥49,000,000")
	assert.Contains(t, content, "Progress:              31.94%")
	assert.Contains(t, content, "Success Rate:          50.00%")
	assert.Contains(t, content, "Earliest FI: optimistic at age 40.1; not every scenario reaches FI")
}

func TestConsoleVerboseFormatter_DefaultAssumptionsAndRuin(t *testing.T) {
	cmp := buildTestComparison()
	cmp.Scenarios[2].Ruined = true
	cmp.Scenarios[2].RuinMonth = 2
	out, err := ConsoleVerboseFormatter{}.Format(cmp)
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, DefaultAssumptions[0])
	assert.Contains(t, content, "Ruined:        month 2")
	assert.Contains(t, content, "WARNING: at least one scenario runs out of assets")
}

func TestCSVSummarizerDeterministicOrder(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestComparison())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "optimistic,true,1,2025-02-01,"))
	assert.True(t, strings.HasPrefix(lines[2], "pessimistic,false,0,,"))
	assert.True(t, strings.HasPrefix(lines[3], "standard,"))
	assert.True(t, strings.HasSuffix(lines[3], ",23200000,3000000,20200000,0"))
}

func TestMonthlyCSVExporter(t *testing.T) {
	out, err := MonthlyCSVExporter{}.Format(buildTestComparison())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 1+3*3)
	assert.Equal(t, "standard,0,2025-01-01,40.00,empty_nest,500000,250000,3000000,20000000,0,23000000,0,0,0.004000,false,normal,false", lines[1])
	assert.True(t, strings.HasPrefix(lines[4], "optimistic,0,"))
}

func TestMonteCarloCSVFormatter(t *testing.T) {
	_, err := MonteCarloCSVFormatter{}.Format(buildTestComparison())
	assert.ErrorIs(t, err, ErrNoMonteCarlo)

	cmp := buildTestComparison()
	cmp.MonteCarlo = buildMonteCarlo()
	out, err := MonteCarloCSVFormatter{}.Format(cmp)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "0,42,50000000,true,0,-0.2000", lines[1])
	assert.Equal(t, "1,43,0,false,300,-0.6500", lines[2])
}

func TestJSONFormatter(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestComparison())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "23000000", decoded["initial_assets"])
	scenarios := decoded["scenarios"].([]any)
	require.Len(t, scenarios, 3)
	first := scenarios[0].(map[string]any)
	assert.Equal(t, "standard", first["scenario"])
	months := first["months"].([]any)
	assert.Equal(t, "normal", months[0].(map[string]any)["drawdown_level"])
	assert.NotContains(t, decoded, "monte_carlo")
}

func TestFormatterAliasResolution(t *testing.T) {
	tests := map[string]string{
		"verbose":     "console",
		"LITE":        "console-lite",
		" csv ":       "csv",
		"csv-summary": "summary-csv",
		"mc-csv":      "montecarlo-csv",
		"json-pretty": "json",
	}
	for alias, want := range tests {
		f := GetFormatterByName(alias)
		require.NotNil(t, f, alias)
		assert.Equal(t, want, f.Name(), alias)
	}
	assert.Nil(t, GetFormatterByName("html"))
}

func TestUnknownFormatErrorIncludesSuggestions(t *testing.T) {
	_, err := LookupFormatter("pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	for _, name := range AvailableFormatterNames() {
		assert.Contains(t, err.Error(), name)
	}
	assert.Contains(t, err.Error(), "mc-csv")
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "csv", Extension("csv"))
	assert.Equal(t, "csv", Extension("mc-csv"))
	assert.Equal(t, "json", Extension("json"))
	assert.Equal(t, "txt", Extension("console-lite"))
}

func TestDefaultFilename(t *testing.T) {
	orig := nowFunc
	t.Cleanup(func() { nowFunc = orig })
	nowFunc = func() time.Time { return time.Date(2026, 10, 17, 9, 5, 3, 0, time.UTC) }
	assert.Equal(t, "fire_report_20261017_090503.csv", DefaultFilename("csv"))
}
