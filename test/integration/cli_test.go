package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fireplan/fire-simulator/internal/calculation"
	"github.com/fireplan/fire-simulator/internal/output"
	"github.com/fireplan/fire-simulator/internal/recorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputGeneration(t *testing.T) {
	cfg := loadExample(t)
	cfg.MonteCarlo.Iterations = 20

	engine := calculation.NewCalculationEngine()
	results, err := engine.RunFullAnalysis(context.Background(), cfg)
	require.NoError(t, err)
	results.Assumptions = output.GenerateAssumptions(cfg)

	dir := t.TempDir()
	for _, format := range []string{"console", "console-lite", "csv", "summary-csv", "json", "montecarlo-csv"} {
		path := filepath.Join(dir, format+"."+output.Extension(format))
		written, err := output.GenerateReport(results, format, path)
		require.NoError(t, err, format)
		require.Equal(t, []string{path}, written)

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size(), format)
	}

	mcDir := filepath.Join(dir, "mc")
	require.NoError(t, (&output.MonteCarloCSVReport{Result: results.MonteCarlo}).GenerateAllCSVReports(mcDir))
	assert.FileExists(t, filepath.Join(mcDir, "monte_carlo_percentiles.csv"))
}

func TestRunHistory(t *testing.T) {
	cfg := loadExample(t)
	engine := calculation.NewCalculationEngine()
	results, err := engine.RunScenarios(context.Background(), cfg)
	require.NoError(t, err)

	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), calculation.NopLogger{})
	require.NoError(t, err)
	defer rec.Close()

	id, err := rec.RecordRun(context.Background(), recorder.NewRunRecord("simulate", exampleConfig, results))
	require.NoError(t, err)

	runs, err := rec.ListRuns(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	require.Len(t, runs[0].Scenarios, 3)
	for i, sc := range results.Scenarios {
		assert.Equal(t, sc.Scenario, runs[0].Scenarios[i].Scenario)
		assert.Equal(t, sc.FireAchieved, runs[0].Scenarios[i].FireAchieved)
		assert.Equal(t, sc.FinalAssets.StringFixed(0), runs[0].Scenarios[i].FinalAssets)
	}
}
