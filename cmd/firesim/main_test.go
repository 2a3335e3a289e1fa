package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fireplan/fire-simulator/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const retireeConfig = `simulation:
  start_date: 2025-01-01
  start_age: 75
  life_expectancy: 80
  initial_labor_income: 0
  initial_monthly_expense: 200000
  standard:
    annual_return_rate: 0.04
    inflation_rate: 0.01
  optimistic:
    annual_return_rate: 0.06
    inflation_rate: 0.01
  pessimistic:
    annual_return_rate: 0.02
    inflation_rate: 0.01
initial_state:
  cash: 2000000
  taxable_stock: 100000000
  taxable_cost_basis: 100000000
monte_carlo:
  iterations: 50
  seed: 7
  return_std_dev: 0.10
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(retireeConfig), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestSimulateConsole(t *testing.T) {
	out, logs, err := run(t, "simulate", "--config", writeConfig(t))
	require.NoError(t, err)
	assert.Contains(t, out, "FIRE NET-WORTH SIMULATION")
	assert.Contains(t, out, "SCENARIO 1: standard")
	assert.Contains(t, out, "FIRE TARGET")
	assert.Contains(t, out, "FI tested by retiring under the pessimistic scenario until age 80")
	assert.NotContains(t, out, "MONTE CARLO")
	assert.Contains(t, logs, "[INFO] standard: FI at month ")
	assert.NotContains(t, logs, "[DEBUG]")
}

func TestSimulateJSONToFileWithHistory(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.json")
	history := filepath.Join(dir, "history.db")
	cfg := writeConfig(t)

	out, logs, err := run(t, "simulate", "-c", cfg, "-f", "json", "-o", report, "--history", history, "-v")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Contains(t, logs, "report written to "+report)
	assert.Contains(t, logs, "[DEBUG]")

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"fire_target"`)

	out, _, err = run(t, "history", "--history", history)
	require.NoError(t, err)
	assert.Contains(t, out, "simulate")
	assert.Contains(t, out, "standard")
	assert.Contains(t, out, "target ")
}

func TestTargetCommand(t *testing.T) {
	out, _, err := run(t, "target", "--config", writeConfig(t))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "FIRE SIMULATION SUMMARY"))
	assert.Contains(t, out, "Target: ¥")
}

func TestMonteCarloCommand(t *testing.T) {
	cfg := writeConfig(t)
	out, _, err := run(t, "montecarlo", "--config", cfg, "--iterations", "20", "--seed", "11", "--format", "mc-csv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 21)
	assert.Equal(t, "Iteration,Seed,FinalAssets,Success,RuinMonth,MaxDrawdown", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0,11,"))

	again, _, err := run(t, "montecarlo", "--config", cfg, "--iterations", "20", "--seed", "11", "--format", "mc-csv")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestInitWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")
	out, _, err := run(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)
	assert.FileExists(t, path)

	cfg, err := config.NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Simulation.Earners, 2)
}

func TestErrors(t *testing.T) {
	_, _, err := run(t, "simulate", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "load configuration")

	_, _, err = run(t, "target", "--config", writeConfig(t), "--format", "pdf")
	assert.ErrorContains(t, err, "unsupported output format")

	_, _, err = run(t, "history")
	assert.ErrorContains(t, err, "--history is required")
}
