package output

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fireplan/fire-simulator/internal/domain"
)

// ErrNoMonteCarlo is returned when a Monte Carlo export is requested for a
// comparison that did not run the simulation.
var ErrNoMonteCarlo = errors.New("no monte carlo results")

// MonteCarloCSVReport generates CSV exports for Monte Carlo results.
type MonteCarloCSVReport struct {
	Result *domain.MonteCarloResults
}

func writeCSVFile(path string, write func(*csv.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := write(writer); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func writeRows(w *csv.Writer, rows [][]string) error {
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

func (m *MonteCarloCSVReport) writeSummary(w *csv.Writer) error {
	r := m.Result
	model := "i.i.d. normal"
	if r.Enhanced {
		model = "GARCH(1,1) + regime mean reversion"
	}
	return writeRows(w, [][]string{
		{"Metric", "Value", "Description"},
		{"Success Rate", FormatPercentage(r.SuccessRate), "Share of runs that never ran out of assets"},
		{"Mean Final Assets", r.MeanFinalAssets.StringFixed(0), "Average total assets at the horizon"},
		{"Median Final Assets", r.MedianFinalAssets.StringFixed(0), "Median total assets at the horizon"},
		{"Mean Return Path", r.DeterministicFinalAssets.StringFixed(0), "Final assets when every month earns the mean return"},
		{"Start Month", strconv.Itoa(r.StartMonth), "Month index the stochastic decumulation starts from"},
		{"Horizon Months", strconv.Itoa(r.HorizonMonths), "Months simulated per run"},
		{"Number of Simulations", strconv.Itoa(r.NumSimulations), "Total number of simulations run"},
		{"Return Model", model, "Monthly return generator"},
	})
}

func (m *MonteCarloCSVReport) writeDetailed(w *csv.Writer) error {
	if err := w.Write([]string{"Iteration", "Seed", "FinalAssets", "Success", "RuinMonth", "MaxDrawdown"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, sim := range m.Result.Simulations {
		row := []string{
			strconv.Itoa(sim.Iteration),
			strconv.FormatInt(sim.Seed, 10),
			sim.FinalAssets.StringFixed(0),
			strconv.FormatBool(sim.Success),
			strconv.Itoa(sim.RuinMonth),
			strconv.FormatFloat(sim.MaxDrawdown, 'f', 4, 64),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write simulation row: %w", err)
		}
	}
	return nil
}

func (m *MonteCarloCSVReport) writePercentiles(w *csv.Writer) error {
	p := m.Result.PercentileRanges
	return writeRows(w, [][]string{
		{"Percentile", "FinalAssets", "Interpretation"},
		{"10th", p.P10.StringFixed(0), "Worst 10% of scenarios"},
		{"25th", p.P25.StringFixed(0), "Below average scenarios"},
		{"50th (Median)", p.P50.StringFixed(0), "Typical scenario"},
		{"75th", p.P75.StringFixed(0), "Above average scenarios"},
		{"90th", p.P90.StringFixed(0), "Best 10% of scenarios"},
	})
}

// GenerateSummaryCSV creates a summary CSV with aggregate statistics
func (m *MonteCarloCSVReport) GenerateSummaryCSV(outputPath string) error {
	return writeCSVFile(outputPath, m.writeSummary)
}

// GenerateDetailedCSV creates a detailed CSV with individual simulation results
func (m *MonteCarloCSVReport) GenerateDetailedCSV(outputPath string) error {
	return writeCSVFile(outputPath, m.writeDetailed)
}

// GeneratePercentileCSV creates a CSV with the final-asset percentiles
func (m *MonteCarloCSVReport) GeneratePercentileCSV(outputPath string) error {
	return writeCSVFile(outputPath, m.writePercentiles)
}

// GenerateAllCSVReports creates all CSV reports in a single directory
func (m *MonteCarloCSVReport) GenerateAllCSVReports(outputDir string) error {
	if m.Result == nil {
		return ErrNoMonteCarlo
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := m.GenerateSummaryCSV(filepath.Join(outputDir, "monte_carlo_summary.csv")); err != nil {
		return fmt.Errorf("failed to generate summary CSV: %w", err)
	}
	if err := m.GenerateDetailedCSV(filepath.Join(outputDir, "monte_carlo_detailed.csv")); err != nil {
		return fmt.Errorf("failed to generate detailed CSV: %w", err)
	}
	if err := m.GeneratePercentileCSV(filepath.Join(outputDir, "monte_carlo_percentiles.csv")); err != nil {
		return fmt.Errorf("failed to generate percentile CSV: %w", err)
	}
	return nil
}

// MonteCarloCSVFormatter exposes the per-run detail through the formatter registry.
type MonteCarloCSVFormatter struct{}

func (MonteCarloCSVFormatter) Name() string { return "montecarlo-csv" }

func (MonteCarloCSVFormatter) Format(results *domain.ScenarioComparison) ([]byte, error) {
	if results.MonteCarlo == nil {
		return nil, ErrNoMonteCarlo
	}
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	report := &MonteCarloCSVReport{Result: results.MonteCarlo}
	if err := report.writeDetailed(w); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
