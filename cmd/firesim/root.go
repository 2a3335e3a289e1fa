package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fireplan/fire-simulator/internal/calculation"
	"github.com/fireplan/fire-simulator/internal/config"
	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/fireplan/fire-simulator/internal/output"
	"github.com/fireplan/fire-simulator/internal/recorder"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath  string
	format      string
	outputPath  string
	historyPath string
	verbose     bool
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "firesim",
		Short:         "FIRE net-worth simulator",
		Long:          "firesim projects household net worth month by month and reports when financial independence is reached.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&g.configPath, "config", "c", "config.yaml", "path to the YAML configuration")
	pf.StringVarP(&g.format, "format", "f", "", "output format ("+joinNames()+", all)")
	pf.StringVarP(&g.outputPath, "output", "o", "", "write the report to this file instead of stdout")
	pf.StringVar(&g.historyPath, "history", "", "SQLite database to record runs in")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "log debug detail to stderr")

	root.AddCommand(
		newSimulateCmd(g),
		newTargetCmd(g),
		newMonteCarloCmd(g),
		newInitCmd(g),
		newHistoryCmd(g),
	)
	return root
}

func joinNames() string {
	return strings.Join(output.AvailableFormatterNames(), ", ")
}

func (g *globalFlags) logger(cmd *cobra.Command) calculation.Logger {
	return calculation.NewStdLogger(cmd.ErrOrStderr(), g.verbose)
}

func (g *globalFlags) loadConfig() (*domain.Configuration, error) {
	cfg, err := config.NewInputParser().LoadFromFile(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

func (g *globalFlags) openRecorder(log calculation.Logger) (recorder.Recorder, error) {
	if g.historyPath == "" {
		return recorder.NewNoopRecorder(), nil
	}
	return recorder.NewSQLiteRecorder(g.historyPath, log)
}

// emit renders results in the selected format, to stdout unless an output
// file was given, and records the run when history is enabled.
func (g *globalFlags) emit(cmd *cobra.Command, log calculation.Logger, defaultFormat string, results *domain.ScenarioComparison) error {
	format := g.format
	if format == "" {
		format = defaultFormat
	}

	if format == "all" || g.outputPath != "" {
		files, err := output.GenerateReport(results, format, g.outputPath)
		if err != nil {
			return err
		}
		for _, f := range files {
			log.Infof("report written to %s", f)
		}
	} else {
		f, err := output.LookupFormatter(format)
		if err != nil {
			return err
		}
		data, err := f.Format(results)
		if err != nil {
			return err
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
	}

	return g.record(cmd.Context(), log, cmd.Name(), results)
}

func (g *globalFlags) record(ctx context.Context, log calculation.Logger, command string, results *domain.ScenarioComparison) error {
	rec, err := g.openRecorder(log)
	if err != nil {
		return err
	}
	defer rec.Close()
	id, err := rec.RecordRun(ctx, recorder.NewRunRecord(command, g.configPath, results))
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	if g.historyPath != "" {
		log.Infof("run %s recorded in %s", id, g.historyPath)
	}
	return nil
}

func writeLine(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format+"\n", args...)
}
