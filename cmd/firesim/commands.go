package main

import (
	"fmt"

	"github.com/fireplan/fire-simulator/internal/calculation"
	"github.com/fireplan/fire-simulator/internal/config"
	"github.com/fireplan/fire-simulator/internal/domain"
	"github.com/fireplan/fire-simulator/internal/output"
	"github.com/spf13/cobra"
)

func newSimulateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "simulate",
		Short: "Run the deterministic scenarios, the FI target and (if enabled) Monte Carlo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			log := g.logger(cmd)
			engine := calculation.NewCalculationEngine()
			engine.SetLogger(log)

			results, err := engine.RunFullAnalysis(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			results.Assumptions = output.GenerateAssumptions(cfg)
			return g.emit(cmd, log, "console", results)
		},
	}
}

func newTargetCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "target",
		Short: "Search for the minimum FI assets under the pessimistic scenario",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			log := g.logger(cmd)
			engine := calculation.NewCalculationEngine()
			engine.SetLogger(log)

			target, err := engine.CalculateFireTarget(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			results := &domain.ScenarioComparison{
				StartDate:     calculation.SimulationStart(cfg),
				InitialAssets: cfg.InitialState.AccountState().TotalAssets(),
				FireTarget:    target,
			}
			return g.emit(cmd, log, "console-lite", results)
		},
	}
}

func newMonteCarloCmd(g *globalFlags) *cobra.Command {
	var iterations int
	var seed int64
	var enhanced bool
	cmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "Run the stochastic decumulation from the standard scenario's FI point",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			mc := &cfg.MonteCarlo
			mc.Enabled = true
			if cmd.Flags().Changed("iterations") {
				mc.Iterations = iterations
			}
			if cmd.Flags().Changed("seed") {
				mc.Seed = seed
			}
			if cmd.Flags().Changed("enhanced") {
				mc.EnhancedModel.Enabled = enhanced
			}
			config.ApplyDefaults(cfg)
			if err := config.NewInputParser().ValidateConfiguration(cfg); err != nil {
				return err
			}

			log := g.logger(cmd)
			engine := calculation.NewCalculationEngine()
			engine.SetLogger(log)

			results, err := engine.RunMonteCarlo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return g.emit(cmd, log, "console-lite", &domain.ScenarioComparison{
				StartDate:     calculation.SimulationStart(cfg),
				InitialAssets: cfg.InitialState.AccountState().TotalAssets(),
				MonteCarlo:    results,
			})
		},
	}
	cmd.Flags().IntVarP(&iterations, "iterations", "n", 0, "number of Monte Carlo runs (overrides the configuration)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "base random seed; run i uses seed+i")
	cmd.Flags().BoolVar(&enhanced, "enhanced", false, "use the GARCH(1,1) + regime mean-reversion return model")
	return cmd
}

func newInitCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write an example configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := g.outputPath
			if path == "" {
				path = g.configPath
			}
			cfg := config.NewInputParser().CreateExampleConfiguration()
			if err := output.SaveConfiguration(cfg, path); err != nil {
				return err
			}
			writeLine(cmd.OutOrStdout(), "example configuration written to %s", path)
			return nil
		},
	}
}

func newHistoryCmd(g *globalFlags) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			if g.historyPath == "" {
				return fmt.Errorf("--history is required")
			}
			rec, err := g.openRecorder(g.logger(cmd))
			if err != nil {
				return err
			}
			defer rec.Close()

			runs, err := rec.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range runs {
				writeLine(w, "%s  %s  %-10s %s", r.CreatedAt.Format("2006-01-02 15:04:05"), r.ID, r.Command, r.ConfigPath)
				for _, s := range r.Scenarios {
					fi := "FI not reached"
					if s.FireAchieved {
						fi = fmt.Sprintf("FI at age %.1f", s.FireAge)
					}
					writeLine(w, "    %-12s %s, final %s", s.Scenario, fi, s.FinalAssets)
				}
				if r.RecommendedTarget != "" {
					writeLine(w, "    target %s", r.RecommendedTarget)
				}
				if r.SuccessRate != "" {
					writeLine(w, "    monte carlo success %s", r.SuccessRate)
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list (0 for all)")
	return cmd
}
