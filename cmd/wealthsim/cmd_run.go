package main

import (
	"fmt"

	"github.com/rpgo/wealth-simulator/internal/calculation"
	"github.com/rpgo/wealth-simulator/internal/config"
	"github.com/rpgo/wealth-simulator/internal/output"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a Monte Carlo simulation for a scenario",
		Long: `Run a Monte Carlo simulation for a scenario file and render a report.

Console formats print to stdout unless --output is given. Every other
format, and "all", writes timestamped files into the output directory.

Examples:
  wealthsim run plan.yaml
  wealthsim run plan.yaml --format html --output reports
  wealthsim run plan.yaml --seed 7 --simulations 5000 --solve`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(settings.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			params, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("seed") {
				params.Seed, _ = flags.GetUint64("seed")
			}
			if flags.Changed("simulations") {
				settings.Simulations, _ = flags.GetInt("simulations")
			}
			if settings.Simulations > 0 {
				params.NumSimulations = settings.Simulations
			}
			if flags.Changed("workers") {
				settings.Workers, _ = flags.GetInt("workers")
			}
			if solve, _ := flags.GetBool("solve"); solve {
				params.Withdrawal.SolveSustainable = true
			}
			format := settings.Format
			if flags.Changed("format") {
				format, _ = flags.GetString("format")
			}
			outDir := settings.OutputDir
			if flags.Changed("output") {
				outDir, _ = flags.GetString("output")
			}

			engine := calculation.NewMonteCarloEngine()
			engine.Workers = settings.Workers
			engine.SetLogger(logger)

			result, err := engine.Run(cmd.Context(), *params)
			if err != nil {
				return fmt.Errorf("simulation failed: %w", err)
			}

			if output.IsConsoleFormat(format) && !flags.Changed("output") {
				f := output.GetFormatterByName(format)
				if f == nil {
					return fmt.Errorf("%w: %s", output.ErrUnsupportedFormat, format)
				}
				data, err := f.Format(result)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			paths, err := output.GenerateReport(result, format, outDir)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Report written: %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "console", "Report format (see 'wealthsim run --help'), or all")
	cmd.Flags().StringP("output", "o", ".", "Directory for report files")
	cmd.Flags().Uint64("seed", 0, "Base seed; 0 draws a fresh one")
	cmd.Flags().IntP("simulations", "n", 0, "Override the number of trajectories")
	cmd.Flags().IntP("workers", "w", 0, "Trajectories simulated in parallel")
	cmd.Flags().Bool("solve", false, "Solve for the largest sustainable fixed withdrawal")
	return cmd
}
