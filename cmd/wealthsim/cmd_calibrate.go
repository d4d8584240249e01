package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rpgo/wealth-simulator/internal/calculation"
	"github.com/rpgo/wealth-simulator/internal/config"
	"github.com/spf13/cobra"
)

func newCalibrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calibrate",
		Short: "Derive static market assumptions from yearly history",
		Long: `Load yearly equity returns and inflation (equity-returns.csv and
inflation.csv under the data directory), print their statistics and
optionally write a scenario calibrated to their mean and volatility.

Examples:
  wealthsim calibrate --data-dir data
  wealthsim calibrate --sample --write-data data
  wealthsim calibrate --data-dir data --apply plan.yaml --out plan-calibrated.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			sample, _ := flags.GetBool("sample")
			dataDir := settings.DataDir
			if flags.Changed("data-dir") {
				dataDir, _ = flags.GetString("data-dir")
			}

			var hdm *calculation.HistoricalDataManager
			if sample {
				lastYear, _ := flags.GetInt("last-year")
				years, _ := flags.GetInt("years")
				seed, _ := flags.GetUint64("seed")
				if years < 2 {
					return fmt.Errorf("--years must be at least 2, got %d", years)
				}
				hdm = calculation.GenerateSampleData(lastYear, years, seed)
			} else {
				if dataDir == "" {
					return errors.New("no data directory: pass --data-dir, set data_dir, or use --sample")
				}
				hdm = calculation.NewHistoricalDataManager(dataDir)
				if err := hdm.LoadAllData(); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			printDataSet(out, hdm.EquityReturns)
			printDataSet(out, hdm.Inflation)
			if err := printLatestYear(out, hdm); err != nil {
				return err
			}
			issues, err := hdm.ValidateDataQuality()
			if err != nil {
				return err
			}
			for _, issue := range issues {
				fmt.Fprintf(out, "warning: %s\n", issue)
			}

			if dir, _ := flags.GetString("write-data"); dir != "" {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
				if err := hdm.WriteCSV(dir); err != nil {
					return err
				}
				fmt.Fprintf(out, "Series written to %s\n", dir)
			}

			apply, _ := flags.GetString("apply")
			if apply == "" {
				return nil
			}
			target, _ := flags.GetString("out")
			if target == "" {
				return errors.New("--apply needs --out")
			}
			parser := config.NewInputParser()
			params, err := parser.LoadFromFile(apply)
			if err != nil {
				return err
			}
			if err := hdm.Calibrate(params); err != nil {
				return err
			}
			if err := config.ValidateParameters(params); err != nil {
				return fmt.Errorf("calibrated scenario is invalid: %w", err)
			}
			if err := parser.SaveToFile(params, target); err != nil {
				return err
			}
			fmt.Fprintf(out, "Calibrated scenario written to %s (return %.4f, volatility %.4f, inflation %.4f)\n",
				target, params.ExpectedReturn, params.Volatility, params.InflationRate)
			return nil
		},
	}

	cmd.Flags().String("data-dir", "", "Directory holding equity-returns.csv and inflation.csv")
	cmd.Flags().Bool("sample", false, "Use a synthetic history instead of files")
	cmd.Flags().Int("years", 30, "Length of the synthetic history")
	cmd.Flags().Int("last-year", 2024, "Final year of the synthetic history")
	cmd.Flags().Uint64("seed", 1, "Seed of the synthetic history")
	cmd.Flags().String("write-data", "", "Write the loaded series as CSV into this directory")
	cmd.Flags().String("apply", "", "Scenario file to calibrate")
	cmd.Flags().String("out", "", "Destination of the calibrated scenario")
	return cmd
}

func printDataSet(w io.Writer, ds *calculation.HistoricalDataSet) {
	s := ds.Statistics
	fmt.Fprintf(w, "%-10s %d-%d  n=%-3d mean=%s std=%s median=%s min=%s max=%s\n",
		ds.Name, ds.MinYear, ds.MaxYear, s.Count,
		s.Mean.StringFixed(4), s.StdDev.StringFixed(4), s.Median.StringFixed(4),
		s.Min.StringFixed(4), s.Max.StringFixed(4))
}

// printLatestYear shows the most recent year both series cover.
func printLatestYear(w io.Writer, hdm *calculation.HistoricalDataManager) error {
	_, last, err := hdm.GetAvailableYears()
	if err != nil {
		return err
	}
	equity, err := hdm.GetEquityReturn(last)
	if err != nil {
		return err
	}
	inflation, err := hdm.GetInflationRate(last)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "latest year %d: equity %s, inflation %s\n", last, equity.StringFixed(4), inflation.StringFixed(4))
	return nil
}
