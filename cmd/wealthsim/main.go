package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rpgo/wealth-simulator/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wealthsim",
		Short: "Monte Carlo wealth and retirement simulator",
		Long: `wealthsim projects a household balance sheet month by month across
thousands of simulated markets.

It models contributions, withdrawals under several strategies, taxes, a
public pension and an optional private pension fund, and reports the
distribution of outcomes in today's money.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("settings", "", "Application settings file (default ./wealthsim.yaml if present)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn, error")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newValidateCmd(),
		newExampleCmd(),
		newModelsCmd(),
		newCalibrateCmd(),
	)
	return rootCmd
}

// loadSettings reads the viper-backed settings and applies the persistent
// log level flag on top.
func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, _ := cmd.Flags().GetString("settings")
	settings, err := config.LoadSettings(path)
	if err != nil {
		return nil, err
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		settings.LogLevel = level
	}
	return settings, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
