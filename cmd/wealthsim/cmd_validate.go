package main

import (
	"fmt"

	"github.com/rpgo/wealth-simulator/internal/config"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Check a scenario file without simulating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s is valid\n", args[0])
			fmt.Fprintf(out, "  %d years from age %d, withdrawals from age %d (%s strategy)\n",
				params.YearsTotal, params.StartAge, params.RetirementAge(), params.Withdrawal.Strategy)
			if params.EconomicModel != "" {
				fmt.Fprintf(out, "  economic model: %s\n", params.EconomicModel)
			}
			return nil
		},
	}
}
