package main

import (
	"fmt"

	"github.com/rpgo/wealth-simulator/internal/config"
	"github.com/spf13/cobra"
)

func newExampleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example <scenario.yaml>",
		Short: "Write a fully populated example scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			if err := parser.SaveToFile(parser.CreateExampleParameters(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Example scenario written to %s\n", args[0])
			return nil
		},
	}
}
