package main

import (
	"fmt"
	"strings"

	"github.com/rpgo/wealth-simulator/internal/domain"
	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the built-in economic regime models",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			for _, name := range domain.ModelNames() {
				m, _ := domain.LookupModel(name)
				fmt.Fprintf(out, "%-14s %s\n", m.Name, m.Description)
				fmt.Fprintf(out, "%-14s market: %s (start %s)\n", "", strings.Join(m.Market.Names(), ", "), m.Market.Initial)
				fmt.Fprintf(out, "%-14s inflation: %s (start %s)\n", "", strings.Join(m.Inflation.Names(), ", "), m.Inflation.Initial)
			}
		},
	}
}
