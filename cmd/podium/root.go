package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "podium",
		Short: "Olympic dashboard data service",
		Long: `Podium serves the Paris 2024 datasets over HTTP: normalized CSV tables,
a multi-dimension filter engine, headline KPIs, and saved filter sessions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newSeedCmd())
	root.AddCommand(newInspectCmd())
	return root
}
