package main

import (
	"fmt"
	"os"

	prettytable "github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/podiumhq/podium/internal/adapters/registry"
	"github.com/podiumhq/podium/internal/domain/filter"
	"github.com/podiumhq/podium/pkg/logger"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <source>",
		Short: "Load a dataset, apply filters and print it",
		Long:  "Loads one dataset from the data directory through the same normalization pipeline the server uses, applies the given filters and renders the result as a table. Use a source name such as athletes, medallists or results/Judo.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(); err != nil {
				os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
				return err
			}
			defer func() { _ = logger.Sync() }()
			// Keep dataset load logging out of the rendered output.
			_ = logger.SetLevelString("warn")

			return runInspect(cmd, args[0])
		},
	}

	flags := cmd.Flags()
	flags.String("data-dir", "data", "directory containing the dataset CSV files")
	flags.StringSlice("continents", nil, "keep rows from these continents")
	flags.StringSlice("countries", nil, "keep rows from these countries or country codes")
	flags.StringSlice("sports", nil, "keep rows for these sports")
	flags.StringSlice("medal-types", nil, "keep rows for these medal types")
	flags.StringSlice("genders", nil, "keep rows for these genders")
	flags.Int("age-min", 0, "minimum athlete age, inclusive")
	flags.Int("age-max", 0, "maximum athlete age, inclusive")
	flags.Int("limit", 50, "maximum rows to print, 0 means all")
	return cmd
}

func runInspect(cmd *cobra.Command, source string) error {
	flags := cmd.Flags()
	dataDir, _ := flags.GetString("data-dir")

	reg, err := registry.New(dataDir, registry.WithLogger(logger.Get().Named("registry")))
	if err != nil {
		return err
	}
	defer reg.Close()

	tbl, err := reg.Load(cmd.Context(), source)
	if err != nil {
		return err
	}

	sel := filter.Selection{}
	sel.Continents, _ = flags.GetStringSlice("continents")
	sel.Countries, _ = flags.GetStringSlice("countries")
	sel.Sports, _ = flags.GetStringSlice("sports")
	sel.MedalTypes, _ = flags.GetStringSlice("medal-types")
	sel.Genders, _ = flags.GetStringSlice("genders")
	if flags.Changed("age-min") {
		v, _ := flags.GetInt("age-min")
		sel.AgeMin = &v
	}
	if flags.Changed("age-max") {
		v, _ := flags.GetInt("age-max")
		sel.AgeMax = &v
	}

	filtered := sel.Apply(tbl)
	total := filtered.Len()

	limit, _ := flags.GetInt("limit")
	if limit > 0 {
		filtered = filtered.Head(limit)
	}

	w := prettytable.NewWriter()
	w.SetOutputMirror(cmd.OutOrStdout())
	w.SetStyle(prettytable.StyleLight)

	cols := filtered.Columns()
	header := prettytable.Row{}
	for _, c := range cols {
		header = append(header, c)
	}
	w.AppendHeader(header)

	for i := 0; i < filtered.Len(); i++ {
		row := prettytable.Row{}
		for _, c := range cols {
			row = append(row, filtered.Cell(i, c))
		}
		w.AppendRow(row)
	}
	w.Render()

	if filtered.Len() < total {
		fmt.Fprintf(cmd.OutOrStdout(), "showing %d of %d rows\n", filtered.Len(), total)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows\n", total)
	}
	return nil
}
