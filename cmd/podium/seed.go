package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/podiumhq/podium/internal/seed"
	"github.com/podiumhq/podium/pkg/logger"
)

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a sample dataset directory",
		Long:  "Writes a small synthetic Paris 2024 dataset (athletes, medals, events, venues and per-sport result sheets) suitable for local development.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(); err != nil {
				os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
				return err
			}
			defer func() { _ = logger.Sync() }()

			dir, _ := cmd.Flags().GetString("data-dir")
			athletes, _ := cmd.Flags().GetInt("athletes")
			rngSeed, _ := cmd.Flags().GetInt64("seed")

			gen := seed.NewGenerator(dir,
				seed.WithAthletes(athletes),
				seed.WithSeed(rngSeed),
				seed.WithLogger(logger.Get().Named("seed")),
			)
			return gen.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("data-dir", "data", "directory to write the dataset into")
	flags.Int("athletes", 200, "number of athletes to generate")
	flags.Int64("seed", 1, "random seed for reproducible output")
	return cmd
}
