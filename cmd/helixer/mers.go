package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/weberlab-hhu/helixer/internal/mers"
	"github.com/weberlab-hhu/helixer/internal/store"
)

func newMersCmd() *cobra.Command {
	var (
		species string
		minK    int
		maxK    int
	)

	cmd := &cobra.Command{
		Use:     "mers",
		Short:   "Count canonical k-mers per sequence and store the counts",
		Example: `  helixer mers --species arabidopsis_thaliana --min-k 1 --max-k 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(viper.GetString("db"), logger)
			if err != nil {
				return err
			}
			defer db.Close()

			genome, err := db.GenomeBySpecies(species)
			if err != nil {
				return err
			}
			coords, err := db.FullCoordinates(genome.ID)
			if err != nil {
				return err
			}

			for _, coord := range coords {
				counters, err := mers.CountRange(coord.Sequence, minK, maxK)
				if err != nil {
					return err
				}
				for _, counter := range counters {
					for mer, count := range counter.Export() {
						if err := db.AddMerCount(coord.ID, mer, count, counter.K); err != nil {
							return err
						}
					}
				}
				if err := db.Commit(); err != nil {
					return err
				}
				logger.Debug("counted mers",
					zap.String("seqid", coord.Seqid),
					zap.Int("min_k", minK),
					zap.Int("max_k", maxK))
			}
			logger.Info("mer counting complete",
				zap.String("species", species),
				zap.Int("sequences", len(coords)))
			return nil
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "species name of the genome")
	cmd.Flags().IntVar(&minK, "min-k", 1, "smallest mer length to count")
	cmd.Flags().IntVar(&maxK, "max-k", 2, "largest mer length to count")
	cmd.MarkFlagRequired("species")

	return cmd
}
