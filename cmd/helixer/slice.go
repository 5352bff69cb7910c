package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/weberlab-hhu/helixer/internal/slicer"
	"github.com/weberlab-hhu/helixer/internal/store"
)

func newSliceCmd() *cobra.Command {
	var (
		species string
		opts    = slicer.DefaultOptions()
	)

	cmd := &cobra.Command{
		Use:   "slice",
		Short: "Partition a genome into training chunks and trim annotations across borders",
		Long: `Cut every sequence of an imported genome into chunk-sized slice
coordinates, assign each sequence to train, dev or test, and split every
transcript straddling a slice border so each retained part lies fully within
one slice.`,
		Example: `  helixer slice --species arabidopsis_thaliana --chunk-size 2000000`,
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
			if len(coords) == 0 {
				return fmt.Errorf("genome %q has no sequences; import it first", species)
			}

			s := slicer.New(db, logger)
			total := 0
			for _, coord := range coords {
				loci, err := db.SuperLociBySeqid(genome.ID, coord.Seqid)
				if err != nil {
					return err
				}
				slices, err := s.SliceCoordinate(coord, loci, opts)
				if err != nil {
					return fmt.Errorf("slice %s: %w", coord.Seqid, err)
				}
				total += len(slices)
			}
			logger.Info("slicing pass complete",
				zap.String("run", s.RunID()),
				zap.String("species", species),
				zap.Int("slices", total))
			return nil
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "species name of the genome to slice")
	cmd.Flags().Int64Var(&opts.ChunkSize, "chunk-size", opts.ChunkSize,
		"size of the chunks each genomic sequence gets cut into")
	cmd.Flags().StringVar(&opts.Seed, "seed", opts.Seed,
		"seed for the train/dev/test split; don't change without cause")
	cmd.Flags().Float64Var(&opts.DevFraction, "dev-fraction", opts.DevFraction,
		"fraction of sequences assigned to the dev set")
	cmd.Flags().Float64Var(&opts.TestFraction, "test-fraction", opts.TestFraction,
		"fraction of sequences assigned to the test set")
	cmd.MarkFlagRequired("species")

	return cmd
}
