package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weberlab-hhu/helixer/internal/annotation"
	"github.com/weberlab-hhu/helixer/internal/store"
)

func newSetsCmd() *cobra.Command {
	var species string

	cmd := &cobra.Command{
		Use:     "sets",
		Short:   "Show train/dev/test assignments of a genome's slice coordinates",
		Example: `  helixer sets --species arabidopsis_thaliana`,
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
			slices, sets, err := db.SliceCoordinates(genome.ID)
			if err != nil {
				return err
			}
			if len(slices) == 0 {
				return fmt.Errorf("genome %q has no slice coordinates; run slicing first", species)
			}

			counts := make(map[annotation.ProcessingSet]int64)
			bp := make(map[annotation.ProcessingSet]int64)
			for _, sl := range slices {
				set, ok := sets[sl.ID]
				if !ok {
					continue
				}
				counts[set]++
				bp[set] += sl.Length()
			}
			for _, set := range []annotation.ProcessingSet{
				annotation.SetTrain, annotation.SetDev, annotation.SetTest,
			} {
				fmt.Printf("%-6s %6d slices %12d bp\n", set, counts[set], bp[set])
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "species name of the genome")
	cmd.MarkFlagRequired("species")

	return cmd
}
