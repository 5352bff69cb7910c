package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weberlab-hhu/helixer/internal/export"
	"github.com/weberlab-hhu/helixer/internal/store"
)

func newExportCmd() *cobra.Command {
	var (
		species string
		outPath string
		shuffle bool
		seed    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Encode slice coordinates into training chunks and write them to DuckDB",
		Example: `  helixer export --species arabidopsis_thaliana --out chunks.duckdb
  helixer export --species arabidopsis_thaliana --out chunks.duckdb --shuffle`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(viper.GetString("db"), logger)
			if err != nil {
				return err
			}
			defer db.Close()

			out, err := export.Open(outPath)
			if err != nil {
				return err
			}
			defer out.Close()

			exporter := export.NewExporter(db, out, logger)
			return exporter.Run(species, shuffle, seed)
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "species name of the genome")
	cmd.Flags().StringVar(&outPath, "out", "", "output DuckDB file for encoded chunks")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "shuffle chunk order in the output")
	cmd.Flags().StringVar(&seed, "seed", "puma", "seed for the shuffle order")
	cmd.MarkFlagRequired("species")
	cmd.MarkFlagRequired("out")

	return cmd
}
