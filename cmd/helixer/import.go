package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/weberlab-hhu/helixer/internal/gff"
	"github.com/weberlab-hhu/helixer/internal/store"
)

func newImportCmd() *cobra.Command {
	var (
		species   string
		fastaPath string
		gffPath   string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a genome (FASTA + GFF3) into the annotation database",
		Example: `  helixer import --species arabidopsis_thaliana \
      --fasta genome.fa.gz --gff annotation.gff3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(viper.GetString("db"), logger)
			if err != nil {
				return err
			}
			defer db.Close()

			importer := gff.NewImporter(db, logger)
			_, err = importer.Import(species, fastaPath, gffPath)
			return err
		},
	}

	cmd.Flags().StringVar(&species, "species", "", "species name for the genome")
	cmd.Flags().StringVar(&fastaPath, "fasta", "", "genome FASTA file (.gz supported)")
	cmd.Flags().StringVar(&gffPath, "gff", "", "annotation GFF3 file (.gz supported)")
	cmd.MarkFlagRequired("species")
	cmd.MarkFlagRequired("fasta")
	cmd.MarkFlagRequired("gff")

	return cmd
}
