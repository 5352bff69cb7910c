package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
)

var logger *zap.Logger

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:     "helixer",
		Short:   "Genome annotation slicing and training-data export",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			var err error
			if verbose {
				logger, err = zap.NewDevelopment()
			} else {
				cfg := zap.NewDevelopmentConfig()
				cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
				logger, err = cfg.Build()
			}
			if err != nil {
				return fmt.Errorf("build logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Sync()
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().String("db", "helixer.db", "path to the annotation SQLite database")
	viper.BindPFlag("db", cmd.PersistentFlags().Lookup("db"))

	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newSliceCmd())
	cmd.AddCommand(newSetsCmd())
	cmd.AddCommand(newMersCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig wires viper: ~/.helixer.yaml plus HELIXER_* environment
// variables.
func initConfig() error {
	home, err := os.UserHomeDir()
	if err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".helixer")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("HELIXER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func configPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".helixer.yaml"
	}
	return filepath.Join(home, ".helixer.yaml")
}
