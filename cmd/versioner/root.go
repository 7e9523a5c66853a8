package main

import (
	"github.com/spf13/cobra"

	"versioner/internal/config"
	"versioner/internal/logging"
	"versioner/internal/version"
)

var (
	rootFlag      string
	logLevelFlag  string
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "versioner",
	Short: "versioner - platform header availability auditor",
	Long: `versioner parses a platform's C headers once per (architecture, API level)
configuration, folds every declaration into a shared database, and validates
that availability annotations are consistent across the whole matrix.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.SetVersionTemplate("versioner {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", ".",
		"Project root containing .versioner/config.json")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human or json (default from config)")
}

// setup loads the configuration and builds the logger, applying CLI
// overrides over the config file.
func setup() (*config.Config, *logging.Logger, error) {
	cfg, err := config.LoadConfig(rootFlag)
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}

	logger := logging.New(logging.Config{
		Format: logging.Format(format),
		Level:  logging.Level(level),
	})
	return cfg, logger, nil
}
