package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"versioner/internal/export"
)

var (
	exportFormatFlag string
	exportOutFlag    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Scan and export the declaration database",
	Long: `Scan the header matrix and export the result: a SCIP index of every
declaration site (--format scip) or a zstd-compressed JSON dump of the full
report (--format json).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		result, err := runScan(cmd.Context(), cfg, logger, true)
		if err != nil {
			return err
		}

		switch exportFormatFlag {
		case "scip":
			if err := export.WriteSCIP(result.db, rootFlag, exportOutFlag); err != nil {
				return err
			}
		case "json":
			if err := export.WriteJSON(result.report, exportOutFlag); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown export format %q", exportFormatFlag)
		}

		logger.Info("export written", map[string]interface{}{
			"format": exportFormatFlag,
			"path":   exportOutFlag,
		})
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormatFlag, "format", "scip", "Export format: scip or json")
	exportCmd.Flags().StringVar(&exportOutFlag, "out", "versioner-export", "Output file path")
	rootCmd.AddCommand(exportCmd)
}
