package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"versioner/internal/errors"
	"versioner/internal/report"
	"versioner/internal/storage"
)

var (
	scanFormatFlag   string
	scanSnapshotFlag bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the header matrix and validate availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		result, err := runScan(cmd.Context(), cfg, logger, false)
		if err != nil {
			return err
		}

		switch scanFormatFlag {
		case "text":
			result.report.RenderText(os.Stdout)
		case "yaml":
			if err := result.report.RenderYAML(os.Stdout); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown output format %q", scanFormatFlag)
		}

		if scanSnapshotFlag {
			snap, err := storage.Create(resolve(cfg.SnapshotPath), logger)
			if err != nil {
				return err
			}
			defer snap.Close()
			// The snapshot carries the per-declaration detail even though
			// the scan output does not.
			detailed := report.Build(result.db, result.base, true)
			if err := snap.WriteReport(detailed, result.headers); err != nil {
				return err
			}
			logger.Info("snapshot written", map[string]interface{}{"path": cfg.SnapshotPath})
		}

		if result.report.Failed() {
			return errors.New(errors.AvailabilityConflict,
				fmt.Sprintf("%d symbols with conflicting availability", result.report.Conflicts))
		}
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVar(&scanFormatFlag, "format", "text", "Output format: text or yaml")
	scanCmd.Flags().BoolVar(&scanSnapshotFlag, "snapshot", false, "Write a SQLite snapshot of the result")
	rootCmd.AddCommand(scanCmd)
}
