package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"versioner/internal/storage"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-snapshot> <new-snapshot>",
	Short: "Compare two scan snapshots",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup()
		if err != nil {
			return err
		}

		diff, err := storage.DiffSnapshots(args[0], args[1], logger)
		if err != nil {
			return err
		}

		for _, row := range diff.Added {
			fmt.Fprintf(os.Stdout, "added   %s %s: %s\n", row.Kind, row.Name, row.Availability)
		}
		for _, row := range diff.Removed {
			fmt.Fprintf(os.Stdout, "removed %s %s: %s\n", row.Kind, row.Name, row.Availability)
		}
		for _, change := range diff.Changed {
			fmt.Fprintf(os.Stdout, "changed %s: %s -> %s\n", change.Name, change.Old, change.New)
		}

		if !diff.Empty() {
			return fmt.Errorf("%d added, %d removed, %d changed",
				len(diff.Added), len(diff.Removed), len(diff.Changed))
		}
		fmt.Fprintln(os.Stdout, "snapshots are identical")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
