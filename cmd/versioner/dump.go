package main

import (
	"os"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Scan and dump the full declaration database",
	Long: `Scan the header matrix and print every symbol with its declaration sites
and the availability observed under each configuration. Unlike scan, dump
never fails on availability conflicts; it is a debugging view.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		result, err := runScan(cmd.Context(), cfg, logger, true)
		if err != nil {
			return err
		}
		result.report.RenderText(os.Stdout)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}
