package main

import (
	"fmt"
	"os"

	"versioner/internal/errors"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "versioner: %v\n", err)
		if errors.IsFatal(err) {
			// Header-authoring defects corrupt the database model; nothing
			// after the first one can be trusted.
			os.Exit(2)
		}
		os.Exit(1)
	}
}
