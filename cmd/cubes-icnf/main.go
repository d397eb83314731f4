// Command cubes-icnf is the standalone reconstructor: it reads a completed
// search tree's best.log and emits the leaf cube partitioning as an iCNF
// assumption file.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aledsdavies/splits/reconstruct"
)

func main() {
	var (
		bestLogPath string
		outputPath  string
	)

	rootCmd := &cobra.Command{
		Use:           "cubes-icnf",
		Short:         "Derive the leaf cube partitioning from a completed search's best.log",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if bestLogPath == "" {
				return fmt.Errorf("--best-log is required")
			}
			if outputPath == "" {
				outputPath = filepath.Join(filepath.Dir(bestLogPath), "cubes.icnf")
			}

			entries, err := reconstruct.ReadBestLog(bestLogPath)
			if err != nil {
				return err
			}
			leaves := reconstruct.Leaves(entries)
			if err := reconstruct.WriteICNF(outputPath, leaves); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %d leaf cubes to %s\n", len(leaves), outputPath)
			return nil
		},
	}

	rootCmd.Flags().StringVar(&bestLogPath, "best-log", "", "path to the search tree's best.log (required)")
	rootCmd.Flags().StringVar(&outputPath, "output", "", "path to write cubes.icnf (default: alongside best-log)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
