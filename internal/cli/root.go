// Package cli wires the crptrial subcommands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "crptrial",
	Short: "Simulate and analyze CRP trajectories in a two-arm trial",
	Long: `crptrial simulates C-reactive protein trajectories for a randomized
two-arm trial and analyzes them: descriptive statistics, a mixed-effects
model with a random intercept per patient, and group comparisons per day,
on peak CRP, and on time to normalization.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}
