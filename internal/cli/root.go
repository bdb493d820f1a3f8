// Package cli implements the structgate command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "structgate",
	Short: "Deterministic structural admissibility gate",
	Long: "Decides whether a transition is structurally permitted from three\n" +
		"observables (alignment, internal access, context), independent of how\n" +
		"much energy is available. Same inputs, same verdict, byte for byte.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
