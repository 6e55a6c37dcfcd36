// assetctl is the offline companion to the generation server: one-shot
// asset generation and auditing of already-produced mesh files.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "assetctl",
		Short:         "Generate and audit 3D asset bundles",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newGenerateCmd(),
		newValidateCmd(),
	)
	return rootCmd
}
