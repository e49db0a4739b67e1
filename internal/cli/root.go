package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "collective",
	Short: "Tiered collective memory for shared echoes",
	Long:  "Collective records echoes of system activity, ages them through retention tiers, forgets the insignificant, and freezes hourly snapshots. Single Go binary.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}
