package generate

import "github.com/spf13/cobra"

// Apply adds the generate command to the provided root command
func Apply(rootCmd *cobra.Command) {
	rootCmd.AddCommand(generateCmd)
}
