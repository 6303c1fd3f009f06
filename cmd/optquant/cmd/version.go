package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the optquant CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "optquant version %s\n", version)
		fmt.Fprintln(cmd.OutOrStdout(), "Option payoff, break-even and Greek analysis")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
