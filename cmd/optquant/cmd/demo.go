package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optquant/config"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Analyse the built-in example strategy",
	Long: `Run the example analysis: an American put and a European call, both
struck at 140, on a 141 underlying with two trading days to expiry.

Shows the basic workflow of:
  1. Pricing each leg on a 1000-step binomial tree
  2. Estimating the Greeks of each leg
  3. Aggregating PnL over 130-150 and finding the break-evens
  4. Writing the charts, CSV curves and Org summary`,
	RunE: runDemo,
}

var (
	demoOutDir  string
	demoNoFiles bool
)

func init() {
	rootCmd.AddCommand(demoCmd)

	demoCmd.Flags().StringVarP(&demoOutDir, "out", "o", "./demo-out", "output directory")
	demoCmd.Flags().BoolVar(&demoNoFiles, "no-files", false, "print the analysis only")
}

func runDemo(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "=== Long Put + Long Call Demo ===")
	fmt.Fprintln(w)

	cfg := config.Default()
	cfg.Output.Dir = demoOutDir

	if _, err := analyze(cfg, w, !demoNoFiles); err != nil {
		return err
	}

	fmt.Fprintln(w, "\n✓ Edit the scenario with 'optquant config init' and run 'optquant pnl -f <file>'.")
	return nil
}
