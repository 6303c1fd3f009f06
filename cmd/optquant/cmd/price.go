package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/optquant/pricing"
)

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Price a single option",
	Long: `Value one option on a Cox-Ross-Rubinstein tree or with the
Black-Scholes-Merton formula.

Black-Scholes-Merton has no early exercise: American options are priced
as European and a warning is logged.

Examples:
  optquant price --type put --spot 141 --strike 140 --days 2 --sigma 1.07
  optquant price -t call -s 100 -k 105 -d 63 --sigma 0.25 --model bsm --european`,
	RunE: runPrice,
}

var priceFlags optionFlags

func init() {
	rootCmd.AddCommand(priceCmd)
	priceFlags.register(priceCmd)
}

func runPrice(cmd *cobra.Command, args []string) error {
	in, model, err := priceFlags.inputs()
	if err != nil {
		return err
	}

	value, err := model.Func()(in)
	if err != nil {
		return fmt.Errorf("price: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s %s %.2f (spot %.2f, %.1f days, sigma %.4f, rate %.4f)\n",
		in.Style, in.Type, in.Strike, in.Spot, in.Expiry*pricing.TradingDays, in.Sigma, in.Rate)
	fmt.Fprintf(w, "  Model: %s\n", model)
	highlight.Fprintf(w, "  Price: %.4f\n", value)
	return nil
}
