package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rustyeddy/optquant/chart"
	"github.com/rustyeddy/optquant/config"
	"github.com/rustyeddy/optquant/greeks"
	"github.com/rustyeddy/optquant/internal/id"
	"github.com/rustyeddy/optquant/pricing"
	"github.com/rustyeddy/optquant/report"
	"github.com/rustyeddy/optquant/strategy"
)

var pnlCmd = &cobra.Command{
	Use:   "pnl",
	Short: "Analyse a strategy from a config file",
	Long: `Compute the expiry PnL of a multi-leg strategy, its break-even prices,
the model price and Greeks of every leg, and write the PnL chart, CSV curve
and Org-mode summary into the output directory.

Without -f the --config file is used, and without either the built-in
example (long put + long call, strike 140) is analysed.

Example:
  optquant pnl -f strategy.yaml
  optquant pnl -f strategy.yaml --out ./runs --no-files`,
	RunE: runPnL,
}

var (
	pnlConfigPath string
	pnlOutDir     string
	pnlNoFiles    bool
)

func init() {
	rootCmd.AddCommand(pnlCmd)

	pnlCmd.Flags().StringVarP(&pnlConfigPath, "file", "f", "", "path to config file (YAML or JSON)")
	pnlCmd.Flags().StringVarP(&pnlOutDir, "out", "o", "", "output directory (overrides output.dir)")
	pnlCmd.Flags().BoolVar(&pnlNoFiles, "no-files", false, "print the analysis only")
}

func runPnL(cmd *cobra.Command, args []string) error {
	cfg, source, err := loadConfig(pnlConfigPath)
	if err != nil {
		return err
	}
	if pnlOutDir != "" {
		cfg.Output.Dir = pnlOutDir
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Analysing strategy from %s\n", source)
	_, err = analyze(cfg, cmd.OutOrStdout(), !pnlNoFiles)
	return err
}

// analyze prices every leg, builds the strategy PnL and, when files is set,
// writes the configured artifacts.
func analyze(cfg *config.Config, w io.Writer, files bool) (*report.Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	legs, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}
	prices, err := cfg.PriceRange().Prices()
	if err != nil {
		return nil, err
	}
	s, err := strategy.New(legs, prices)
	if err != nil {
		return nil, err
	}

	model, err := pricing.ParseModel(cfg.Market.Model)
	if err != nil {
		return nil, err
	}
	est := greeks.ForModel(model)
	est.Bumps = cfg.Greeks.Bumps()
	est.Workers = cfg.Greeks.Workers

	runID := id.New()
	a := report.NewAnalysis(runID, string(model), cfg.Market.Spot, cfg.Market.Rate, cfg.Market.Steps, s)

	fmt.Fprintf(w, "  Run: %s  Model: %s  Spot: %s  Rate: %g\n\n",
		id.Short(runID), model, report.Money(cfg.Market.Spot), cfg.Market.Rate)
	fmt.Fprintf(w, "  %-3s %-6s %-5s %-9s %9s %9s %9s %9s %9s %9s\n",
		"#", "side", "type", "style", "strike", "premium", "price", "delta", "gamma", "theta")

	// Inputs are prepared once per leg so an unsupported exercise style is
	// reported once, not on every perturbed valuation.
	var firstIn pricing.Inputs
	for i, o := range legs {
		in := model.Prepare(cfg.Inputs(o))
		if i == 0 {
			firstIn = in
		}
		value, err := model.Func()(in)
		if err != nil {
			return nil, fmt.Errorf("leg %d: %w", i, err)
		}
		g, err := est.Estimate(in)
		if err != nil {
			return nil, fmt.Errorf("leg %d greeks: %w", i, err)
		}
		a.AddLeg(o, value, g)

		side := "long"
		if !o.IsLong() {
			side = "short"
		}
		fmt.Fprintf(w, "  %-3d %-6s %-5s %-9s %9.2f %9.2f %9.4f %9.4f %9.4f %9.4f\n",
			i, side, o.Type, o.Style, o.Strike, o.Premium, value, g.Delta, g.Gamma, g.Theta)
	}

	fmt.Fprintln(w)
	breakEvens(w, a.BreakEvens)
	signed(w, "Max profit:", a.MaxProfit)
	signed(w, "Max loss:", a.MaxLoss)
	fmt.Fprintf(w, "  %-13s%s (fees %s)\n", "Net premium:", report.Money(a.NetPremium), report.Money(a.TotalFees))

	if !files {
		return a, nil
	}
	if err := writeArtifacts(cfg, s, est, firstIn, a, w); err != nil {
		return nil, err
	}
	return a, nil
}

func writeArtifacts(cfg *config.Config, s *strategy.Strategy, est *greeks.Estimator, firstIn pricing.Inputs, a *report.Analysis, w io.Writer) error {
	base := filepath.Join(cfg.Output.Dir, "optquant-"+id.Short(a.RunID))
	ext := "." + cfg.Output.Format

	p, err := chart.PnL(s, chart.PnLOptions{Spot: cfg.Market.Spot})
	if err != nil {
		return err
	}
	a.PlotPath = base + "-pnl" + ext
	if err := chart.Save(p, a.PlotPath, chart.Width, chart.Height); err != nil {
		return fmt.Errorf("save pnl chart: %w", err)
	}
	fmt.Fprintf(w, "\n✓ PnL chart: %s\n", a.PlotPath)

	// The Greek chart follows the first leg across the sweep window.
	spots, err := cfg.SweepRange().Prices()
	if err != nil {
		return err
	}
	points, err := est.Sweep(firstIn, spots)
	if err != nil {
		return fmt.Errorf("greek sweep: %w", err)
	}
	plots, err := chart.Greeks(points, firstIn.Strike)
	if err != nil {
		return err
	}
	a.GreeksPath = base + "-greeks" + ext
	if err := chart.SaveGrid(plots, a.GreeksPath, chart.Width, chart.Height); err != nil {
		return fmt.Errorf("save greeks chart: %w", err)
	}
	fmt.Fprintf(w, "✓ Greeks chart: %s\n", a.GreeksPath)

	if cfg.Output.CSV {
		a.CSVPath = base + "-pnl.csv"
		if err := report.SavePnL(a.CSVPath, s); err != nil {
			return err
		}
		if err := report.SaveGreeks(base+"-greeks.csv", points); err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ CSV curves: %s, %s\n", a.CSVPath, base+"-greeks.csv")
	}

	if cfg.Output.Org {
		orgPath := base + ".org"
		if err := a.SaveOrg(orgPath); err != nil {
			return err
		}
		fmt.Fprintf(w, "✓ Org summary: %s\n", orgPath)
	}

	log.Info().
		Str("run_id", a.RunID).
		Str("dir", cfg.Output.Dir).
		Msg("analysis written")
	return nil
}
