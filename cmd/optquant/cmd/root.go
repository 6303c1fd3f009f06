package cmd

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rustyeddy/optquant/config"
	"github.com/rustyeddy/optquant/internal/logging"
)

// settings holds the global flags, overridable from OPTQUANT_* variables.
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:   "optquant",
	Short: "Option payoff, break-even and Greek analysis",
	Long: `Optquant values options on a binomial tree or with Black-Scholes-Merton
and analyses option strategies.

It provides tools for:
  - Pricing a single American or European option
  - Estimating Delta, Gamma, Theta and Vega by finite differences
  - Strategy PnL curves and break-even prices
  - PnL and Greek plots, CSV curves and Org-mode summaries

Global flags can also be set from the environment, e.g. OPTQUANT_LOG_LEVEL=debug.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "analysis config file (YAML or JSON)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "also log to this file (rotated)")

	for _, name := range []string{"config", "log-level", "log-file"} {
		if err := settings.BindPFlag(name, pf.Lookup(name)); err != nil {
			panic(err)
		}
	}

	settings.SetEnvPrefix("OPTQUANT")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
}

func setupLogging(cmd *cobra.Command, args []string) error {
	logging.Install(logConfig(logging.DefaultConfig()))

	log.Debug().
		Str("command", cmd.Name()).
		Str("config", settings.GetString("config")).
		Msg("starting")
	return nil
}

// logConfig overrides base with --log-level and --log-file, or their
// OPTQUANT_* variables, when those were given.
func logConfig(base logging.Config) logging.Config {
	if settings.IsSet("log-level") {
		base.Level = settings.GetString("log-level")
	}
	if settings.IsSet("log-file") {
		base.FilePath = settings.GetString("log-file")
	}
	return base
}

// loadConfig reads path, then --config, and falls back to the built-in example.
// A loaded file's log section replaces the startup logger.
func loadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		path = settings.GetString("config")
	}
	if path == "" {
		return config.Default(), "(built-in example)", nil
	}

	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("load config: %w", err)
	}

	logging.Install(logConfig(cfg.Log))
	log.Debug().
		Str("path", path).
		Str("level", cfg.Log.Level).
		Int("legs", len(cfg.Options)).
		Msg("config loaded")
	return cfg, path, nil
}
