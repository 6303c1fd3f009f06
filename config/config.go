package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/optquant/greeks"
	"github.com/rustyeddy/optquant/grid"
	"github.com/rustyeddy/optquant/internal/logging"
	"github.com/rustyeddy/optquant/option"
	"github.com/rustyeddy/optquant/pricing"
	"gopkg.in/yaml.v3"
)

// Config is one analysis run: market inputs, the strategy legs and where to write results.
type Config struct {
	Market  MarketConfig   `json:"market" yaml:"market"`
	Options []OptionConfig `json:"options" yaml:"options"`
	Grid    grid.Range     `json:"grid" yaml:"grid"`
	Greeks  GreeksConfig   `json:"greeks" yaml:"greeks"`
	Output  OutputConfig   `json:"output" yaml:"output"`
	Log     logging.Config `json:"log" yaml:"log"`
}

// MarketConfig holds the inputs shared by every leg.
type MarketConfig struct {
	Spot     float64 `json:"spot" yaml:"spot"`
	Rate     float64 `json:"rate" yaml:"rate"`
	Dividend float64 `json:"dividend,omitempty" yaml:"dividend,omitempty"` // continuous yield
	Steps    int     `json:"steps" yaml:"steps"`
	Model    string  `json:"model" yaml:"model"` // "binomial" or "bsm"
}

// OptionConfig describes one leg. Underlying defaults to market.spot.
type OptionConfig struct {
	Type       string  `json:"type" yaml:"type"`
	Underlying float64 `json:"underlying,omitempty" yaml:"underlying,omitempty"`
	Strike     float64 `json:"strike" yaml:"strike"`
	Premium    float64 `json:"premium" yaml:"premium"` // negative for short
	ExpiryDays float64 `json:"expiry_days" yaml:"expiry_days"`
	Sigma      float64 `json:"sigma" yaml:"sigma"`
	Fee        float64 `json:"fee" yaml:"fee"`
	European   bool    `json:"european,omitempty" yaml:"european,omitempty"`
}

// GreeksConfig controls the finite-difference estimator and the spot sweep.
type GreeksConfig struct {
	SpotBump float64    `json:"spot_bump" yaml:"spot_bump"`
	VolBump  float64    `json:"vol_bump" yaml:"vol_bump"`
	TimeBump float64    `json:"time_bump" yaml:"time_bump"`
	Workers  int        `json:"workers,omitempty" yaml:"workers,omitempty"`
	Sweep    grid.Range `json:"sweep,omitempty" yaml:"sweep,omitempty"`
}

// Bumps converts the configured perturbations.
func (g GreeksConfig) Bumps() greeks.Bumps {
	return greeks.Bumps{Spot: g.SpotBump, Vol: g.VolBump, Time: g.TimeBump}
}

// OutputConfig selects the artifacts written by an analysis.
type OutputConfig struct {
	Dir    string `json:"dir" yaml:"dir"`
	Format string `json:"format" yaml:"format"` // png, svg or pdf
	CSV    bool   `json:"csv" yaml:"csv"`
	Org    bool   `json:"org" yaml:"org"`
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// YAML is a superset of JSON, the fallback only improves the error message
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills settings a file may leave out: the pricing model,
// zero Greek bumps, the output format and directory, and logging.
func (c *Config) ApplyDefaults() {
	def := Default()

	if c.Market.Model == "" {
		c.Market.Model = def.Market.Model
	}

	if c.Greeks.SpotBump == 0 {
		c.Greeks.SpotBump = def.Greeks.SpotBump
	}
	if c.Greeks.VolBump == 0 {
		c.Greeks.VolBump = def.Greeks.VolBump
	}
	if c.Greeks.TimeBump == 0 {
		c.Greeks.TimeBump = def.Greeks.TimeBump
	}

	if c.Output.Format == "" {
		c.Output.Format = def.Output.Format
	}
	if c.Output.Dir == "" {
		c.Output.Dir = def.Output.Dir
	}

	if c.Log == (logging.Config{}) {
		c.Log = def.Log
		return
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.MaxSize == 0 {
		c.Log.MaxSize = def.Log.MaxSize
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = def.Log.MaxBackups
	}
	if c.Log.MaxAge == 0 {
		c.Log.MaxAge = def.Log.MaxAge
	}
}

// SaveToFile writes YAML for .yaml/.yml paths and indented JSON otherwise.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Market.Spot <= 0 {
		return fmt.Errorf("market.spot must be positive")
	}
	if c.Market.Dividend < 0 {
		return fmt.Errorf("market.dividend must not be negative")
	}
	if c.Market.Steps < 0 {
		return fmt.Errorf("market.steps must not be negative")
	}
	if _, err := pricing.ParseModel(c.Market.Model); err != nil {
		return fmt.Errorf("market.model: %w", err)
	}
	if len(c.Options) == 0 {
		return fmt.Errorf("at least one option is required")
	}
	for i, oc := range c.Options {
		if _, err := oc.Option(c.Market.Spot); err != nil {
			return fmt.Errorf("options[%d]: %w", i, err)
		}
		if oc.Sigma <= 0 {
			return fmt.Errorf("options[%d]: sigma must be positive", i)
		}
	}
	if !c.Grid.IsZero() {
		if err := c.Grid.Validate(); err != nil {
			return fmt.Errorf("grid: %w", err)
		}
	}
	if err := c.Greeks.Bumps().Validate(); err != nil {
		return fmt.Errorf("greeks: %w", err)
	}
	if !c.Greeks.Sweep.IsZero() {
		if err := c.Greeks.Sweep.Validate(); err != nil {
			return fmt.Errorf("greeks.sweep: %w", err)
		}
	}
	switch c.Output.Format {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("output.format must be 'png', 'svg' or 'pdf'")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	return nil
}

// Option converts the leg, defaulting the underlying to spot.
func (oc OptionConfig) Option(spot float64) (option.Option, error) {
	underlying := oc.Underlying
	if underlying == 0 {
		underlying = spot
	}
	return option.New(oc.Type, underlying, oc.Strike, oc.Premium, oc.ExpiryDays, oc.Sigma, oc.Fee, !oc.European)
}

// Inputs are the pricing inputs of one leg under the configured market.
func (c *Config) Inputs(o option.Option) pricing.Inputs {
	in := pricing.FromOption(o, c.Market.Rate, c.Market.Steps)
	in.Dividend = c.Market.Dividend
	return in
}

// Strategy converts every leg.
func (c *Config) Strategy() ([]option.Option, error) {
	out := make([]option.Option, 0, len(c.Options))
	for i, oc := range c.Options {
		o, err := oc.Option(c.Market.Spot)
		if err != nil {
			return nil, fmt.Errorf("options[%d]: %w", i, err)
		}
		out = append(out, o)
	}
	return out, nil
}

// PriceRange is the configured grid, or the default window around spot.
func (c *Config) PriceRange() grid.Range {
	if c.Grid.IsZero() {
		return grid.PnLRange(c.Market.Spot)
	}
	return c.Grid
}

// SweepRange is the configured Greek sweep, or the default window around spot.
func (c *Config) SweepRange() grid.Range {
	if c.Greeks.Sweep.IsZero() {
		return grid.GreekRange(c.Market.Spot)
	}
	return c.Greeks.Sweep
}

// Default is the long put / long call example on a 141 underlying.
func Default() *Config {
	bumps := greeks.DefaultBumps()
	return &Config{
		Market: MarketConfig{
			Spot:  141,
			Rate:  0.04,
			Steps: pricing.DefaultSteps,
			Model: string(pricing.ModelBinomial),
		},
		Options: []OptionConfig{
			{Type: "put", Underlying: 141, Strike: 140, Premium: 8.15, ExpiryDays: 2, Sigma: 1.07, Fee: 0.75},
			{Type: "call", Underlying: 142, Strike: 140, Premium: 5.80, ExpiryDays: 2, Sigma: 1.07, Fee: 0.75, European: true},
		},
		Grid: grid.Range{Low: 130, High: 150, Points: 1000},
		Greeks: GreeksConfig{
			SpotBump: bumps.Spot,
			VolBump:  bumps.Vol,
			TimeBump: bumps.Time,
		},
		Output: OutputConfig{
			Dir:    "./out",
			Format: "png",
			CSV:    true,
			Org:    true,
		},
		Log: logging.DefaultConfig(),
	}
}
