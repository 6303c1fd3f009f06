package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/optquant/greeks"
	"github.com/rustyeddy/optquant/grid"
	"github.com/rustyeddy/optquant/internal/logging"
	"github.com/rustyeddy/optquant/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, 141.0, cfg.Market.Spot)
	assert.Equal(t, "binomial", cfg.Market.Model)
	assert.Len(t, cfg.Options, 2)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "zero spot",
			mutate:  func(c *Config) { c.Market.Spot = 0 },
			wantErr: true,
			errMsg:  "market.spot must be positive",
		},
		{
			name:    "negative steps",
			mutate:  func(c *Config) { c.Market.Steps = -1 },
			wantErr: true,
			errMsg:  "market.steps must not be negative",
		},
		{
			name:    "negative dividend",
			mutate:  func(c *Config) { c.Market.Dividend = -0.01 },
			wantErr: true,
			errMsg:  "market.dividend must not be negative",
		},
		{
			name:    "unknown model",
			mutate:  func(c *Config) { c.Market.Model = "heston" },
			wantErr: true,
			errMsg:  "unknown pricing model",
		},
		{
			name:    "no options",
			mutate:  func(c *Config) { c.Options = nil },
			wantErr: true,
			errMsg:  "at least one option is required",
		},
		{
			name:    "bad option type",
			mutate:  func(c *Config) { c.Options[1].Type = "strangle" },
			wantErr: true,
			errMsg:  "options[1]: option type must be 'call' or 'put'",
		},
		{
			name:    "zero sigma",
			mutate:  func(c *Config) { c.Options[0].Sigma = 0 },
			wantErr: true,
			errMsg:  "options[0]: sigma must be positive",
		},
		{
			name:    "inverted grid",
			mutate:  func(c *Config) { c.Grid = grid.Range{Low: 150, High: 130, Points: 10} },
			wantErr: true,
			errMsg:  "grid: invalid price range",
		},
		{
			name:    "zero spot bump",
			mutate:  func(c *Config) { c.Greeks.SpotBump = 0 },
			wantErr: true,
			errMsg:  "greeks: invalid greek perturbation",
		},
		{
			name:    "bad format",
			mutate:  func(c *Config) { c.Output.Format = "gif" },
			wantErr: true,
			errMsg:  "output.format must be",
		},
		{
			name:    "missing dir",
			mutate:  func(c *Config) { c.Output.Dir = "" },
			wantErr: true,
			errMsg:  "output.dir is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			path := filepath.Join(tmpDir, "test"+tt.ext)

			err := cfg.SaveToFile(path)
			require.NoError(t, err)

			_, err = os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Market, loaded.Market)
			assert.Equal(t, cfg.Options, loaded.Options)
			assert.Equal(t, cfg.Grid, loaded.Grid)
			assert.Equal(t, cfg.Greeks.Bumps(), loaded.Greeks.Bumps())
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("market: [unclosed"), 0644))
	_, err = LoadFromFile(path)
	assert.ErrorContains(t, err, "parse config")
}

func TestLoadYAMLDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "straddle.yaml")
	doc := `
market:
  spot: 100
  rate: 0.05
options:
  - type: call
    strike: 100
    premium: 4
    expiry_days: 10
    sigma: 0.3
  - type: put
    strike: 100
    premium: -3.5
    expiry_days: 10
    sigma: 0.3
    european: true
greeks:
  spot_bump: 0.05
  vol_bump: 0.05
  time_bump: 0.001
output:
  dir: out
  format: svg
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	legs, err := cfg.Strategy()
	require.NoError(t, err)
	require.Len(t, legs, 2)
	assert.Equal(t, 100.0, legs[0].Underlying)
	assert.Equal(t, option.American, legs[0].Style)
	assert.Equal(t, option.European, legs[1].Style)
	assert.False(t, legs[1].IsLong())

	assert.Equal(t, grid.PnLRange(100), cfg.PriceRange())
	assert.Equal(t, grid.GreekRange(100), cfg.SweepRange())
}

func TestLoadAppliesDefaults(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want func(t *testing.T, cfg *Config)
	}{
		{
			name: "no greeks or log section",
			doc: `
market:
  spot: 100
options:
  - type: call
    strike: 105
    premium: 2
    expiry_days: 20
    sigma: 0.25
output:
  dir: runs
  format: pdf
`,
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, greeks.DefaultBumps(), cfg.Greeks.Bumps())
				assert.Equal(t, "binomial", cfg.Market.Model)
				assert.Equal(t, "runs", cfg.Output.Dir)
				assert.Equal(t, "pdf", cfg.Output.Format)
				assert.Equal(t, logging.DefaultConfig(), cfg.Log)
			},
		},
		{
			name: "no output section",
			doc: `
market:
  spot: 50
  dividend: 0.02
options:
  - type: put
    strike: 50
    premium: -1
    expiry_days: 5
    sigma: 0.4
greeks:
  spot_bump: 0.01
log:
  level: debug
  console: true
`,
			want: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 0.01, cfg.Greeks.SpotBump)
				assert.Equal(t, greeks.DefaultBumps().Vol, cfg.Greeks.VolBump)
				assert.Equal(t, greeks.DefaultBumps().Time, cfg.Greeks.TimeBump)
				assert.Equal(t, "./out", cfg.Output.Dir)
				assert.Equal(t, "png", cfg.Output.Format)
				assert.Equal(t, "debug", cfg.Log.Level)
				assert.True(t, cfg.Log.Console)
				assert.Equal(t, logging.DefaultConfig().MaxSize, cfg.Log.MaxSize)

				legs, err := cfg.Strategy()
				require.NoError(t, err)
				in := cfg.Inputs(legs[0])
				assert.Equal(t, 0.02, in.Dividend)
				assert.Equal(t, 50.0, in.Spot)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "partial.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.doc), 0644))

			cfg, err := LoadFromFile(path)
			require.NoError(t, err)
			tt.want(t, cfg)
		})
	}
}

func TestExampleConfigs(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "examples", "configs", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		path := path
		t.Run(filepath.Base(path), func(t *testing.T) {
			t.Parallel()

			cfg, err := LoadFromFile(path)
			require.NoError(t, err)

			legs, err := cfg.Strategy()
			require.NoError(t, err)
			assert.Len(t, legs, len(cfg.Options))

			prices, err := cfg.PriceRange().Prices()
			require.NoError(t, err)
			assert.NotEmpty(t, prices)
		})
	}
}
