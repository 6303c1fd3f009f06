package pricing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rustyeddy/optquant/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atm(style option.Style) Inputs {
	return Inputs{
		Type:   option.Call,
		Spot:   100,
		Strike: 100,
		Rate:   0.05,
		Expiry: 0.5,
		Sigma:  0.3,
		Steps:  1000,
		Style:  style,
	}
}

func TestBinomialMatchesBSMForEuropean(t *testing.T) {
	t.Parallel()

	in := atm(option.European)
	tree, err := Binomial(in)
	require.NoError(t, err)
	closed, err := BlackScholesMerton(in)
	require.NoError(t, err)

	assert.InDelta(t, closed, tree, 0.02)
}

func TestBSMPricesAmericanAsEuropean(t *testing.T) {
	t.Parallel()

	am, err := BlackScholesMerton(atm(option.American))
	require.NoError(t, err)
	eu, err := BlackScholesMerton(atm(option.European))
	require.NoError(t, err)

	assert.Equal(t, eu, am)
}

func TestBinomialDefaultSteps(t *testing.T) {
	t.Parallel()

	in := atm(option.American)
	withDefault := in
	withDefault.Steps = 0

	a, err := Binomial(in)
	require.NoError(t, err)
	b, err := Binomial(withDefault)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFromOption(t *testing.T) {
	t.Parallel()

	o, err := option.New("put", 141, 140, 8.15, 2, 1.07, 0.75, true)
	require.NoError(t, err)

	in := FromOption(o, 0.04, 500)
	assert.Equal(t, option.Put, in.Type)
	assert.Equal(t, 141.0, in.Spot)
	assert.Equal(t, 140.0, in.Strike)
	assert.InDelta(t, 2.0/252.0, in.Expiry, 1e-15)
	assert.Equal(t, 1.07, in.Sigma)
	assert.Equal(t, 500, in.Steps)
	assert.Equal(t, option.American, in.Style)

	price, err := ModelBinomial.Option(o, 0.04, 200)
	require.NoError(t, err)
	assert.Greater(t, price, 0.0)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Inputs)
		errMsg string
	}{
		{"bad type", func(in *Inputs) { in.Type = option.Type(9) }, "option type must be"},
		{"zero spot", func(in *Inputs) { in.Spot = 0 }, "spot must be positive"},
		{"zero strike", func(in *Inputs) { in.Strike = 0 }, "strike must be positive"},
		{"zero sigma", func(in *Inputs) { in.Sigma = 0 }, "sigma must be positive"},
		{"negative expiry", func(in *Inputs) { in.Expiry = -1 }, "expiry must be non-negative"},
		{"negative steps", func(in *Inputs) { in.Steps = -5 }, "steps must be positive"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			in := atm(option.European)
			tt.mutate(&in)

			_, err := Binomial(in)
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.errMsg)

			_, err = BlackScholesMerton(in)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExpiredIsIntrinsic(t *testing.T) {
	t.Parallel()

	in := atm(option.American)
	in.Spot = 110
	in.Expiry = 0

	price, err := Binomial(in)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, price, 1e-12)
}

func TestParseModel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Model
		wantErr bool
	}{
		{"binomial", ModelBinomial, false},
		{"CRR", ModelBinomial, false},
		{"", ModelBinomial, false},
		{"bsm", ModelBSM, false},
		{"Black-Scholes", ModelBSM, false},
		{"monte-carlo", "", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseModel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDividendYield(t *testing.T) {
	t.Parallel()

	in := atm(option.European)
	payer := in
	payer.Dividend = 0.06

	call, err := BlackScholesMerton(in)
	require.NoError(t, err)
	callDiv, err := BlackScholesMerton(payer)
	require.NoError(t, err)
	assert.Less(t, callDiv, call)

	// An American call on a dividend payer carries an early-exercise premium.
	payer.Dividend = 0.12
	eu, err := Binomial(payer)
	require.NoError(t, err)
	payer.Style = option.American
	am, err := Binomial(payer)
	require.NoError(t, err)
	assert.Greater(t, am, eu+1e-3)
}

// captureWarnings swaps the global logger; callers must not run in parallel.
func captureWarnings(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf).Level(zerolog.WarnLevel)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestModelPriceWarnsForAmericanBSM(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		style option.Style
		warns int
	}{
		{"bsm american", ModelBSM, option.American, 1},
		{"bsm european", ModelBSM, option.European, 0},
		{"binomial american", ModelBinomial, option.American, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureWarnings(t)

			_, err := tt.model.Price(atm(tt.style))
			require.NoError(t, err)
			assert.Equal(t, tt.warns, strings.Count(buf.String(), `"level":"warn"`))
		})
	}
}

func TestPrepareIsQuietOnceEuropean(t *testing.T) {
	buf := captureWarnings(t)

	in := ModelBSM.Prepare(atm(option.American))
	assert.Equal(t, option.European, in.Style)
	for i := 0; i < 10; i++ {
		_, err := BlackScholesMerton(in)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), `"level":"warn"`))
}
