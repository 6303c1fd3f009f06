package option

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"call", Call, false},
		{"CALL", Call, false},
		{" Put ", Put, false},
		{"put", Put, false},
		{"straddle", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseType(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPayoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		typ  Type
		s, k float64
		want float64
	}{
		{"call itm", Call, 150, 140, 10},
		{"call otm", Call, 130, 140, 0},
		{"call atm", Call, 140, 140, 0},
		{"put itm", Put, 130, 140, 10},
		{"put otm", Put, 150, 140, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, Payoff(tt.typ, tt.s, tt.k), 1e-12)
		})
	}
}

func TestPnLLongAndShort(t *testing.T) {
	t.Parallel()

	long, err := New("put", 141, 140, 8.15, 2, 1.07, 0.75, true)
	require.NoError(t, err)
	short, err := New("call", 142, 140, -5.80, 2, 1.07, 0.75, false)
	require.NoError(t, err)

	prices := []float64{130, 140, 150}

	// payoff - premium - fee
	assert.InDeltaSlice(t, []float64{10 - 8.15 - 0.75, -8.15 - 0.75, -8.15 - 0.75}, long.PnL(prices), 1e-12)
	// payoff + |premium| - fee
	assert.InDeltaSlice(t, []float64{5.80 - 0.75, 5.80 - 0.75, 10 + 5.80 - 0.75}, short.PnL(prices), 1e-12)

	assert.True(t, long.IsLong())
	assert.False(t, short.IsLong())
	assert.True(t, long.IsAmerican())
	assert.False(t, short.IsAmerican())
}

func TestPnLDefaultGrid(t *testing.T) {
	t.Parallel()

	o, err := New("call", 100, 100, 2, 5, 0.3, 0, true)
	require.NoError(t, err)

	pnl := o.PnL(nil)
	require.Len(t, pnl, DefaultGridPoints)

	grid := o.DefaultGrid()
	assert.InDelta(t, 80.0, grid[0], 1e-9)
	assert.InDelta(t, 120.0, grid[len(grid)-1], 1e-9)
	assert.InDelta(t, -2.0, pnl[0], 1e-9)
	assert.InDelta(t, 18.0, pnl[len(pnl)-1], 1e-9)
}

func TestNewValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		typ    string
		strike float64
		expiry float64
		fee    float64
		errMsg string
	}{
		{"bad type", "forward", 100, 1, 0, "option type must be"},
		{"negative strike", "call", -1, 1, 0, "strike must be non-negative"},
		{"negative expiry", "put", 100, -1, 0, "time to expiry must be non-negative"},
		{"negative fee", "put", 100, 1, -0.5, "contract fee must be non-negative"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.typ, 100, tt.strike, 1, tt.expiry, 0.2, tt.fee, true)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestTypeString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "call", Call.String())
	assert.Equal(t, "put", Put.String())
	assert.Equal(t, "Type(7)", Type(7).String())
	assert.False(t, Type(7).Valid())
	assert.Equal(t, "american", American.String())
	assert.Equal(t, "european", European.String())
}

func TestInvalidTypeHasNoPayoff(t *testing.T) {
	t.Parallel()

	bogus := Type(7)
	assert.True(t, math.IsNaN(Payoff(bogus, 120, 100)))

	o := Option{Type: bogus, Strike: 100, Premium: 2}
	assert.ErrorIs(t, o.Validate(), ErrInvalidType)
	for _, v := range o.PnL([]float64{80, 100, 120}) {
		assert.True(t, math.IsNaN(v))
	}
}
