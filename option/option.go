// Package option models a single listed option and its profit and loss at expiry.
package option

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rustyeddy/optquant/grid"
)

// ErrInvalidType is returned when an option type is neither "call" nor "put".
var ErrInvalidType = errors.New("option type must be 'call' or 'put'")

// Type is the option right.
type Type int

const (
	Call Type = iota
	Put
)

// ParseType converts "call" or "put" (any case) to a Type.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call":
		return Call, nil
	case "put":
		return Put, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrInvalidType, s)
	}
}

func (t Type) String() string {
	switch t {
	case Call:
		return "call"
	case Put:
		return "put"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Valid reports whether t is Call or Put.
func (t Type) Valid() bool {
	return t == Call || t == Put
}

// Style is the exercise style.
type Style int

const (
	American Style = iota
	European
)

func (s Style) String() string {
	if s == European {
		return "european"
	}
	return "american"
}

// Payoff is the intrinsic value of an option with strike k when the underlying trades at s.
// It is NaN for a Type that is neither Call nor Put.
func Payoff(t Type, s, k float64) float64 {
	switch t {
	case Call:
		return math.Max(0, s-k)
	case Put:
		return math.Max(0, k-s)
	default:
		return math.NaN()
	}
}

// Option is one contract. Premium is positive for a long position (premium paid)
// and negative for a short one (premium received). Expiry is in trading days.
type Option struct {
	Type       Type
	Underlying float64
	Strike     float64
	Premium    float64
	Expiry     float64
	Sigma      float64
	Fee        float64
	Style      Style
}

// New builds an Option from a type string, validating the inputs.
func New(typ string, underlying, strike, premium, expiry, sigma, fee float64, american bool) (Option, error) {
	t, err := ParseType(typ)
	if err != nil {
		return Option{}, err
	}
	o := Option{
		Type:       t,
		Underlying: underlying,
		Strike:     strike,
		Premium:    premium,
		Expiry:     expiry,
		Sigma:      sigma,
		Fee:        fee,
		Style:      European,
	}
	if american {
		o.Style = American
	}
	if err := o.Validate(); err != nil {
		return Option{}, err
	}
	return o, nil
}

// Validate checks the fields that PnL and pricing depend on.
func (o Option) Validate() error {
	if !o.Type.Valid() {
		return fmt.Errorf("%w: got %s", ErrInvalidType, o.Type)
	}
	if o.Strike < 0 {
		return fmt.Errorf("strike must be non-negative, got %g", o.Strike)
	}
	if o.Fee < 0 {
		return fmt.Errorf("contract fee must be non-negative, got %g", o.Fee)
	}
	if o.Expiry < 0 {
		return fmt.Errorf("time to expiry must be non-negative, got %g", o.Expiry)
	}
	return nil
}

// IsLong reports whether the premium was paid.
func (o Option) IsLong() bool {
	return o.Premium > 0
}

// IsAmerican reports whether the option can be exercised early.
func (o Option) IsAmerican() bool {
	return o.Style == American
}

// Payoff is the option's intrinsic value at underlying price s.
func (o Option) Payoff(s float64) float64 {
	return Payoff(o.Type, s, o.Strike)
}

// PnLAt is the profit or loss at expiry if the underlying settles at s.
func (o Option) PnLAt(s float64) float64 {
	payoff := o.Payoff(s)
	if o.IsLong() {
		return payoff - o.Premium - o.Fee
	}
	return payoff + math.Abs(o.Premium) - o.Fee
}

// PnL evaluates PnLAt over prices. An empty slice falls back to DefaultGrid.
// Options not built with New should be checked with Validate first: an
// invalid Type yields NaN at every price.
func (o Option) PnL(prices []float64) []float64 {
	if len(prices) == 0 {
		prices = o.DefaultGrid()
	}
	out := make([]float64, len(prices))
	for i, s := range prices {
		out[i] = o.PnLAt(s)
	}
	return out
}

// DefaultGridPoints is the size of the grid returned by DefaultGrid.
const DefaultGridPoints = 1000

// DefaultGrid spans 20% below to 20% above the strike.
func (o Option) DefaultGrid() []float64 {
	prices, err := grid.Linspace(0.8*o.Strike, 1.2*o.Strike, DefaultGridPoints)
	if err != nil {
		// only a negative strike inverts the range
		return nil
	}
	return prices
}

func (o Option) String() string {
	side := "short"
	if o.IsLong() {
		side = "long"
	}
	return fmt.Sprintf("%s %s %s K=%.2f S=%.2f premium=%.2f fee=%.2f T=%gd sigma=%.2f",
		side, o.Style, o.Type, o.Strike, o.Underlying, o.Premium, o.Fee, o.Expiry, o.Sigma)
}
