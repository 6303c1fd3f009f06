// Package grid builds the underlying-price sample grids that PnL curves and
// Greek sweeps are evaluated on.
package grid

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidRange is returned for grids with fewer than two points or an inverted range.
var ErrInvalidRange = errors.New("invalid price range")

// Default grid shapes.
const (
	PnLLowPct    = 0.95
	PnLHighPct   = 1.05
	PnLPoints    = 600
	GreekLowPct  = 0.5
	GreekHighPct = 1.5
	GreekPoints  = 100
)

// Range is a closed price interval sampled at Points evenly spaced prices.
type Range struct {
	Low    float64 `json:"low" yaml:"low"`
	High   float64 `json:"high" yaml:"high"`
	Points int     `json:"points" yaml:"points"`
}

// Validate checks that the range can be sampled.
func (r Range) Validate() error {
	if r.Points < 2 {
		return fmt.Errorf("%w: need at least 2 points, got %d", ErrInvalidRange, r.Points)
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: low %g > high %g", ErrInvalidRange, r.Low, r.High)
	}
	return nil
}

// Prices samples the range.
func (r Range) Prices() ([]float64, error) {
	return Linspace(r.Low, r.High, r.Points)
}

// IsZero reports whether the range was left unset.
func (r Range) IsZero() bool {
	return r == Range{}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) ([]float64, error) {
	if err := (Range{Low: lo, High: hi, Points: n}).Validate(); err != nil {
		return nil, err
	}
	return floats.Span(make([]float64, n), lo, hi), nil
}

// Around returns a range from spot*lowPct to spot*highPct.
func Around(spot, lowPct, highPct float64, n int) Range {
	return Range{Low: spot * lowPct, High: spot * highPct, Points: n}
}

// PnLRange is the default expiry-PnL window: 5% either side of spot.
func PnLRange(spot float64) Range {
	return Around(spot, PnLLowPct, PnLHighPct, PnLPoints)
}

// GreekRange is the default Greek sweep window: 50% either side of spot.
func GreekRange(spot float64) Range {
	return Around(spot, GreekLowPct, GreekHighPct, GreekPoints)
}
