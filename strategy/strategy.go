// Package strategy aggregates the expiry PnL of a set of options over a
// shared underlying-price grid and locates the strategy's break-even prices.
package strategy

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/optquant/option"
	"gonum.org/v1/gonum/floats"
)

// ErrNoPrices is returned when a strategy is built without an underlying-price grid.
var ErrNoPrices = errors.New("underlying prices must be provided")

// Strategy is an ordered set of options evaluated on one price grid.
// PnL and break-evens are computed once, at construction.
type Strategy struct {
	options    []option.Option
	prices     []float64
	pnl        []float64
	breakEvens []float64
}

// New computes the aggregate PnL and break-even prices of options over prices.
// Every option must pass Validate.
func New(options []option.Option, prices []float64) (*Strategy, error) {
	if len(prices) == 0 {
		return nil, ErrNoPrices
	}
	for i, o := range options {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("option %d: %w", i, err)
		}
	}

	s := &Strategy{
		options: append([]option.Option(nil), options...),
		prices:  append([]float64(nil), prices...),
	}
	s.pnl = AggregatePnL(s.options, s.prices)
	s.breakEvens = BreakEvens(s.prices, s.pnl)
	return s, nil
}

// AggregatePnL sums each option's PnL element-wise over prices.
func AggregatePnL(options []option.Option, prices []float64) []float64 {
	total := make([]float64, len(prices))
	if len(prices) == 0 {
		return total
	}
	for _, o := range options {
		floats.Add(total, o.PnL(prices))
	}
	return total
}

// BreakEvens returns prices[i] for every i where pnl changes sign between i and i+1.
// A zero value has sign zero, so touching zero counts as a change.
func BreakEvens(prices, pnl []float64) []float64 {
	n := len(pnl)
	if len(prices) < n {
		n = len(prices)
	}

	out := []float64{}
	for i := 0; i+1 < n; i++ {
		if sign(pnl[i]) != sign(pnl[i+1]) {
			out = append(out, prices[i])
		}
	}
	return out
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Options returns a copy of the strategy's legs.
func (s *Strategy) Options() []option.Option {
	return append([]option.Option(nil), s.options...)
}

// Prices returns a copy of the underlying-price grid.
func (s *Strategy) Prices() []float64 {
	return append([]float64(nil), s.prices...)
}

// PnL returns a copy of the aggregate PnL, aligned with Prices.
func (s *Strategy) PnL() []float64 {
	return append([]float64(nil), s.pnl...)
}

// BreakEvens returns a copy of the break-even prices in ascending grid order.
func (s *Strategy) BreakEvens() []float64 {
	return append([]float64(nil), s.breakEvens...)
}

// MaxProfit is the largest PnL on the grid.
func (s *Strategy) MaxProfit() float64 {
	return floats.Max(s.pnl)
}

// MaxLoss is the smallest PnL on the grid. It is negative when the strategy can lose money.
func (s *Strategy) MaxLoss() float64 {
	return floats.Min(s.pnl)
}

// NetPremium is the premium paid (positive) or received (negative) across all legs.
func (s *Strategy) NetPremium() float64 {
	var total float64
	for _, o := range s.options {
		total += o.Premium
	}
	return total
}

// TotalFees is the sum of contract fees across all legs.
func (s *Strategy) TotalFees() float64 {
	var total float64
	for _, o := range s.options {
		total += o.Fee
	}
	return total
}

// PnLAt evaluates the aggregate PnL at a price that need not lie on the grid.
func (s *Strategy) PnLAt(price float64) float64 {
	var total float64
	for _, o := range s.options {
		total += o.PnLAt(price)
	}
	return total
}
