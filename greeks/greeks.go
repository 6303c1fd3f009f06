// Package greeks estimates option sensitivities by finite differences
// around a pricing function.
package greeks

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/rustyeddy/optquant/pricing"
	"github.com/sourcegraph/conc/iter"
)

// ErrInvalidBumps is returned when a perturbation size is not usable.
var ErrInvalidBumps = errors.New("invalid greek perturbation")

// Greeks are first and second order sensitivities of the option price.
// Theta is per year of elapsed time; Vega is per unit of volatility.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

// Bumps are perturbation sizes relative to the input being perturbed.
type Bumps struct {
	Spot float64 `json:"spot" yaml:"spot"`
	Vol  float64 `json:"vol" yaml:"vol"`
	Time float64 `json:"time" yaml:"time"`
}

// DefaultBumps perturbs spot and volatility by 5% and time by 0.1%.
func DefaultBumps() Bumps {
	return Bumps{Spot: 0.05, Vol: 0.05, Time: 1e-3}
}

// Validate requires every bump in (0, 1).
func (b Bumps) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"spot", b.Spot}, {"vol", b.Vol}, {"time", b.Time}} {
		if f.v <= 0 || f.v >= 1 {
			return fmt.Errorf("%w: %s bump must be in (0, 1), got %g", ErrInvalidBumps, f.name, f.v)
		}
	}
	return nil
}

// Estimator computes Greeks from repeated calls to Price.
type Estimator struct {
	Price pricing.Func
	Bumps Bumps

	// Prepare, when set, adapts the inputs once per Estimate or Sweep
	// before any perturbed valuation.
	Prepare func(pricing.Inputs) pricing.Inputs

	// Workers bounds the concurrent valuations in Sweep. Zero means GOMAXPROCS.
	Workers int
}

// NewEstimator returns an Estimator with DefaultBumps.
func NewEstimator(price pricing.Func) *Estimator {
	return &Estimator{Price: price, Bumps: DefaultBumps()}
}

// ForModel returns an Estimator pricing with m and using m.Prepare.
func ForModel(m pricing.Model) *Estimator {
	e := NewEstimator(m.Func())
	e.Prepare = m.Prepare
	return e
}

func (e *Estimator) prepare(in pricing.Inputs) pricing.Inputs {
	if e.Prepare == nil {
		return in
	}
	return e.Prepare(in)
}

// Estimate computes Greeks at in:
//
//	delta = (P(S+dS) - P(S-dS)) / 2dS
//	gamma = (P(S+dS) - 2P(S) + P(S-dS)) / dS^2
//	theta = (P(T-dT) - P(T)) / dT
//	vega  = (P(s+ds) - P(s-ds)) / 2ds
//
// Theta is zero for an expired option.
func (e *Estimator) Estimate(in pricing.Inputs) (Greeks, error) {
	return e.estimate(e.prepare(in))
}

func (e *Estimator) estimate(in pricing.Inputs) (Greeks, error) {
	if err := e.Bumps.Validate(); err != nil {
		return Greeks{}, err
	}
	if err := in.Validate(); err != nil {
		return Greeks{}, err
	}

	dS := e.Bumps.Spot * in.Spot
	dSigma := e.Bumps.Vol * in.Sigma
	dT := e.Bumps.Time * in.Expiry

	p := pricer{fn: e.Price}

	base := p.at(in)
	up := p.at(with(in, func(x *pricing.Inputs) { x.Spot += dS }))
	down := p.at(with(in, func(x *pricing.Inputs) { x.Spot -= dS }))
	volUp := p.at(with(in, func(x *pricing.Inputs) { x.Sigma += dSigma }))
	volDown := p.at(with(in, func(x *pricing.Inputs) { x.Sigma -= dSigma }))

	var g Greeks
	g.Delta = (up - down) / (2 * dS)
	g.Gamma = (up - 2*base + down) / (dS * dS)
	g.Vega = (volUp - volDown) / (2 * dSigma)
	if dT > 0 {
		earlier := p.at(with(in, func(x *pricing.Inputs) { x.Expiry -= dT }))
		g.Theta = (earlier - base) / dT
	}

	if p.err != nil {
		return Greeks{}, p.err
	}
	return g, nil
}

// Point is the Greeks at one spot price.
type Point struct {
	Spot float64 `json:"spot"`
	Greeks
}

// Sweep estimates Greeks at every spot, keeping the other inputs fixed.
// Points are returned in the order of spots. If any spot fails, the
// errors of all failing spots are joined and no points are returned.
func (e *Estimator) Sweep(in pricing.Inputs, spots []float64) ([]Point, error) {
	in = e.prepare(in)

	log.Debug().
		Int("points", len(spots)).
		Int("workers", e.Workers).
		Msg("greek sweep")

	mapper := iter.Mapper[float64, Point]{MaxGoroutines: e.Workers}
	points, err := mapper.MapErr(spots, func(s *float64) (Point, error) {
		at := in
		at.Spot = *s
		g, err := e.estimate(at)
		if err != nil {
			return Point{}, fmt.Errorf("spot %g: %w", *s, err)
		}
		return Point{Spot: *s, Greeks: g}, nil
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

func with(in pricing.Inputs, mutate func(*pricing.Inputs)) pricing.Inputs {
	mutate(&in)
	return in
}

// pricer keeps the first pricing error so Estimate reads as plain arithmetic.
type pricer struct {
	fn  pricing.Func
	err error
}

func (p *pricer) at(in pricing.Inputs) float64 {
	if p.err != nil {
		return 0
	}
	v, err := p.fn(in)
	if err != nil {
		p.err = err
	}
	return v
}
