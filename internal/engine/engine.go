// Package engine values vanilla options under a Black-Scholes process: a
// Cox-Ross-Rubinstein binomial tree for either exercise style and the
// closed-form Black-Scholes-Merton price for European exercise.
//
// Times are year fractions, rates and volatilities are annualised and
// continuously compounded.
package engine

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Right is the option right.
type Right int

const (
	Call Right = iota
	Put
)

// Exercise is the exercise style.
type Exercise int

const (
	European Exercise = iota
	American
)

// Process is a flat Black-Scholes process.
type Process struct {
	Spot     float64
	Rate     float64
	Dividend float64
	Vol      float64
}

// Vanilla is a plain vanilla contract. Expiry is in years.
type Vanilla struct {
	Right    Right
	Strike   float64
	Expiry   float64
	Exercise Exercise
}

// Intrinsic is the immediate-exercise value at spot s.
func (v Vanilla) Intrinsic(s float64) float64 {
	if v.Right == Call {
		return math.Max(0, s-v.Strike)
	}
	return math.Max(0, v.Strike-s)
}

// CRR prices v on a Cox-Ross-Rubinstein tree with the given number of steps.
// American contracts are checked for early exercise at every node.
func CRR(p Process, v Vanilla, steps int) float64 {
	if v.Expiry <= 0 || p.Vol <= 0 || steps < 1 {
		return v.Intrinsic(p.Spot)
	}

	dt := v.Expiry / float64(steps)
	u := math.Exp(p.Vol * math.Sqrt(dt))
	d := 1 / u
	growth := math.Exp((p.Rate - p.Dividend) * dt)
	pu := (growth - d) / (u - d)
	pd := 1 - pu
	disc := math.Exp(-p.Rate * dt)

	// values[i] is the node with i down moves
	values := make([]float64, steps+1)
	s := p.Spot * math.Pow(u, float64(steps))
	d2 := d * d
	for i := 0; i <= steps; i++ {
		values[i] = v.Intrinsic(s)
		s *= d2
	}

	for n := steps - 1; n >= 0; n-- {
		s = p.Spot * math.Pow(u, float64(n))
		for i := 0; i <= n; i++ {
			cont := disc * (pu*values[i] + pd*values[i+1])
			if v.Exercise == American {
				cont = math.Max(cont, v.Intrinsic(s))
			}
			values[i] = cont
			s *= d2
		}
	}
	return values[0]
}

// AnalyticEuropean is the Black-Scholes-Merton price of v, ignoring its exercise style.
func AnalyticEuropean(p Process, v Vanilla) float64 {
	if v.Expiry <= 0 || p.Vol <= 0 {
		return v.Intrinsic(p.Spot)
	}

	sqrtT := math.Sqrt(v.Expiry)
	d1 := (math.Log(p.Spot/v.Strike) + (p.Rate-p.Dividend+0.5*p.Vol*p.Vol)*v.Expiry) / (p.Vol * sqrtT)
	d2 := d1 - p.Vol*sqrtT

	fwdDisc := math.Exp(-p.Dividend * v.Expiry)
	disc := math.Exp(-p.Rate * v.Expiry)

	n := distuv.UnitNormal
	if v.Right == Call {
		return p.Spot*fwdDisc*n.CDF(d1) - v.Strike*disc*n.CDF(d2)
	}
	return v.Strike*disc*n.CDF(-d2) - p.Spot*fwdDisc*n.CDF(-d1)
}
