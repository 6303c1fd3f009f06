// Package pricing adapts options to the valuation engine. It validates and
// marshals parameters into engine calls; it holds no pricing maths of its own.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/rustyeddy/optquant/internal/engine"
	"github.com/rustyeddy/optquant/option"
)

// TradingDays converts an option's expiry in trading days to years.
const TradingDays = 252

// DefaultSteps is the binomial tree depth used when none is given.
const DefaultSteps = 1000

// ErrInvalidInput is returned for inputs the engine cannot value.
var ErrInvalidInput = errors.New("invalid pricing input")

// Inputs are the market and contract parameters of one valuation.
// Expiry is in years.
type Inputs struct {
	Type     option.Type
	Spot     float64
	Strike   float64
	Rate     float64
	Dividend float64 // continuous yield
	Expiry   float64
	Sigma    float64
	Steps    int
	Style    option.Style
}

// FromOption builds Inputs from an option, converting its trading-day expiry to years.
func FromOption(o option.Option, rate float64, steps int) Inputs {
	return Inputs{
		Type:   o.Type,
		Spot:   o.Underlying,
		Strike: o.Strike,
		Rate:   rate,
		Expiry: o.Expiry / TradingDays,
		Sigma:  o.Sigma,
		Steps:  steps,
		Style:  o.Style,
	}
}

// Validate reports the first input the engine would reject.
func (in Inputs) Validate() error {
	switch {
	case !in.Type.Valid():
		return fmt.Errorf("%w: %w", ErrInvalidInput, option.ErrInvalidType)
	case in.Spot <= 0:
		return fmt.Errorf("%w: spot must be positive, got %g", ErrInvalidInput, in.Spot)
	case in.Strike <= 0:
		return fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidInput, in.Strike)
	case in.Sigma <= 0:
		return fmt.Errorf("%w: sigma must be positive, got %g", ErrInvalidInput, in.Sigma)
	case in.Expiry < 0:
		return fmt.Errorf("%w: expiry must be non-negative, got %g", ErrInvalidInput, in.Expiry)
	case in.Steps < 0:
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidInput, in.Steps)
	}
	return nil
}

func (in Inputs) process() engine.Process {
	return engine.Process{Spot: in.Spot, Rate: in.Rate, Dividend: in.Dividend, Vol: in.Sigma}
}

func (in Inputs) vanilla(exercise engine.Exercise) engine.Vanilla {
	right := engine.Call
	if in.Type == option.Put {
		right = engine.Put
	}
	return engine.Vanilla{Right: right, Strike: in.Strike, Expiry: in.Expiry, Exercise: exercise}
}

func (in Inputs) exercise() engine.Exercise {
	if in.Style == option.American {
		return engine.American
	}
	return engine.European
}

// Func prices one set of inputs.
type Func func(Inputs) (float64, error)

// Binomial prices on a CRR tree honouring the exercise style.
// Zero steps means DefaultSteps.
func Binomial(in Inputs) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	steps := in.Steps
	if steps == 0 {
		steps = DefaultSteps
	}
	return engine.CRR(in.process(), in.vanilla(in.exercise()), steps), nil
}

// BlackScholesMerton prices with the closed form. It has no early exercise,
// so American options are priced as European; Model.Prepare logs that once
// per analysis instead of once per valuation.
func BlackScholesMerton(in Inputs) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	return engine.AnalyticEuropean(in.process(), in.vanilla(engine.European)), nil
}

// Model names a pricing function.
type Model string

const (
	ModelBinomial Model = "binomial"
	ModelBSM      Model = "bsm"
)

// ParseModel accepts "binomial"/"crr" and "bsm"/"black-scholes".
func ParseModel(s string) (Model, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "binomial", "crr", "":
		return ModelBinomial, nil
	case "bsm", "black-scholes", "blackscholes":
		return ModelBSM, nil
	default:
		return "", fmt.Errorf("unknown pricing model %q (supported: binomial, bsm)", s)
	}
}

// Func returns the pricing function for m.
func (m Model) Func() Func {
	if m == ModelBSM {
		return BlackScholesMerton
	}
	return Binomial
}

// Prepare adapts in to what m can value. Under BSM an American option is
// switched to European with a warning, so the inputs can be repriced many
// times without repeating it.
func (m Model) Prepare(in Inputs) Inputs {
	if m == ModelBSM && in.Style == option.American {
		log.Warn().
			Str("type", in.Type.String()).
			Float64("strike", in.Strike).
			Msg("Black-Scholes-Merton does not support American options, pricing as European")
		in.Style = option.European
	}
	return in
}

// Price prepares and values in with m.
func (m Model) Price(in Inputs) (float64, error) {
	return m.Func()(m.Prepare(in))
}

// Option prices o with model m.
func (m Model) Option(o option.Option, rate float64, steps int) (float64, error) {
	return m.Price(FromOption(o, rate, steps))
}
