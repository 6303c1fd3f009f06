package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rustyeddy/optquant/option"
	"github.com/rustyeddy/optquant/pricing"
)

// optionFlags are the single-option inputs shared by price and greeks.
type optionFlags struct {
	typ      string
	spot     float64
	strike   float64
	premium  float64
	days     float64
	sigma    float64
	rate     float64
	dividend float64
	steps    int
	model    string
	european bool
}

func (f *optionFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.typ, "type", "t", "call", "option type: call or put")
	fs.Float64VarP(&f.spot, "spot", "s", 0, "underlying price (required)")
	fs.Float64VarP(&f.strike, "strike", "k", 0, "strike price (required)")
	fs.Float64Var(&f.premium, "premium", 0, "premium paid (negative when sold)")
	fs.Float64VarP(&f.days, "days", "d", 30, "time to expiry in trading days")
	fs.Float64Var(&f.sigma, "sigma", 0.2, "annualised volatility")
	fs.Float64VarP(&f.rate, "rate", "r", 0.04, "risk-free rate")
	fs.Float64VarP(&f.dividend, "dividend", "q", 0, "continuous dividend yield")
	fs.IntVar(&f.steps, "steps", pricing.DefaultSteps, "binomial tree steps")
	fs.StringVarP(&f.model, "model", "m", string(pricing.ModelBinomial), "pricing model: binomial or bsm")
	fs.BoolVar(&f.european, "european", false, "European exercise (default American)")

	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("strike")
}

func (f *optionFlags) option() (option.Option, error) {
	return option.New(f.typ, f.spot, f.strike, f.premium, f.days, f.sigma, 0, !f.european)
}

// inputs are the validated pricing inputs, already prepared for the model.
func (f *optionFlags) inputs() (pricing.Inputs, pricing.Model, error) {
	m, err := pricing.ParseModel(f.model)
	if err != nil {
		return pricing.Inputs{}, "", err
	}
	o, err := f.option()
	if err != nil {
		return pricing.Inputs{}, "", err
	}
	in := pricing.FromOption(o, f.rate, f.steps)
	in.Dividend = f.dividend
	if err := in.Validate(); err != nil {
		return pricing.Inputs{}, "", err
	}
	return m.Prepare(in), m, nil
}
