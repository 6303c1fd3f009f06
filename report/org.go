package report

import (
	"bytes"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/optquant/greeks"
	"github.com/rustyeddy/optquant/internal/id"
	"github.com/rustyeddy/optquant/option"
	"github.com/rustyeddy/optquant/strategy"
)

// Leg is one option of the analysed strategy with its model price and Greeks.
type Leg struct {
	Option option.Option
	Price  float64
	Greeks greeks.Greeks
}

// Analysis is everything a strategy run produced.
type Analysis struct {
	RunID   string
	Created time.Time
	Model   string
	Spot    float64
	Rate    float64
	Steps   int

	Legs       []Leg
	BreakEvens []float64
	MaxProfit  float64
	MaxLoss    float64
	NetPremium float64
	TotalFees  float64

	PlotPath   string
	GreeksPath string
	CSVPath    string
}

// NewAnalysis fills the strategy summary. Legs are appended by the caller
// once they are priced.
func NewAnalysis(runID, model string, spot, rate float64, steps int, s *strategy.Strategy) *Analysis {
	return &Analysis{
		RunID:      runID,
		Created:    time.Now(),
		Model:      model,
		Spot:       spot,
		Rate:       rate,
		Steps:      steps,
		BreakEvens: s.BreakEvens(),
		MaxProfit:  s.MaxProfit(),
		MaxLoss:    s.MaxLoss(),
		NetPremium: s.NetPremium(),
		TotalFees:  s.TotalFees(),
	}
}

// AddLeg records a priced leg.
func (a *Analysis) AddLeg(o option.Option, price float64, g greeks.Greeks) {
	a.Legs = append(a.Legs, Leg{Option: o, Price: price, Greeks: g})
}

// Money rounds v to cents.
func Money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

var orgFuncs = template.FuncMap{
	"money": Money,
	"num":   func(v float64) string { return decimal.NewFromFloat(v).Round(4).String() },
	"short": id.Short,
	"side": func(o option.Option) string {
		if o.IsLong() {
			return "long"
		}
		return "short"
	},
	"prices": func(xs []float64) string {
		out := make([]string, len(xs))
		for i, x := range xs {
			out[i] = Money(x)
		}
		return strings.Join(out, ", ")
	},
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

var orgTemplate = template.Must(template.New("analysis").Funcs(orgFuncs).Parse(AnalysisOrgTemplate))

// WriteOrg renders the analysis as an Org-mode entry.
func (a *Analysis) WriteOrg(w io.Writer) error {
	return orgTemplate.Execute(w, a)
}

// Org returns the rendered entry.
func (a *Analysis) Org() (string, error) {
	var buf bytes.Buffer
	if err := a.WriteOrg(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SaveOrg writes the entry to path, creating parent directories.
func (a *Analysis) SaveOrg(path string) error {
	return toFile(path, a.WriteOrg)
}

const AnalysisOrgTemplate = `* ANALYSIS: {{len .Legs}}-leg strategy ({{if .RunID}}{{short .RunID}}{{else}}(run-id?){{end}})
:PROPERTIES:
:RUN_ID:      {{if .RunID}}{{.RunID}}{{else}}(run-id?){{end}}
:MODEL:       {{.Model}}
:SPOT:        {{money .Spot}}
:RATE:        {{num .Rate}}
:STEPS:       {{.Steps}}
:NET_PREMIUM: {{money .NetPremium}}
:FEES:        {{money .TotalFees}}
:MAX_PROFIT:  {{money .MaxProfit}}
:MAX_LOSS:    {{money .MaxLoss}}
:CREATED:     [{{(orTime .Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Legs
| # | Side | Type | Style | Strike | Underlying | Premium | Fee | Days | Sigma | Price |
|---+------+------+-------+--------+------------+---------+-----+------+-------+-------|
{{- range $i, $l := .Legs }}
| {{$i}} | {{side $l.Option}} | {{$l.Option.Type}} | {{$l.Option.Style}} | {{money $l.Option.Strike}} | {{money $l.Option.Underlying}} | {{money $l.Option.Premium}} | {{money $l.Option.Fee}} | {{num $l.Option.Expiry}} | {{num $l.Option.Sigma}} | {{money $l.Price}} |
{{- end }}

** Greeks
| # | Delta | Gamma | Theta | Vega |
|---+-------+-------+-------+------|
{{- range $i, $l := .Legs }}
| {{$i}} | {{num $l.Greeks.Delta}} | {{num $l.Greeks.Gamma}} | {{num $l.Greeks.Theta}} | {{num $l.Greeks.Vega}} |
{{- end }}

** PnL
- Break-evens: {{if .BreakEvens}}*{{prices .BreakEvens}}*{{else}}none in range{{end}}
- Max profit:  *{{money .MaxProfit}}*
- Max loss:    *{{money .MaxLoss}}*
{{- if .PlotPath }}

[[file:{{.PlotPath}}]]
{{- end }}
{{- if .GreeksPath }}

[[file:{{.GreeksPath}}]]
{{- end }}
{{- if .CSVPath }}

- Curve: [[file:{{.CSVPath}}]]
{{- end }}
`
