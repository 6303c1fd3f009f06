// Package chart renders strategy PnL curves and Greek sweeps with gonum/plot.
package chart

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/rustyeddy/optquant/greeks"
	"github.com/rustyeddy/optquant/strategy"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// DefaultTitle is the title of a strategy PnL plot.
const DefaultTitle = "Strategy PnL vs Underlying Price"

// Figure size used by the CLI.
const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

var (
	blue   = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	green  = color.RGBA{R: 44, G: 160, B: 44, A: 255}
	red    = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	orange = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	gray   = color.RGBA{R: 128, G: 128, B: 128, A: 255}

	dashed = []vg.Length{vg.Points(5), vg.Points(5)}
)

// PnLOptions decorate a strategy PnL plot.
type PnLOptions struct {
	Title string
	// Spot draws a dashed current-price line when positive.
	Spot float64
}

// PnL plots the strategy's aggregate PnL, the zero line and its break-evens.
// Each break-even gets a red marker, a dashed drop line to the lowest PnL and
// a price label.
func PnL(s *strategy.Strategy, opts PnLOptions) (*plot.Plot, error) {
	prices, pnl := s.Prices(), s.PnL()
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "Underlying Price"
	p.Y.Label.Text = "PnL"
	p.Add(plotter.NewGrid())

	curve, err := plotter.NewLine(xys(prices, pnl))
	if err != nil {
		return nil, fmt.Errorf("pnl line: %w", err)
	}
	curve.Color = blue
	curve.Width = vg.Points(1.5)
	p.Add(curve)
	p.Legend.Add("Strategy PnL", curve)

	lo, hi := prices[0], prices[len(prices)-1]
	zero, err := segment(lo, 0, hi, 0, gray)
	if err != nil {
		return nil, err
	}
	p.Add(zero)
	p.Legend.Add("Breakeven", zero)

	minPnL := floats.Min(pnl)
	if be := s.BreakEvens(); len(be) > 0 {
		pts := make(plotter.XYs, len(be))
		labels := make([]string, len(be))
		for i, x := range be {
			pts[i] = plotter.XY{X: x, Y: 0}
			labels[i] = fmt.Sprintf("%.2f", x)

			drop, err := segment(x, 0, x, minPnL, red)
			if err != nil {
				return nil, err
			}
			p.Add(drop)
		}

		markers, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("break-even markers: %w", err)
		}
		markers.GlyphStyle.Color = red
		markers.GlyphStyle.Shape = draw.CircleGlyph{}
		markers.GlyphStyle.Radius = vg.Points(3)
		p.Add(markers)
		p.Legend.Add("Breakeven Price", markers)

		lblPts := make(plotter.XYs, len(be))
		for i, x := range be {
			lblPts[i] = plotter.XY{X: x, Y: minPnL}
		}
		lbls, err := plotter.NewLabels(plotter.XYLabels{XYs: lblPts, Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("break-even labels: %w", err)
		}
		for i := range lbls.TextStyle {
			lbls.TextStyle[i].Color = red
			lbls.TextStyle[i].XAlign = text.XCenter
			lbls.TextStyle[i].YAlign = text.YTop
		}
		p.Add(lbls)
	}

	if opts.Spot > 0 {
		maxPnL := floats.Max(pnl)
		spot, err := segment(opts.Spot, minPnL, opts.Spot, maxPnL, gray)
		if err != nil {
			return nil, err
		}
		p.Add(spot)
		p.Legend.Add("Current Price", spot)
	}

	p.Legend.Top = true
	return p, nil
}

// Greeks plots delta, gamma, theta and vega against spot in a 2x2 grid,
// marking the strike in each panel.
func Greeks(points []greeks.Point, strike float64) ([][]*plot.Plot, error) {
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 sweep points, got %d", len(points))
	}

	panels := []struct {
		name  string
		color color.Color
		value func(greeks.Point) float64
	}{
		{"Delta", blue, func(p greeks.Point) float64 { return p.Delta }},
		{"Gamma", green, func(p greeks.Point) float64 { return p.Gamma }},
		{"Theta", red, func(p greeks.Point) float64 { return p.Theta }},
		{"Vega", orange, func(p greeks.Point) float64 { return p.Vega }},
	}

	spots := make([]float64, len(points))
	for i, pt := range points {
		spots[i] = pt.Spot
	}

	out := [][]*plot.Plot{make([]*plot.Plot, 2), make([]*plot.Plot, 2)}
	for i, panel := range panels {
		ys := make([]float64, len(points))
		for j, pt := range points {
			ys[j] = panel.value(pt)
		}

		p := plot.New()
		p.Title.Text = panel.name + " vs Underlying Price"
		p.X.Label.Text = "Underlying Price"
		p.Y.Label.Text = panel.name
		p.Add(plotter.NewGrid())

		line, err := plotter.NewLine(xys(spots, ys))
		if err != nil {
			return nil, fmt.Errorf("%s line: %w", panel.name, err)
		}
		line.Color = panel.color
		p.Add(line)
		p.Legend.Add(panel.name, line)

		k, err := segment(strike, floats.Min(ys), strike, floats.Max(ys), gray)
		if err != nil {
			return nil, err
		}
		p.Add(k)
		p.Legend.Add("Strike Price", k)

		out[i/2][i%2] = p
	}
	return out, nil
}

// Save writes a single plot; the format follows the file extension.
func Save(p *plot.Plot, path string, w, h vg.Length) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	return p.Save(w, h, path)
}

// SaveGrid lays out plots as tiles on one canvas and writes it to path.
func SaveGrid(plots [][]*plot.Plot, path string, w, h vg.Length) error {
	if len(plots) == 0 || len(plots[0]) == 0 {
		return fmt.Errorf("no plots to save")
	}
	if err := ensureDir(path); err != nil {
		return err
	}

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	c, err := draw.NewFormattedCanvas(w, h, format)
	if err != nil {
		return fmt.Errorf("canvas: %w", err)
	}

	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}
	canvases := plot.Align(plots, tiles, draw.New(c))
	for i := range plots {
		for j := range plots[i] {
			if plots[i][j] != nil {
				plots[i][j].Draw(canvases[i][j])
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := c.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0755)
}

func xys(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i] = plotter.XY{X: xs[i], Y: ys[i]}
	}
	return pts
}

func segment(x0, y0, x1, y1 float64, c color.Color) (*plotter.Line, error) {
	l, err := plotter.NewLine(plotter.XYs{{X: x0, Y: y0}, {X: x1, Y: y1}})
	if err != nil {
		return nil, fmt.Errorf("line: %w", err)
	}
	l.Color = c
	l.Dashes = dashed
	return l, nil
}
