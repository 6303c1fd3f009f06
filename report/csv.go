// Package report writes analysis results as CSV curves and Org-mode summaries.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rustyeddy/optquant/greeks"
	"github.com/rustyeddy/optquant/strategy"
)

var (
	PnLHeader    = []string{"price", "pnl"}
	GreeksHeader = []string{"spot", "delta", "gamma", "theta", "vega"}
)

// WritePnL writes the aggregate PnL curve of s, one row per grid price.
func WritePnL(w io.Writer, s *strategy.Strategy) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PnLHeader); err != nil {
		return err
	}

	prices, pnl := s.Prices(), s.PnL()
	for i := range prices {
		if err := cw.Write([]string{f(prices[i]), f(pnl[i])}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteGreeks writes a Greek sweep, one row per spot.
func WriteGreeks(w io.Writer, points []greeks.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(GreeksHeader); err != nil {
		return err
	}

	for _, p := range points {
		row := []string{f(p.Spot), f(p.Delta), f(p.Gamma), f(p.Theta), f(p.Vega)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// SavePnL writes the PnL curve to path, creating parent directories.
func SavePnL(path string, s *strategy.Strategy) error {
	return toFile(path, func(w io.Writer) error { return WritePnL(w, s) })
}

// SaveGreeks writes the sweep to path, creating parent directories.
func SaveGreeks(path string, points []greeks.Point) error {
	return toFile(path, func(w io.Writer) error { return WriteGreeks(w, points) })
}

func toFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(fh); err != nil {
		fh.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return fh.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
