package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/rustyeddy/optquant/report"
)

var (
	highlight = color.New(color.FgCyan, color.Bold)
	profit    = color.New(color.FgGreen)
	loss      = color.New(color.FgRed)
	marker    = color.New(color.FgYellow, color.Bold)
)

// signed prints v in green when positive and red when negative.
func signed(w io.Writer, label string, v float64) {
	fmt.Fprintf(w, "  %-13s", label)
	c := profit
	if v < 0 {
		c = loss
	}
	c.Fprintf(w, "%s\n", report.Money(v))
}

func breakEvens(w io.Writer, prices []float64) {
	fmt.Fprintf(w, "  %-13s", "Break-evens:")
	if len(prices) == 0 {
		fmt.Fprintln(w, "none in range")
		return
	}
	out := make([]string, len(prices))
	for i, p := range prices {
		out[i] = report.Money(p)
	}
	marker.Fprintln(w, strings.Join(out, ", "))
}
