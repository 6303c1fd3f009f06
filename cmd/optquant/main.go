package main

import (
	"os"

	"github.com/rustyeddy/optquant/cmd/optquant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
