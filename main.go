package main

import (
	"os"

	"github.com/brendan-ward/geosafe/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
