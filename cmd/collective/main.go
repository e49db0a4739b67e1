package main

import (
	"os"

	"github.com/driftline/collective/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
