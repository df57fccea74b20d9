// Package main provides the CLI for the calmetrics validator and dashboard builder.
package main

import (
	"os"

	"github.com/leapstack-labs/calmetrics/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
