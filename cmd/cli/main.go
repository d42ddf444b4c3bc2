// Package main is the entry point for the printshop CLI.
package main

import (
	"os"

	"printshop-pricing/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
