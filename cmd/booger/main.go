// Package main provides the entry point for the booger CLI.
package main

import (
	"os"

	"github.com/booger-dev/booger/cmd/booger/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
