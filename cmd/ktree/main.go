// Package main provides the entry point for the ktree CLI.
package main

import (
	"os"

	"github.com/hupe1980/ktreego/cmd/ktree/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
