package main

import (
	"os"

	"github.com/aristath/portattr/cmd/portattr/commands"
)

// main is the entry point for the portattr CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
