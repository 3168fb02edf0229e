package main

// Main entry point of the application
// Executes the Cobra root command and turns errors into exit status 1

import (
	"fmt"
	"os"

	"csvviz/cmd/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if !commands.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
