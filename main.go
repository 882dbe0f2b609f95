// Package main provides the entry point for PipeSim.
// PipeSim is a five-stage pipeline hazard and stall simulator.
//
// For the full CLI, use: go run ./cmd/pipesim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("PipeSim - Pipeline Hazard Simulator")
	fmt.Println("")
	fmt.Println("Usage: pipesim [options] <program.txt>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config    Path to stage-timing configuration JSON file")
	fmt.Println("  -trace     Print stage cycles and stall events to stderr")
	fmt.Println("  -v         Verbose summary output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/pipesim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/pipesim' instead.")
	}
}
