// Package main provides the PipeSim command-line interface.
// PipeSim schedules a short instruction sequence through a five-stage
// pipeline model and reports the total cycles to retire it.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/pipesim/timing/core"
	"github.com/sarchlab/pipesim/timing/latency"
	"github.com/sarchlab/pipesim/timing/pipeline"
)

var (
	configPath = flag.String("config", "", "Path to stage-timing configuration JSON file")
	trace      = flag.Bool("trace", false, "Print stage cycles and stall events to stderr")
	verbose    = flag.Bool("v", false, "Verbose summary output")
)

func main() {
	flag.Parse()

	timingConfig := latency.DefaultConfig()
	if *configPath != "" {
		var err error
		timingConfig, err = latency.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading timing config: %v\n", err)
			atexit.Exit(1)
		}
	}

	input, name, err := openInput()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening program: %v\n", err)
		atexit.Exit(1)
	}

	c, err := core.New(core.WithConfig(timingConfig))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		atexit.Exit(1)
	}

	sched, err := c.Run(input)
	closeInput(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading program: %v\n", err)
		atexit.Exit(1)
	}

	if *trace {
		printTrace(os.Stderr, sched)
	}
	if *verbose {
		printSummary(os.Stderr, name, sched.Stats())
	}

	// The total retirement cycle count is the only stdout output.
	fmt.Println(sched.TotalCycles())
	atexit.Exit(0)
}

// openInput returns the program source: a file argument if given, stdin
// otherwise.
func openInput() (io.Reader, string, error) {
	if flag.NArg() < 1 {
		return os.Stdin, "<stdin>", nil
	}

	path := flag.Arg(0)
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

func closeInput(r io.Reader) {
	if f, ok := r.(*os.File); ok && f != os.Stdin {
		f.Close()
	}
}

// printTrace writes the per-instruction stage table and the stall events.
func printTrace(w io.Writer, sched *pipeline.Schedule) {
	for i, inst := range sched.Instructions {
		fmt.Fprintf(w, "%3d  %-20s %s\n", i, inst, sched.Timings[i])
	}
	for _, ev := range sched.Trace {
		fmt.Fprintf(w, "stall: instruction %d waits on instruction %d (%s), resumes at cycle %d (+%d)\n",
			ev.Index, ev.Producer, ev.Kind, ev.Resolution, ev.Shift)
	}
}

// printSummary writes the run statistics.
func printSummary(w io.Writer, name string, stats pipeline.Statistics) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "Program: %s\n", name)
	fmt.Fprintf(w, "Instructions: %d\n", stats.Instructions)
	fmt.Fprintf(w, "Total Cycles: %d\n", stats.TotalCycles)
	fmt.Fprintf(w, "Stalls: %d (%d cycles)\n", stats.Stalls, stats.StallCycles)
	fmt.Fprintf(w, "CPI: %.2f\n", stats.CPI())
}
