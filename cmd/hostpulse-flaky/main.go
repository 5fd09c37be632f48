// Command hostpulse-flaky simulates an unreliable job: it draws one uniform
// value, exits 0 when the draw is below the threshold and 1 otherwise.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/VerteraIO/hostpulse/internal/agent/executor"
	"github.com/VerteraIO/hostpulse/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

// run returns the process exit status, which is always 0 or 1.
func run(args []string, stderr io.Writer) int {
	fs := flag.NewFlagSet("hostpulse-flaky", flag.ContinueOnError)
	fs.SetOutput(stderr)
	threshold := fs.Float64("threshold", executor.DefaultThreshold, "success probability in [0, 1]")
	seed := fs.Uint64("seed", 0, "seed for a reproducible draw; 0 uses the process default source")
	format := fs.String("log-format", "text", "log format: text or json")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if math.IsNaN(*threshold) || *threshold < 0 || *threshold > 1 {
		fmt.Fprintf(stderr, "invalid -threshold %v: must be in [0, 1]\n", *threshold)
		return 1
	}

	logger, err := logging.New(stderr, "info", *format)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -log-format: %v\n", err)
		return 1
	}

	var src executor.Source = executor.GlobalSource{}
	if *seed != 0 {
		src = executor.NewSeededSource(*seed)
	}
	return executor.ExitCode(executor.NewFlakyTask(logger, src, *threshold).Run())
}
