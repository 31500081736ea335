// Package main provides the symjit CLI.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/symjit/symjit/diff"
	"github.com/symjit/symjit/engine"
	"github.com/symjit/symjit/number"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("symjit %s\n", version)
	case "diff":
		runDiff(os.Args[2:])
	case "plot":
		runPlot(os.Args[2:])
	case "stability":
		runStability(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("symjit - symbolic differentiation with JIT evaluation")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version                      Show version")
	fmt.Println("  diff <expr> [flags]          Differentiate and evaluate")
	fmt.Println("  plot <expr> [flags]          Stream derivative samples as CSV")
	fmt.Println("  stability <expr> [flags]     Probe fixed points for non-finite results")
	fmt.Println("")
	fmt.Println("Environment: SYMJIT_MODE (forward|reverse), SYMJIT_CACHE_SIZE")
}

func setup(name string, args []string) (*engine.Engine, string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	variable := fs.String("var", "x", "differentiation variable")
	mode := fs.String("mode", "", "forward or reverse (overrides SYMJIT_MODE)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "missing expression")
		os.Exit(2)
	}

	eng := engine.NewFromEnv()
	if *mode != "" {
		eng.SetMode(diff.ParseMode(*mode))
	}

	handle, err := eng.Differentiate(fs.Arg(0), *variable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return eng, handle
}

func runDiff(args []string) {
	fs := flag.NewFlagSet("diff", flag.ExitOnError)
	variable := fs.String("var", "x", "differentiation variable")
	mode := fs.String("mode", "", "forward or reverse (overrides SYMJIT_MODE)")
	at := fs.Float64("at", 1.0, "evaluation point")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "missing expression")
		os.Exit(2)
	}

	eng := engine.NewFromEnv()
	defer eng.Close()
	if *mode != "" {
		eng.SetMode(diff.ParseMode(*mode))
	}

	handle, err := eng.Differentiate(fs.Arg(0), *variable)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if src, ok := eng.Source(handle); ok {
		fmt.Print(src)
	}

	out, err := eng.EvaluateDerivative(handle, number.FromFloat64(*at))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("d/d%s at %v = %v (error estimate %.3g)\n", *variable, *at, out.Float64(), out.ErrorEstimate())
	if !out.IsFinite() {
		fmt.Println("note: result is not finite")
	}
}

func runPlot(args []string) {
	eng, handle := setup("plot", args)
	defer eng.Close()
	if err := engine.PlotCSV(eng, handle, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runStability(args []string) {
	eng, handle := setup("stability", args)
	defer eng.Close()
	result, err := engine.StabilityProbe(eng, handle)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(result)
}
