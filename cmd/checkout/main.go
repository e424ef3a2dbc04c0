// Command checkout prints finishing lines for a darts score.
//
//	checkout -out double -n 3 121
//	checkout -table -out master
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ejdedart/dartscore/internal/checkout"
	"github.com/ejdedart/dartscore/internal/darts"
)

var errUsage = errors.New("usage: checkout [-out rule] [-n lines] score | checkout -table [-out rule]")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	outFlag := fs.String("out", "double", "out rule: straight, double or master")
	nFlag := fs.Int("n", 1, "number of lines to print")
	tableFlag := fs.Bool("table", false, "print the best line for every finishable score")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	out, err := darts.ParseOutRule(*outFlag)
	if err != nil {
		return err
	}

	if *tableFlag {
		for score := out.MaxCheckout(); score >= 2; score-- {
			if line := checkout.Suggest(score, out); line != nil {
				fmt.Fprintf(stdout, "%3d  %s\n", score, strings.Join(darts.Tokens(line), " "))
			}
		}
		return nil
	}

	if fs.NArg() != 1 || *nFlag < 1 {
		return errUsage
	}
	score, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("score %q is not a number", fs.Arg(0))
	}

	lines := checkout.Alternatives(score, out, *nFlag)
	if len(lines) == 0 {
		fmt.Fprintf(stdout, "%d: no checkout\n", score)
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(stdout, strings.Join(darts.Tokens(line), " "))
	}
	return nil
}
