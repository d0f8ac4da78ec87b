// Command nonogram reads a puzzle in the internal/textformat line-based
// text format from stdin (or a file named on the command line), solves it,
// and prints the result.
//
// An isStdinTTY prompt is printed only for an interactive terminal, then a
// color.HiWhite banner precedes the board print. The board's shape comes
// from the input file itself, so a malformed one is reported as an error
// rather than assumed to fit some fixed grid size.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/kprice/nonogram/internal/nono"
	"github.com/kprice/nonogram/internal/render"
	"github.com/kprice/nonogram/internal/textformat"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "nonogram:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	if in == os.Stdin && isStdinTTY() {
		fmt.Println("Enter a puzzle in the textformat line format.")
		fmt.Println("(Ctrl+D to finish on Unix/Linux, Ctrl+Z then Enter on Windows):")
	}

	b, err := textformat.Load(in)
	if err != nil {
		return fmt.Errorf("loading puzzle: %w", err)
	}

	obs := nono.LoggingObserver{Logf: func(format string, args ...any) {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}}
	result := nono.Solve(b, nono.Options{Observer: obs})

	switch result.Status {
	case nono.StatusSolvedUnique:
		color.HiWhite("\nSolution:")
	case nono.StatusSolvedMultiple:
		color.HiWhite("\n%d solutions found; showing the first:", len(result.Boards))
	default:
		color.HiWhite("\n%s", result.Status)
	}

	if len(result.Boards) > 0 {
		opts := render.DetectOptions(os.Stdout)
		render.Text(os.Stdout, render.Adapt(result.Boards[0]), opts)
	}
	return nil
}

func openInput(args []string) (*os.File, error) {
	if len(args) == 0 {
		return os.Stdin, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", args[0], err)
	}
	return f, nil
}

func isStdinTTY() bool {
	return isTerminal(os.Stdin)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
