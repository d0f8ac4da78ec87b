// Command tui is an interactive viewer: it loads a puzzle (from stdin or a
// named file), solves it, and shows the resulting board(s) on a tcell
// screen, letting the user step through multiple solutions with the
// arrow keys when a puzzle is ambiguous.
package main

import (
	"fmt"
	"os"

	"github.com/kprice/nonogram/internal/nono"
	"github.com/kprice/nonogram/internal/render"
	"github.com/kprice/nonogram/internal/textformat"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "tui:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	in, err := openInput(args)
	if err != nil {
		return err
	}
	defer in.Close()

	b, err := textformat.Load(in)
	if err != nil {
		return fmt.Errorf("loading puzzle: %w", err)
	}

	result := nono.Solve(b, nono.Options{})
	if len(result.Boards) == 0 {
		return fmt.Errorf("no solution to display: %s", result.Status)
	}

	views := make([]render.BoardView, len(result.Boards))
	for i, sol := range result.Boards {
		views[i] = render.Adapt(sol)
	}

	t, err := render.NewTUI()
	if err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer t.Close()

	_, err = t.Show(views)
	return err
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
