package search

import (
	"context"
	"testing"

	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/palette"
)

func TestRunParallelFindsBothXORSolutions(t *testing.T) {
	pal := palette.Monochrome()
	b, err := board.New(2, 2, pal, []board.Line{mono(1), mono(1)}, []board.Line{mono(1), mono(1)})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	res := RunParallel(context.Background(), b, Limits{MaxSolutions: 10}, nil)
	if len(res.Solutions) != 2 {
		t.Fatalf("got %d solutions, want 2", len(res.Solutions))
	}
	for _, sol := range res.Solutions {
		if !sol.IsSolved() {
			t.Error("returned board is not fully solved")
		}
	}
}

func TestRunParallelRespectsMaxSolutions(t *testing.T) {
	pal := palette.Monochrome()
	b, err := board.New(2, 2, pal, []board.Line{mono(1), mono(1)}, []board.Line{mono(1), mono(1)})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	res := RunParallel(context.Background(), b, Limits{MaxSolutions: 1}, nil)
	if len(res.Solutions) != 1 {
		t.Fatalf("got %d solutions, want 1", len(res.Solutions))
	}
}

func TestRunParallelOnAlreadyPropagationSolvedBoard(t *testing.T) {
	pal := palette.Monochrome()
	rows := []board.Line{mono(5)}
	cols := []board.Line{mono(1), mono(1), mono(1), mono(1), mono(1)}
	b, err := board.New(1, 5, pal, rows, cols)
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	res := RunParallel(context.Background(), b, Limits{MaxSolutions: 2}, nil)
	if len(res.Solutions) != 1 {
		t.Fatalf("got %d solutions, want 1", len(res.Solutions))
	}
}
