package probe

import (
	"testing"

	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/palette"
)

func mono(lengths ...int) board.Line {
	clue := make(board.Line, len(lengths))
	for i, l := range lengths {
		clue[i] = board.Clue{Length: l, Color: 2}
	}
	return clue
}

// The classic 2x2 "XOR" board (rows [1],[1]; cols [1],[1]) has two valid
// solutions (either diagonal). Every trial color at every cell is
// consistent with one of them, so no trial ever contradicts and Round
// must make no eliminations at all: probing alone cannot distinguish a
// genuinely ambiguous board; that's search's job (see internal/search).
func TestRoundMakesNoEliminationsOnAmbiguousXORBoard(t *testing.T) {
	pal := palette.Monochrome()
	b, err := board.New(2, 2, pal, []board.Line{mono(1), mono(1)}, []board.Line{mono(1), mono(1)})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	contradiction, eliminated, _ := Round(b, nil)
	if contradiction {
		t.Fatal("the XOR board is satisfiable either way; Round must not report a contradiction")
	}
	if eliminated != 0 {
		t.Errorf("eliminated = %d, want 0: no trial on this board ever contradicts", eliminated)
	}
	if b.IsSolved() {
		t.Fatal("Round must not resolve a genuinely ambiguous board on its own")
	}
}

// A 1x1 board whose row clue demands ink and column clue demands space is
// unsatisfiable at the single cell it has. Both trial colors (space, then
// ink) must propagate to a contradiction, so Round itself must report the
// board unsatisfiable.
func TestRoundDetectsContradictionWhenBothTrialColorsFail(t *testing.T) {
	pal := palette.Monochrome()
	ink := board.Clue{Length: 1, Color: 2}
	b, err := board.New(1, 1, pal, []board.Line{{ink}}, []board.Line{{}})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	contradiction, eliminated, stats := Round(b, nil)
	if !contradiction {
		t.Fatal("expected Round to detect that neither trial color survives")
	}
	if eliminated != 2 {
		t.Errorf("eliminated = %d, want 2 (both space and ink fail)", eliminated)
	}
	if stats.CellsTried != 1 || stats.ColorsTried != 2 {
		t.Errorf("stats = %+v, want CellsTried=1, ColorsTried=2", stats)
	}
}

func TestRunUntilDryOnAlreadySolvedBoardIsNoop(t *testing.T) {
	pal := palette.Monochrome()
	b, err := board.New(1, 1, pal, []board.Line{mono(1)}, []board.Line{mono(1)})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	b.Set(0, 0, palette.Mask(2))

	sol, contradiction, rounds, eliminated := RunUntilDry(b, 10, nil)
	if contradiction {
		t.Fatal("unexpected contradiction on an already-solved board")
	}
	if sol == nil {
		t.Fatal("expected RunUntilDry to recognize an already-solved board")
	}
	if rounds != 0 || eliminated != 0 {
		t.Errorf("rounds=%d eliminated=%d, want 0, 0 (no probing needed)", rounds, eliminated)
	}
}

func TestRunUntilDryDetectsContradiction(t *testing.T) {
	pal := palette.Monochrome()
	ink := board.Clue{Length: 1, Color: 2}
	b, err := board.New(1, 1, pal, []board.Line{{ink}}, []board.Line{{}})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	_, contradiction, rounds, _ := RunUntilDry(b, 10, nil)
	if !contradiction {
		t.Fatal("expected contradiction")
	}
	if rounds != 1 {
		t.Errorf("rounds = %d, want 1 (detected on the first round)", rounds)
	}
}

func TestOrderedCandidatesPrefersFewestColorsThenMostResolvedNeighbors(t *testing.T) {
	pal, err := palette.New("red", "blue", "green")
	if err != nil {
		t.Fatal(err)
	}
	redClue := board.Line{{Length: 1, Color: pal.Colors[0].Color}}
	b, err := board.New(2, 2, pal,
		[]board.Line{redClue, redClue},
		[]board.Line{redClue, redClue})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	red, blue := palette.Mask(pal.Colors[0].Color), palette.Mask(pal.Colors[1].Color)
	b.Set(0, 1, red|blue)     // narrow to 2 candidate colors
	b.Set(1, 1, red)          // resolve, giving (0,1) a resolved orthogonal neighbor

	cells := orderedCandidates(b)
	if len(cells) == 0 {
		t.Fatal("expected at least one undetermined cell")
	}
	if cells[0].r != 0 || cells[0].c != 1 {
		t.Errorf("expected (0,1) (fewest remaining colors) first, got (%d,%d)", cells[0].r, cells[0].c)
	}
	// (0,0) and (1,0) tie on remaining colors; (1,0) borders the resolved
	// (1,1) and (0,0) has no resolved neighbor, so (1,0) comes next.
	if len(cells) < 2 || cells[1].r != 1 || cells[1].c != 0 {
		t.Errorf("expected (1,0) (most resolved neighbors among the tie) second, got %v", cells)
	}
}
