package render

import (
	"bytes"
	"strings"
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

func TestTextRendersSolvedPlusBoard(t *testing.T) {
	pal := palette.Monochrome()
	rows := []board.Line{mono(1), mono(1), mono(5), mono(1), mono(1)}
	cols := []board.Line{mono(1), mono(1), mono(5), mono(1), mono(1)}
	b, err := board.New(5, 5, pal, rows, cols)
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	for r := range 5 {
		for c := range 5 {
			if r == 2 || c == 2 {
				b.Set(r, c, palette.Mask(2))
			} else {
				b.Set(r, c, palette.Mask(palette.Space))
			}
		}
	}

	var buf bytes.Buffer
	Text(&buf, Adapt(b), Options{NoColor: true})

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// 1 column-header line + 5 board rows.
	if len(lines) != 6 {
		t.Fatalf("got %d output lines, want 6:\n%s", len(lines), out)
	}
	// The middle row is solid ink; its rendered row must contain the ink
	// glyph "I".
	middle := lines[1+2]
	if !strings.Contains(middle, "I") {
		t.Errorf("expected the fully-inked middle row to contain an ink glyph, got %q", middle)
	}
}

func TestTextRendersUndeterminedCellsAsCounts(t *testing.T) {
	pal := palette.Monochrome()
	b, err := board.New(1, 1, pal, []board.Line{mono(1)}, []board.Line{mono(1)})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	var buf bytes.Buffer
	Text(&buf, Adapt(b), Options{NoColor: true})
	if !strings.Contains(buf.String(), "2") {
		t.Errorf("expected the undetermined cell to render its candidate count (2), got %q", buf.String())
	}
}

func TestTextRendersContradictionAsX(t *testing.T) {
	pal := palette.Monochrome()
	b, err := board.New(1, 1, pal, []board.Line{mono(1)}, []board.Line{mono(1)})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	b.Set(0, 0, 0)

	var buf bytes.Buffer
	Text(&buf, Adapt(b), Options{NoColor: true})
	if !strings.Contains(buf.String(), "X") {
		t.Errorf("expected a contradictory cell to render as X, got %q", buf.String())
	}
}

func TestDetectOptionsDisablesColorForNonFdWriter(t *testing.T) {
	opts := DetectOptions(&bytes.Buffer{})
	if !opts.NoColor {
		t.Error("expected NoColor for a plain io.Writer with no Fd()")
	}
}
