// Package board stores the 2-D cell grid, the frozen row/column clue
// tables, and the color palette for a single nonogram puzzle, and exposes
// the single mutation point (Set) through which every refinement flows.
package board

import (
	"fmt"

	"github.com/kprice/nonogram/internal/palette"
)

// Board is an H x W grid of cell masks plus the frozen clue tables that
// define it. Clones are independent; only Set, SetRow, and SetCol mutate
// cells, and only ever monotonically (a refined mask is always a subset of
// the mask it replaces).
type Board struct {
	H, W     int
	Palette  *palette.Palette
	RowClues []Line
	ColClues []Line

	cells [][]palette.Mask
}

// New constructs a board with the given dimensions, palette, and per-line
// clue sequences, with every cell initialized to Palette.Unknown(). It
// validates that every clue has a positive length, every clue color is a
// member of the palette, and that no line's clues (plus mandatory
// same-color separators) exceed that line's length.
func New(h, w int, pal *palette.Palette, rowClues, colClues []Line) (*Board, error) {
	if h <= 0 || w <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, h, w)
	}
	if len(rowClues) != h {
		return nil, fmt.Errorf("nonogram: expected %d row clue lines, got %d", h, len(rowClues))
	}
	if len(colClues) != w {
		return nil, fmt.Errorf("nonogram: expected %d column clue lines, got %d", w, len(colClues))
	}
	if err := validateClues(rowClues, w, pal); err != nil {
		return nil, fmt.Errorf("nonogram: row clues: %w", err)
	}
	if err := validateClues(colClues, h, pal); err != nil {
		return nil, fmt.Errorf("nonogram: column clues: %w", err)
	}

	b := &Board{
		H:        h,
		W:        w,
		Palette:  pal,
		RowClues: append([]Line(nil), rowClues...),
		ColClues: append([]Line(nil), colClues...),
		cells:    make([][]palette.Mask, h),
	}
	unknown := pal.Unknown()
	for r := range h {
		row := make([]palette.Mask, w)
		for c := range row {
			row[c] = unknown
		}
		b.cells[r] = row
	}
	return b, nil
}

func validateClues(lines []Line, lineLen int, pal *palette.Palette) error {
	for i, line := range lines {
		for _, clue := range line {
			if clue.Length <= 0 {
				return fmt.Errorf("%w: line %d", ErrInvalidClueLength, i)
			}
			if clue.Color == palette.Space || !pal.Contains(clue.Color) {
				return fmt.Errorf("%w: line %d: color %d", ErrUnknownColor, i, clue.Color)
			}
		}
		if line.minLength() > lineLen {
			return fmt.Errorf("%w: line %d needs at least %d cells, line is %d",
				ErrClueExceedsLine, i, line.minLength(), lineLen)
		}
	}
	return nil
}

// Get returns the current mask at (r,c).
func (b *Board) Get(r, c int) palette.Mask {
	return b.cells[r][c]
}

// Set refines the mask at (r,c) to the intersection of its current mask and
// m, reporting whether the cell's mask actually changed, and whether the
// resulting mask is a contradiction (empty). A no-op write returns
// (false, false).
func (b *Board) Set(r, c int, m palette.Mask) (changed, contradiction bool) {
	cur := b.cells[r][c]
	refined := palette.Intersect(cur, m)
	if refined == cur {
		return false, false
	}
	b.cells[r][c] = refined
	return true, palette.IsContradiction(refined)
}

// Row returns a fresh copy of row r's cell masks, safe for a line solver to
// read and refine without aliasing the board.
func (b *Board) Row(r int) []palette.Mask {
	row := make([]palette.Mask, b.W)
	copy(row, b.cells[r])
	return row
}

// Col returns a fresh copy of column c's cell masks.
func (b *Board) Col(c int) []palette.Mask {
	col := make([]palette.Mask, b.H)
	for r := range b.H {
		col[r] = b.cells[r][c]
	}
	return col
}

// SetRow applies a fully refined row (as returned by the line solver) to
// the board, cell by cell. It returns the column indices whose cell
// actually changed (candidates to mark dirty in the perpendicular
// direction) and whether any cell became a contradiction.
func (b *Board) SetRow(r int, row []palette.Mask) (changedCols []int, contradiction bool) {
	for c, m := range row {
		changed, bad := b.Set(r, c, m)
		if changed {
			changedCols = append(changedCols, c)
		}
		contradiction = contradiction || bad
	}
	return changedCols, contradiction
}

// SetCol applies a fully refined column to the board and returns the row
// indices whose cell actually changed.
func (b *Board) SetCol(c int, col []palette.Mask) (changedRows []int, contradiction bool) {
	for r, m := range col {
		changed, bad := b.Set(r, c, m)
		if changed {
			changedRows = append(changedRows, r)
		}
		contradiction = contradiction || bad
	}
	return changedRows, contradiction
}

// IsSolved reports whether every cell mask is a singleton.
func (b *Board) IsSolved() bool {
	for r := range b.H {
		for c := range b.W {
			if !palette.IsResolved(b.cells[r][c]) {
				return false
			}
		}
	}
	return true
}

// IsContradictory reports whether any cell mask is empty.
func (b *Board) IsContradictory() bool {
	for r := range b.H {
		for c := range b.W {
			if palette.IsContradiction(b.cells[r][c]) {
				return true
			}
		}
	}
	return false
}

// Clone deep-copies the board for a search fork. Clue tables are immutable
// after New and are shared, not copied.
func (b *Board) Clone() *Board {
	clone := &Board{
		H:        b.H,
		W:        b.W,
		Palette:  b.Palette,
		RowClues: b.RowClues,
		ColClues: b.ColClues,
		cells:    make([][]palette.Mask, b.H),
	}
	for r := range b.H {
		row := make([]palette.Mask, b.W)
		copy(row, b.cells[r])
		clone.cells[r] = row
	}
	return clone
}
