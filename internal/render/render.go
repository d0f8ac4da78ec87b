// Package render draws a solved or partially-solved board to a terminal.
// It only ever reads a board through BoardView, never mutates one, and is
// free to depend on terminal/color libraries the core solver packages
// never import: fatih/color palettes reused across cells rather than
// recreated per print, mattn/go-runewidth (a board's clue gutter holds
// run-length numbers of varying width), and golang.org/x/term (to decide
// whether an output is a terminal before enabling color). Text draws no
// border and does not wrap wide boards.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/palette"
)

// BoardView is the read-only surface render needs. board.Board satisfies
// it; tests substitute a fake.
type BoardView interface {
	Dimensions() (h, w int)
	CellAt(r, c int) palette.Mask
	RowClueAt(r int) board.Line
	ColClueAt(c int) board.Line
	PaletteColors() []palette.Entry
}

// boardAdapter lets *board.Board satisfy BoardView without the board
// package itself needing to know about rendering.
type boardAdapter struct{ b *board.Board }

// Adapt wraps a board for rendering.
func Adapt(b *board.Board) BoardView { return boardAdapter{b} }

func (a boardAdapter) Dimensions() (int, int) { return a.b.H, a.b.W }
func (a boardAdapter) CellAt(r, c int) palette.Mask { return a.b.Get(r, c) }
func (a boardAdapter) RowClueAt(r int) board.Line { return a.b.RowClues[r] }
func (a boardAdapter) ColClueAt(c int) board.Line { return a.b.ColClues[c] }
func (a boardAdapter) PaletteColors() []palette.Entry { return a.b.Palette.Colors }

var (
	resolvedInk   = color.New(color.Bold, color.FgHiWhite, color.BgHiBlack)
	resolvedSpace = color.New(color.FgHiBlack)
	undetermined  = color.New(color.FgYellow)
	clueColor     = color.New(color.Bold, color.FgHiWhite)
)

// Options controls how Text renders a board.
type Options struct {
	// NoColor disables fatih/color styling (e.g. when writing to a file
	// or a non-TTY pipe).
	NoColor bool
}

// DetectOptions picks sane rendering options for w, enabling color only
// when w looks like an interactive terminal, the same isatty-style check
// used for input but applied here to output.
func DetectOptions(w io.Writer) Options {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return Options{NoColor: true}
	}
	return Options{NoColor: !term.IsTerminal(int(f.Fd()))}
}

// Text renders b to w as a grid with row and column clue gutters: resolved
// ink cells as the uppercase first letter of their color's name, resolved
// space cells as a dim dot, contradictory cells as "X", and
// undetermined cells as a count of remaining colors.
func Text(w io.Writer, b BoardView, opts Options) {
	h, width := b.Dimensions()
	rowClues := make([]string, h)
	maxRowClueWidth := 0
	for r := range h {
		s := formatClue(b.RowClueAt(r), b)
		rowClues[r] = s
		if cw := runewidth.StringWidth(s); cw > maxRowClueWidth {
			maxRowClueWidth = cw
		}
	}

	colHeaderRows := maxColClueHeight(width, b)
	for hr := range colHeaderRows {
		fmt.Fprint(w, strings.Repeat(" ", maxRowClueWidth+1))
		for c := range width {
			fmt.Fprintf(w, "%s ", colClueCell(b.ColClueAt(c), hr, colHeaderRows, b))
		}
		fmt.Fprintln(w)
	}

	for r := range h {
		pad := maxRowClueWidth - runewidth.StringWidth(rowClues[r])
		printClue(w, rowClues[r], opts)
		fmt.Fprint(w, strings.Repeat(" ", pad+1))
		for c := range width {
			printCell(w, b.CellAt(r, c), b.PaletteColors(), opts)
			fmt.Fprint(w, " ")
		}
		fmt.Fprintln(w)
	}
}

func formatClue(line board.Line, b BoardView) string {
	if len(line) == 0 {
		return "0"
	}
	parts := make([]string, len(line))
	for i, c := range line {
		parts[i] = strconv.Itoa(c.Length)
	}
	return strings.Join(parts, ",")
}

func maxColClueHeight(width int, b BoardView) int {
	max := 1
	for c := range width {
		if n := len(b.ColClueAt(c)); n > max {
			max = n
		}
	}
	return max
}

func colClueCell(line board.Line, row, totalRows int, b BoardView) string {
	// Right-align the clue sequence against the board, one number per
	// header row, from the bottom up.
	idx := len(line) - (totalRows - row)
	if idx < 0 || idx >= len(line) {
		return " "
	}
	return strconv.Itoa(line[idx].Length)
}

func printClue(w io.Writer, s string, opts Options) {
	if opts.NoColor {
		fmt.Fprint(w, s)
		return
	}
	clueColor.Fprint(w, s)
}

func printCell(w io.Writer, m palette.Mask, colors []palette.Entry, opts Options) {
	switch {
	case palette.IsContradiction(m):
		fmt.Fprint(w, "X")
	case palette.IsResolved(m):
		c := palette.Colors(m)[0]
		if c == palette.Space {
			printStyled(w, "·", resolvedSpace, opts)
			return
		}
		printStyled(w, swatch(c, colors), resolvedInk, opts)
	default:
		printStyled(w, strconv.Itoa(palette.Count(m)), undetermined, opts)
	}
}

func printStyled(w io.Writer, s string, c *color.Color, opts Options) {
	if opts.NoColor {
		fmt.Fprint(w, s)
		return
	}
	c.Fprint(w, s)
}

// swatch returns a single-character glyph for an ink color: the first
// letter of its palette name, or "#" if the color isn't in this palette
// (shouldn't happen for a board's own cells, but keeps this total).
func swatch(c palette.Color, colors []palette.Entry) string {
	for _, e := range colors {
		if e.Color == c {
			return strings.ToUpper(e.Name[:1])
		}
	}
	return "#"
}
