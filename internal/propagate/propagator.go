// Package propagate implements the fixed-point propagation loop: it
// repeatedly re-solves lines whose cells changed since they were last
// solved, until no line is left dirty or a contradiction is found.
//
// The work set is explicit rather than a full rescan every pass: a
// nonogram board's rows and columns only need re-solving when a
// perpendicular write actually touched one of their cells, so each write
// schedules exactly the lines it crossed.
package propagate

import (
	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/line"
)

// Propagator owns two priority work sets (dirty rows, dirty columns) and
// applies the line solver to dirty lines until both sets drain or a
// contradiction is found.
//
// A Propagator is single-owner, synchronous, and holds no state beyond its
// own work sets and scratch buffer; it is safe to keep and reuse across
// Run calls on different boards of the same size; it is never shared
// across goroutines.
type Propagator struct {
	scratch *line.Scratch

	dirtyRow []bool
	dirtyCol []bool

	// Stats, reset at the start of each Run.
	LineSolves int
}

// New returns a Propagator with empty work sets; MarkAllDirty and Run
// resize them to the dimensions of the board they are given.
func New() *Propagator {
	return &Propagator{scratch: line.NewScratch()}
}

// MarkAllDirty schedules every row and column for (re-)solving. This is the
// initial state before a propagation run: every line is a candidate for
// deduction until proven otherwise.
func (p *Propagator) MarkAllDirty(b *board.Board) {
	p.ensureSize(b.H, b.W)
	for i := range p.dirtyRow {
		p.dirtyRow[i] = true
	}
	for i := range p.dirtyCol {
		p.dirtyCol[i] = true
	}
}

// MarkRowDirty schedules a single row for re-solving.
func (p *Propagator) MarkRowDirty(r int) {
	if r >= 0 && r < len(p.dirtyRow) {
		p.dirtyRow[r] = true
	}
}

// MarkColDirty schedules a single column for re-solving.
func (p *Propagator) MarkColDirty(c int) {
	if c >= 0 && c < len(p.dirtyCol) {
		p.dirtyCol[c] = true
	}
}

func (p *Propagator) ensureSize(h, w int) {
	if len(p.dirtyRow) != h {
		p.dirtyRow = make([]bool, h)
	}
	if len(p.dirtyCol) != w {
		p.dirtyCol = make([]bool, w)
	}
}

// Deadline is an opaque, poll-at-each-step cancellation signal. Exceeded is
// checked at the top of the propagator's main loop, at each probing round,
// and at each search node.
type Deadline interface {
	Exceeded() bool
}

// Run pops dirty lines in a fixed, deterministic order (every dirty row,
// smallest index first, before any dirty column; a column solve can dirty
// rows again, which is processed before moving on to the remaining
// columns) and re-solves each with the line solver,
// applying refinements back to the board and scheduling the perpendicular
// lines of any cell that changed. It returns true if a contradiction was
// found anywhere, and whether the loop ran to completion or was cut short
// by deadline.
func (p *Propagator) Run(b *board.Board, deadline Deadline) (contradiction, timedOut bool) {
	p.ensureSize(b.H, b.W)
	p.LineSolves = 0

	for p.hasDirtyWork() {
		if deadline != nil && deadline.Exceeded() {
			return false, true
		}

		if r, ok := p.popDirtyRow(); ok {
			if p.solveRow(b, r) {
				return true, false
			}
			continue
		}
		if c, ok := p.popDirtyCol(); ok {
			if p.solveCol(b, c) {
				return true, false
			}
			continue
		}
	}
	return false, false
}

func (p *Propagator) hasDirtyWork() bool {
	for _, d := range p.dirtyRow {
		if d {
			return true
		}
	}
	for _, d := range p.dirtyCol {
		if d {
			return true
		}
	}
	return false
}

// popDirtyRow returns the smallest dirty row index, if any.
func (p *Propagator) popDirtyRow() (int, bool) {
	for i, d := range p.dirtyRow {
		if d {
			p.dirtyRow[i] = false
			return i, true
		}
	}
	return 0, false
}

func (p *Propagator) popDirtyCol() (int, bool) {
	for i, d := range p.dirtyCol {
		if d {
			p.dirtyCol[i] = false
			return i, true
		}
	}
	return 0, false
}

func (p *Propagator) solveRow(b *board.Board, r int) (contradiction bool) {
	p.LineSolves++
	refined, err := line.Solve(b.Row(r), b.RowClues[r], p.scratch)
	if err != nil {
		return true
	}
	changedCols, bad := b.SetRow(r, refined)
	for _, c := range changedCols {
		p.MarkColDirty(c)
	}
	return bad
}

func (p *Propagator) solveCol(b *board.Board, c int) (contradiction bool) {
	p.LineSolves++
	refined, err := line.Solve(b.Col(c), b.ColClues[c], p.scratch)
	if err != nil {
		return true
	}
	changedRows, bad := b.SetCol(c, refined)
	for _, r := range changedRows {
		p.MarkRowDirty(r)
	}
	return bad
}
