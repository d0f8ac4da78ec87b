// Package line implements the single-line solver: given one row or
// column's clue sequence and its cells' current masks, it deduces the
// intersection of every valid completion, or reports that no completion
// exists.
//
// A line's clue sequence admits a closed-form deduction: the algorithm
// here is a two-pass dynamic program rather than a technique library. A
// forward reachability table and a backward reachability table are built
// independently, then a union pass checks, for every cell, every way that
// cell could be covered by a clue's block or left as space, across every
// split point consistent with both tables. The result is the complete
// constraint closure for the line in one pass, not a partial deduction
// that leaves some forced cells for a later pass to find.
package line

import (
	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/palette"
)

// Mask is an alias for palette.Mask, used throughout this package for the
// per-cell values the solver reads and writes.
type Mask = palette.Mask

// Contradiction is returned by Solve when no completion of the clue
// sequence is consistent with the input masks. It carries no additional
// state: this is an explicit, expected signal, not a failure.
type Contradiction struct{}

func (Contradiction) Error() string { return "nonogram: line has no valid completion" }

// Solve deduces the forced cells of a single line. cells holds the current
// mask for each of the line's n positions; clue is its run-length
// sequence. The returned line's masks are each a subset of the
// corresponding input mask (possibly unchanged), refined to exactly the
// union of colors that appear in some valid completion consistent with
// cells. If no completion exists, Solve returns (nil, Contradiction{}).
//
// scratch is reused across calls to avoid per-line allocation; pass a
// fresh *Scratch per owner (propagator, prober round, or search node) and
// keep reusing it.
func Solve(cells []Mask, clue board.Line, scratch *Scratch) ([]Mask, error) {
	n := len(cells)
	k := len(clue)
	scratch.resize(n, k)
	fits, bfits, out := scratch.fits, scratch.bfits, scratch.output

	fillForward(fits, cells, clue)
	if !fits[k][n] {
		return nil, Contradiction{}
	}
	fillBackward(bfits, cells, clue)

	for i := range out {
		out[i] = 0
	}

	// Union every color a clue's block can take in some valid completion.
	for cidx, c := range clue {
		sepBefore := 0
		if clue.RequiresSeparator(cidx) {
			sepBefore = 1
		}
		sepAfter := 0
		if cidx+1 < k && clue.RequiresSeparator(cidx + 1) {
			sepAfter = 1
		}
		for start := 0; start+c.Length <= n; start++ {
			end := start + c.Length // exclusive
			fwdIdx := start - sepBefore
			bwdIdx := end + sepAfter
			if fwdIdx < 0 || bwdIdx > n {
				continue
			}
			if !fits[cidx][fwdIdx] || !bfits[cidx+1][bwdIdx] {
				continue
			}
			if sepBefore == 1 && !admits(cells[start-1], palette.Space) {
				continue
			}
			if sepAfter == 1 && !admits(cells[end], palette.Space) {
				continue
			}
			if !blockAdmits(cells, start, end, c.Color) {
				continue
			}
			for t := start; t < end; t++ {
				out[t] |= Mask(c.Color)
			}
		}
	}

	// Union every position a cell can be left as space, trying every split
	// point between "clues placed before it" and "clues placed after it".
	for t := range n {
		if !admits(cells[t], palette.Space) {
			continue
		}
		for j := 0; j <= k; j++ {
			if fits[j][t] && bfits[j][t+1] {
				out[t] |= Mask(palette.Space)
				break
			}
		}
	}

	result := make([]Mask, n)
	for i := range result {
		result[i] = palette.Intersect(cells[i], out[i])
		if palette.IsContradiction(result[i]) {
			return nil, Contradiction{}
		}
	}
	return result, nil
}

func admits(m Mask, c palette.Color) bool { return palette.Has(m, c) }

func blockAdmits(cells []Mask, start, end int, c palette.Color) bool {
	for t := start; t < end; t++ {
		if !admits(cells[t], c) {
			return false
		}
	}
	return true
}

// fillForward computes fits[j][i] = "the first j clues can be placed
// entirely within cells 0..i-1, compatible with cells".
func fillForward(fits [][]bool, cells []Mask, clue board.Line) {
	n := len(cells)
	k := len(clue)

	fits[0][0] = true
	for i := 1; i <= n; i++ {
		fits[0][i] = fits[0][i-1] && admits(cells[i-1], palette.Space)
	}

	for j := 1; j <= k; j++ {
		c := clue[j-1]
		sep := 0
		if clue.RequiresSeparator(j - 1) {
			sep = 1
		}
		row := fits[j]
		prev := fits[j-1]
		row[0] = false
		for i := 1; i <= n; i++ {
			placed := false
			start := i - c.Length
			if start >= 0 {
				fwdIdx := start - sep
				if fwdIdx >= 0 && prev[fwdIdx] && blockAdmits(cells, start, i, c.Color) {
					if sep == 0 || admits(cells[start-1], palette.Space) {
						placed = true
					}
				}
			}
			extended := row[i-1] && admits(cells[i-1], palette.Space)
			row[i] = placed || extended
		}
	}
}

// fillBackward computes bfits[j][i] = "clues j..k-1 can be placed entirely
// within cells i..n-1, compatible with cells".
func fillBackward(bfits [][]bool, cells []Mask, clue board.Line) {
	n := len(cells)
	k := len(clue)

	bfits[k][n] = true
	for i := n - 1; i >= 0; i-- {
		bfits[k][i] = bfits[k][i+1] && admits(cells[i], palette.Space)
	}

	for j := k - 1; j >= 0; j-- {
		c := clue[j]
		sep := 0
		if j+1 < k && clue.RequiresSeparator(j+1) {
			sep = 1
		}
		row := bfits[j]
		next := bfits[j+1]
		row[n] = false
		for i := n - 1; i >= 0; i-- {
			placed := false
			end := i + c.Length
			if end <= n {
				bwdIdx := end + sep
				if bwdIdx <= n && next[bwdIdx] && blockAdmits(cells, i, end, c.Color) {
					if sep == 0 || admits(cells[end], palette.Space) {
						placed = true
					}
				}
			}
			extended := row[i+1] && admits(cells[i], palette.Space)
			row[i] = placed || extended
		}
	}
}
