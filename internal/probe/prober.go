// Package probe implements contradiction-round probing: when propagation
// alone stalls (reaches a fixpoint without solving the board), the prober
// tries a trial color assignment at a single cell, propagates its
// consequences on a throwaway clone, and keeps that assignment's
// eliminations only if the trial leads to a contradiction.
//
// A trial assignment is never applied to the live board directly: it is
// only used to find contradictions, so the prober forks a clone, assumes
// the trial color there, and propagates to see what breaks.
package probe

import (
	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/palette"
	"github.com/kprice/nonogram/internal/propagate"
)

// Deadline is the same poll-at-each-step cancellation signal propagate.Run
// uses.
type Deadline = propagate.Deadline

// Stats counts the work a Round performed, for the caller's StatsObserver.
type Stats struct {
	CellsTried  int
	ColorsTried int
	Eliminated  int // color-at-cell eliminations the round made
}

// Round runs one contradiction-probing pass over b: for each candidate
// cell (one with more than one possible color, ordered by fewest
// remaining colors first, then by resolved-neighbor count descending, to
// prioritize cells most likely to yield a quick contradiction), it tries
// each of that cell's candidate colors on a clone and propagates. If a
// trial color leads to a contradiction, that color is eliminated from the
// real board's cell.
//
// A trial that propagates without contradiction proves nothing by itself
// (the board may still be ambiguous; some other candidate color, or some
// other cell entirely, could also be consistent), so Round never adopts an
// uncontradicted trial as a solution; only eliminations are ever applied
// to b. If enough eliminations accumulate to fully resolve the board,
// that shows up as b.IsSolved() becoming true, which RunUntilDry checks
// for between rounds.
//
// Round returns (contradiction, eliminated, stats). contradiction is true
// if eliminating a color from some cell left that cell with zero colors
// (the real board is unsatisfiable). eliminated counts how many
// color-at-cell eliminations were applied to b.
func Round(b *board.Board, deadline Deadline) (contradiction bool, eliminated int, stats Stats) {
	candidates := orderedCandidates(b)

	for _, cell := range candidates {
		if deadline != nil && deadline.Exceeded() {
			return false, eliminated, stats
		}
		stats.CellsTried++
		mask := b.Get(cell.r, cell.c)
		for _, c := range palette.Colors(mask) {
			stats.ColorsTried++
			trial := b.Clone()
			trial.Set(cell.r, cell.c, palette.Mask(c))
			prop := propagate.New()
			prop.MarkAllDirty(trial)
			bad, timedOut := prop.Run(trial, deadline)
			if timedOut {
				return false, eliminated, stats
			}
			if !bad {
				continue
			}
			_, contr := b.Set(cell.r, cell.c, mask&^palette.Mask(c))
			eliminated++
			stats.Eliminated++
			if contr {
				return true, eliminated, stats
			}
		}
	}
	return false, eliminated, stats
}

// RunUntilDry runs successive probing rounds, re-propagating b between
// rounds (an elimination in round N can unlock new propagation, which may
// in turn change the candidate ordering for round N+1), until a round
// makes no eliminations, a solution is found, a contradiction is found,
// maxRounds is reached, or the deadline expires.
func RunUntilDry(b *board.Board, maxRounds int, deadline Deadline) (solution *board.Board, contradiction bool, rounds int, totalEliminated int) {
	if b.IsSolved() {
		return b, false, 0, 0
	}

	for rounds = 0; maxRounds <= 0 || rounds < maxRounds; rounds++ {
		if deadline != nil && deadline.Exceeded() {
			return nil, false, rounds, totalEliminated
		}

		bad, eliminated, _ := Round(b, deadline)
		totalEliminated += eliminated
		if bad {
			return nil, true, rounds + 1, totalEliminated
		}
		if eliminated == 0 {
			if b.IsSolved() {
				return b, false, rounds + 1, totalEliminated
			}
			return nil, false, rounds + 1, totalEliminated
		}

		prop := propagate.New()
		prop.MarkAllDirty(b)
		if propBad, timedOut := prop.Run(b, deadline); propBad {
			return nil, true, rounds + 1, totalEliminated
		} else if timedOut {
			return nil, false, rounds + 1, totalEliminated
		}
		if b.IsSolved() {
			return b, false, rounds + 1, totalEliminated
		}
	}
	return nil, false, rounds, totalEliminated
}

type cellRef struct{ r, c int }

// orderedCandidates returns every undetermined cell, ordered by fewest
// remaining colors first (a 2-way guess is cheaper to disprove than a
// 4-way one) and, as a tiebreaker, by most resolved orthogonal neighbors
// descending (a cell boxed in by solved neighbors is more likely to
// contradict quickly).
func orderedCandidates(b *board.Board) []cellRef {
	var cells []cellRef
	for r := range b.H {
		for c := range b.W {
			if !palette.IsResolved(b.Get(r, c)) {
				cells = append(cells, cellRef{r, c})
			}
		}
	}

	freedom := make([]int, len(cells))
	neighbors := make([]int, len(cells))
	for i, cell := range cells {
		freedom[i] = b.CellFreedom(cell.r, cell.c)
		neighbors[i] = b.ResolvedNeighbors(cell.r, cell.c)
	}

	for i := 1; i < len(cells); i++ {
		for j := i; j > 0; j-- {
			if less(freedom, neighbors, j, j-1) {
				cells[j], cells[j-1] = cells[j-1], cells[j]
				freedom[j], freedom[j-1] = freedom[j-1], freedom[j]
				neighbors[j], neighbors[j-1] = neighbors[j-1], neighbors[j]
			} else {
				break
			}
		}
	}
	return cells
}

func less(freedom, neighbors []int, i, j int) bool {
	if freedom[i] != freedom[j] {
		return freedom[i] < freedom[j]
	}
	return neighbors[i] > neighbors[j]
}
