// Package search implements backtracking enumeration: when propagation and
// probing both stall with the board still undetermined, it picks a branch
// cell, forks the board once per candidate color, and recurses, using the
// propagator (and, optionally, the prober) to prune each branch before
// descending further.
//
// Branching works by cloning the board rather than by an undo log: a
// board's mutation history across a propagation fixpoint is not cheaply
// reversible the way a single cell assignment is, so each candidate color
// gets its own forked clone instead of a mutate-then-rewind step.
package search

import (
	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/palette"
	"github.com/kprice/nonogram/internal/probe"
	"github.com/kprice/nonogram/internal/propagate"
)

// Deadline is the same poll-at-each-step cancellation signal the
// propagator and prober use.
type Deadline = propagate.Deadline

// Limits bounds a search run. A zero value for any field means
// "unlimited" except MaxSolutions, whose zero value is treated as 1 (find
// the first solution and stop).
type Limits struct {
	MaxSolutions int
	MaxDepth     int
	EnableProbe  bool
	// ProbeRounds caps how many probing rounds run at each search node
	// before giving up and branching instead. Zero means unlimited (run
	// until a round makes no eliminations).
	ProbeRounds int
}

func (l Limits) withDefaults() Limits {
	if l.MaxSolutions <= 0 {
		l.MaxSolutions = 1
	}
	return l
}

// Outcome summarizes how a search run ended.
type Outcome int

const (
	// Exhausted means the search explored every branch within its limits
	// and found all solutions there are (possibly zero).
	Exhausted Outcome = iota
	// LimitReached means MaxSolutions or MaxDepth cut the search off with
	// more branches left unexplored.
	LimitReached
	// TimedOut means the deadline expired mid-search.
	TimedOut
)

// Result is the outcome of a complete Run.
type Result struct {
	Solutions []*board.Board
	Outcome   Outcome
	Nodes     int
	LineSolves int
}

// Run performs a depth-first backtracking search over b, returning up to
// limits.MaxSolutions distinct solved boards. b is not mutated; the
// caller's board is cloned internally before the first branch.
func Run(b *board.Board, limits Limits, deadline Deadline) Result {
	limits = limits.withDefaults()
	s := &searcher{limits: limits, deadline: deadline, prop: propagate.New()}
	root := b.Clone()
	s.descend(root, 0)
	outcome := Exhausted
	if s.timedOut {
		outcome = TimedOut
	} else if s.cutShort {
		outcome = LimitReached
	}
	return Result{Solutions: s.solutions, Outcome: outcome, Nodes: s.nodes, LineSolves: s.lineSolves}
}

type searcher struct {
	limits    Limits
	deadline  Deadline
	prop      *propagate.Propagator
	solutions []*board.Board
	nodes     int
	lineSolves int
	timedOut  bool
	cutShort  bool
}

// descend propagates b to a fixpoint (and, if enabled, probes it), then
// either records a solution, discards a contradiction, or branches on the
// best remaining cell and recurses into each candidate color in order.
func (s *searcher) descend(b *board.Board, depth int) {
	if s.timedOut || len(s.solutions) >= s.limits.MaxSolutions {
		return
	}
	if s.deadline != nil && s.deadline.Exceeded() {
		s.timedOut = true
		return
	}
	s.nodes++

	s.prop.MarkAllDirty(b)
	contradiction, timedOut := s.prop.Run(b, s.deadline)
	s.lineSolves += s.prop.LineSolves
	if timedOut {
		s.timedOut = true
		return
	}
	if contradiction {
		return
	}

	if s.limits.EnableProbe && !b.IsSolved() {
		sol, bad, _, _ := probe.RunUntilDry(b, s.limits.ProbeRounds, s.deadline)
		if bad {
			return
		}
		if sol != nil {
			b = sol
		}
	}

	if b.IsSolved() {
		s.solutions = append(s.solutions, b)
		return
	}

	if s.limits.MaxDepth > 0 && depth >= s.limits.MaxDepth {
		s.cutShort = true
		return
	}

	r, c, ok := chooseBranchCell(b)
	if !ok {
		// No unresolved cell but not solved: impossible given IsSolved's
		// definition, defensive only.
		return
	}
	for _, color := range branchOrder(b.Get(r, c)) {
		if s.timedOut {
			return
		}
		if len(s.solutions) >= s.limits.MaxSolutions {
			// This color and any after it stay unexplored.
			s.cutShort = true
			return
		}
		child := b.Clone()
		_, bad := child.Set(r, c, palette.Mask(color))
		if bad {
			continue
		}
		s.descend(child, depth+1)
	}
}

// chooseBranchCell picks the unresolved cell with fewest remaining colors
// (fewest branches to try), tie-broken by most resolved orthogonal
// neighbors, then row-major position for determinism.
func chooseBranchCell(b *board.Board) (r, c int, ok bool) {
	bestFreedom := -1
	bestNeighbors := -1
	for row := range b.H {
		for col := range b.W {
			m := b.Get(row, col)
			if palette.IsResolved(m) {
				continue
			}
			freedom := palette.Count(m)
			neighbors := b.ResolvedNeighbors(row, col)
			if !ok || freedom < bestFreedom || (freedom == bestFreedom && neighbors > bestNeighbors) {
				r, c, ok = row, col, true
				bestFreedom, bestNeighbors = freedom, neighbors
			}
		}
	}
	return r, c, ok
}

// branchOrder returns a cell's candidate colors in a fixed, deterministic
// order (ascending bit value, i.e. space before any ink color, then inks
// in palette order) so repeated runs over the same board enumerate
// solutions identically. palette.Colors already yields this order.
func branchOrder(m palette.Mask) []palette.Color {
	return palette.Colors(m)
}
