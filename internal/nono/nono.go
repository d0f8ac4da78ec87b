// Package nono is the top-level orchestrator: it wires the propagator,
// prober, and search together into a single Solve call and reports a
// structured Result plus (optionally) progress through a StatsObserver.
//
// The pipeline escalates through progressively more expensive techniques:
// propagate to a fixpoint, probe if that stalls, then fall back to
// backtracking search, giving up with the best partial board found if
// nothing resolves the puzzle before the deadline or the search limits are
// reached.
package nono

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/probe"
	"github.com/kprice/nonogram/internal/propagate"
	"github.com/kprice/nonogram/internal/search"
)

// Options configures a Solve call. The zero value Options{} is ready to
// use directly: every field defaults sensibly, including EnableProbing
// (nil means "on"; pass a pointer to false to opt out).
type Options struct {
	MaxSolutions int
	MaxDepth     int
	Timeout      time.Duration
	// EnableProbing is a tri-state override: nil uses the default (on).
	// A plain bool can't tell "unset" apart from "explicitly false", so
	// this follows the *bool convention optional flags use throughout the
	// cloud-config ecosystem.
	EnableProbing  *bool
	ProbeMaxRounds int
	Observer       StatsObserver
}

// Defaults returns the Options Solve uses when none are supplied: at most
// 2 solutions (enough to distinguish a unique solution from an ambiguous
// puzzle without enumerating every one), probing enabled, no depth or
// round limits, and a generous timeout.
func Defaults() Options {
	return Options{
		MaxSolutions: 2,
		Timeout:      30 * time.Second,
	}
}

func boolPtr(b bool) *bool { return &b }

func (o Options) withDefaults() Options {
	d := Defaults()
	if o.MaxSolutions <= 0 {
		o.MaxSolutions = d.MaxSolutions
	}
	if o.Timeout <= 0 {
		o.Timeout = d.Timeout
	}
	if o.EnableProbing == nil {
		o.EnableProbing = boolPtr(true)
	}
	if o.Observer == nil {
		o.Observer = NopObserver{}
	}
	return o
}

// Status is the terminal classification of a Solve call.
type Status int

const (
	StatusContradictory Status = iota
	StatusSolvedUnique
	StatusSolvedMultiple
	StatusUnsolvedTimeout
	StatusUnsolvedExhausted
)

func (s Status) String() string {
	switch s {
	case StatusContradictory:
		return "contradictory"
	case StatusSolvedUnique:
		return "solved-unique"
	case StatusSolvedMultiple:
		return "solved-multiple"
	case StatusUnsolvedTimeout:
		return "unsolved-timeout"
	case StatusUnsolvedExhausted:
		return "unsolved-exhausted"
	default:
		return "unknown"
	}
}

// Result is the complete report of a Solve call.
type Result struct {
	SessionID string
	Status    Status
	Boards    []*board.Board
	Elapsed   time.Duration

	// Partial carries the best board reached before giving up, set only
	// when Status is StatusUnsolvedTimeout or StatusUnsolvedExhausted. It
	// may still contain undetermined cells; it is never nil on those
	// statuses and always nil otherwise.
	Partial *board.Board

	ProbeRounds int
	SearchNodes int
	LineSolves  int
}

// deadline adapts a wall-clock cutoff to propagate.Deadline.
type deadline struct{ at time.Time }

func (d deadline) Exceeded() bool { return time.Now().After(d.at) }

// Solve runs the full pipeline on b: propagate to a fixpoint, probe if
// propagation alone stalls and probing is enabled, then fall back to
// backtracking search if the board is still undetermined. b is not
// mutated; Solve clones it internally.
func Solve(b *board.Board, opts Options) Result {
	opts = opts.withDefaults()
	start := time.Now()
	sessionID := uuid.NewString()
	dl := deadline{at: start.Add(opts.Timeout)}

	opts.Observer.SolveStarted(sessionID, b.H, b.W)

	// The Open Question of whether monochrome puzzles deserve a packed,
	// reduced representation (see DESIGN.md) was decided against a
	// separate code path: Mask is already a single machine word regardless
	// of palette size, so a 2-color puzzle's line solver already runs the
	// same O(n*k) bit-op loops a 2-bit-wide representation would, with no
	// per-cell overhead a reduction pass could remove.
	work := b.Clone()

	prop := propagate.New()
	prop.MarkAllDirty(work)
	contradiction, timedOut := prop.Run(work, dl)
	opts.Observer.Propagated(sessionID, prop.LineSolves)

	res := Result{SessionID: sessionID, LineSolves: prop.LineSolves}
	finish := func(status Status, boards []*board.Board) Result {
		res.Status = status
		res.Boards = boards
		res.Elapsed = time.Since(start)
		opts.Observer.SolveFinished(sessionID, res.Status.String(), res.Elapsed)
		return res
	}

	if contradiction {
		return finish(StatusContradictory, nil)
	}
	if timedOut {
		res.Partial = work
		return finish(StatusUnsolvedTimeout, nil)
	}
	if work.IsSolved() {
		return finish(StatusSolvedUnique, []*board.Board{work})
	}

	if *opts.EnableProbing {
		sol, bad, rounds, _ := probe.RunUntilDry(work, opts.ProbeMaxRounds, dl)
		res.ProbeRounds = rounds
		opts.Observer.Probed(sessionID, rounds)
		if bad {
			return finish(StatusContradictory, nil)
		}
		if sol != nil {
			return finish(StatusSolvedUnique, []*board.Board{sol})
		}
	}

	searchRes := search.Run(work, search.Limits{
		MaxSolutions: opts.MaxSolutions,
		MaxDepth:     opts.MaxDepth,
		EnableProbe:  *opts.EnableProbing,
		ProbeRounds:  opts.ProbeMaxRounds,
	}, dl)
	res.SearchNodes = searchRes.Nodes
	res.LineSolves += searchRes.LineSolves
	opts.Observer.Searched(sessionID, searchRes.Nodes, len(searchRes.Solutions))

	switch {
	case len(searchRes.Solutions) >= 2:
		return finish(StatusSolvedMultiple, searchRes.Solutions)
	case len(searchRes.Solutions) == 1:
		return finish(StatusSolvedUnique, searchRes.Solutions)
	case searchRes.Outcome == search.TimedOut:
		res.Partial = work
		return finish(StatusUnsolvedTimeout, nil)
	case searchRes.Outcome == search.LimitReached:
		// MaxDepth or MaxSolutions cut the search off before it could prove
		// there is no solution; unlike a genuine contradiction, one may
		// still exist outside the explored branches.
		res.Partial = work
		return finish(StatusUnsolvedExhausted, nil)
	default:
		return finish(StatusContradictory, nil)
	}
}

// StatsObserver receives progress notifications during Solve. It is the
// only point where the core touches anything resembling I/O, and even
// then only through an interface the caller supplies.
type StatsObserver interface {
	SolveStarted(sessionID string, h, w int)
	Propagated(sessionID string, lineSolves int)
	Probed(sessionID string, rounds int)
	Searched(sessionID string, nodes, solutions int)
	SolveFinished(sessionID string, status string, elapsed time.Duration)
}

// NopObserver discards every notification.
type NopObserver struct{}

func (NopObserver) SolveStarted(string, int, int)          {}
func (NopObserver) Propagated(string, int)                 {}
func (NopObserver) Probed(string, int)                     {}
func (NopObserver) Searched(string, int, int)              {}
func (NopObserver) SolveFinished(string, string, time.Duration) {}

// LoggingObserver writes each notification as a line to a plain logger
// function: short, prefixed, one line per event.
type LoggingObserver struct {
	Logf func(format string, args ...any)
}

func (o LoggingObserver) logf(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}

func (o LoggingObserver) SolveStarted(sessionID string, h, w int) {
	o.logf("[%s] solve started: %dx%d board", sessionID, h, w)
}

func (o LoggingObserver) Propagated(sessionID string, lineSolves int) {
	o.logf("[%s] propagation fixpoint: %d line solves", sessionID, lineSolves)
}

func (o LoggingObserver) Probed(sessionID string, rounds int) {
	o.logf("[%s] probing: %d rounds", sessionID, rounds)
}

func (o LoggingObserver) Searched(sessionID string, nodes, solutions int) {
	o.logf("[%s] search: %d nodes, %d solutions found", sessionID, nodes, solutions)
}

func (o LoggingObserver) SolveFinished(sessionID string, status string, elapsed time.Duration) {
	o.logf("[%s] solve finished: %s in %s", sessionID, status, elapsed)
}

var _ fmt.Stringer = Status(0)
