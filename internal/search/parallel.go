package search

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/palette"
	"github.com/kprice/nonogram/internal/propagate"
)

// RunParallel is the caller-side parallel-branch helper: the core solver
// stays single-threaded, and a caller wanting concurrency forks at the top
// level instead, one goroutine per first-level branch, each with its own
// board clone, propagator, and scratch buffer. It fans the root's first
// branch decision out across goroutines (one per candidate color at the
// chosen cell) using errgroup for structured cancellation, then merges each
// branch's Result under a single lock. It is a thin convenience:
// Run(b, limits, deadline) is equivalent and sufficient for
// single-threaded callers.
func RunParallel(ctx context.Context, b *board.Board, limits Limits, deadline Deadline) Result {
	limits = limits.withDefaults()

	root := b.Clone()
	prop := propagatorFor(root, deadline)
	if prop.contradiction {
		return Result{Outcome: Exhausted}
	}
	if prop.timedOut {
		return Result{Outcome: TimedOut}
	}
	if root.IsSolved() {
		return Result{Solutions: []*board.Board{root}, Outcome: Exhausted}
	}

	r, c, ok := chooseBranchCell(root)
	if !ok {
		return Result{Outcome: Exhausted}
	}
	colors := branchOrder(root.Get(r, c))

	var mu sync.Mutex
	merged := Result{Outcome: Exhausted}
	g, gctx := errgroup.WithContext(ctx)

	for _, color := range colors {
		color := color
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			branch := root.Clone()
			if _, bad := branch.Set(r, c, palette.Mask(color)); bad {
				return nil
			}
			want := remainingBudget(limits, &mu, &merged)
			if want <= 0 {
				return nil
			}
			sub := Run(branch, Limits{
				MaxSolutions: want,
				MaxDepth:     limits.MaxDepth,
				EnableProbe:  limits.EnableProbe,
				ProbeRounds:  limits.ProbeRounds,
			}, deadline)

			mu.Lock()
			merged.Solutions = append(merged.Solutions, sub.Solutions...)
			merged.Nodes += sub.Nodes
			merged.LineSolves += sub.LineSolves
			if sub.Outcome == TimedOut {
				merged.Outcome = TimedOut
			} else if sub.Outcome == LimitReached && merged.Outcome != TimedOut {
				merged.Outcome = LimitReached
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(merged.Solutions) > limits.MaxSolutions {
		merged.Solutions = merged.Solutions[:limits.MaxSolutions]
		merged.Outcome = LimitReached
	}
	return merged
}

// remainingBudget reports how many more solutions a branch may still
// contribute given what's already been merged in, so branches that start
// late don't keep searching past the caller's MaxSolutions.
func remainingBudget(limits Limits, mu *sync.Mutex, merged *Result) int {
	mu.Lock()
	defer mu.Unlock()
	return limits.MaxSolutions - len(merged.Solutions)
}

type propagateOutcome struct {
	contradiction bool
	timedOut      bool
}

// propagatorFor runs a single propagation fixpoint on b, used by
// RunParallel to resolve (or refute) the root before forking.
func propagatorFor(b *board.Board, deadline Deadline) propagateOutcome {
	p := propagate.New()
	p.MarkAllDirty(b)
	contradiction, timedOut := p.Run(b, deadline)
	return propagateOutcome{contradiction: contradiction, timedOut: timedOut}
}
