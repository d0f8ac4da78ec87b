package nono

import (
	"testing"
	"time"

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

func TestSolveUniquePlusBoard(t *testing.T) {
	pal := palette.Monochrome()
	rows := []board.Line{mono(1), mono(1), mono(5), mono(1), mono(1)}
	cols := []board.Line{mono(1), mono(1), mono(5), mono(1), mono(1)}
	b, err := board.New(5, 5, pal, rows, cols)
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	res := Solve(b, Options{})
	if res.Status != StatusSolvedUnique {
		t.Fatalf("status = %v, want StatusSolvedUnique", res.Status)
	}
	if len(res.Boards) != 1 {
		t.Fatalf("got %d boards, want 1", len(res.Boards))
	}
	if !res.Boards[0].IsSolved() {
		t.Error("returned board is not fully solved")
	}
	if res.SessionID == "" {
		t.Error("expected a non-empty session id")
	}
}

func TestSolveAmbiguousXORBoard(t *testing.T) {
	pal := palette.Monochrome()
	b, err := board.New(2, 2, pal, []board.Line{mono(1), mono(1)}, []board.Line{mono(1), mono(1)})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	res := Solve(b, Options{})
	if res.Status != StatusSolvedMultiple {
		t.Fatalf("status = %v, want StatusSolvedMultiple", res.Status)
	}
	if len(res.Boards) != 2 {
		t.Fatalf("got %d boards, want 2", len(res.Boards))
	}
}

func TestSolveContradictoryBoard(t *testing.T) {
	pal := palette.Monochrome()
	ink := board.Clue{Length: 1, Color: 2}
	b, err := board.New(1, 1, pal, []board.Line{{ink}}, []board.Line{{}})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	res := Solve(b, Options{})
	if res.Status != StatusContradictory {
		t.Fatalf("status = %v, want StatusContradictory", res.Status)
	}
	if len(res.Boards) != 0 {
		t.Errorf("got %d boards, want 0", len(res.Boards))
	}
}

func TestSolveRespectsMaxSolutionsOfOne(t *testing.T) {
	pal := palette.Monochrome()
	b, err := board.New(2, 2, pal, []board.Line{mono(1), mono(1)}, []board.Line{mono(1), mono(1)})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}

	res := Solve(b, Options{MaxSolutions: 1})
	if res.Status != StatusSolvedUnique {
		t.Fatalf("status = %v, want StatusSolvedUnique (only 1 requested)", res.Status)
	}
	if len(res.Boards) != 1 {
		t.Fatalf("got %d boards, want 1", len(res.Boards))
	}
}

type recordingObserver struct {
	started, finished bool
}

func (r *recordingObserver) SolveStarted(string, int, int)      { r.started = true }
func (r *recordingObserver) Propagated(string, int)             {}
func (r *recordingObserver) Probed(string, int)                 {}
func (r *recordingObserver) Searched(string, int, int)          {}
func (r *recordingObserver) SolveFinished(string, string, time.Duration) { r.finished = true }

func TestSolveNotifiesObserver(t *testing.T) {
	pal := palette.Monochrome()
	b, err := board.New(1, 1, pal, []board.Line{mono(1)}, []board.Line{mono(1)})
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	obs := &recordingObserver{}
	Solve(b, Options{Observer: obs})
	if !obs.started || !obs.finished {
		t.Error("expected both SolveStarted and SolveFinished to fire")
	}
}

func TestLoggingObserverCallsLogf(t *testing.T) {
	var lines []string
	obs := LoggingObserver{Logf: func(format string, args ...any) {
		lines = append(lines, format)
		_ = args
	}}
	obs.SolveStarted("s1", 3, 3)
	obs.SolveFinished("s1", "solved-unique", time.Millisecond)
	if len(lines) != 2 {
		t.Fatalf("got %d log lines, want 2", len(lines))
	}
}
