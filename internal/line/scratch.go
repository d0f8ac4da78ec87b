package line

import "github.com/kprice/nonogram/internal/palette"

// Scratch holds the forward/backward reachability tables and output buffer
// the line solver needs, sized to the largest line seen so far and reused
// across calls to avoid per-line allocation churn. A Scratch is owned by a
// single caller (propagator, prober, or search node) the way a board is;
// it is never shared across goroutines.
type Scratch struct {
	fits   [][]bool // (k+1) x (n+1)
	bfits  [][]bool // (k+1) x (n+1)
	output []palette.Mask
}

// NewScratch returns an empty, lazily-sized Scratch ready for reuse.
func NewScratch() *Scratch {
	return &Scratch{}
}

// resize grows the scratch tables to fit a line of n cells and k clues,
// without shrinking or reallocating if it's already large enough.
func (s *Scratch) resize(n, k int) {
	rows := k + 1
	cols := n + 1
	if cap(s.fits) < rows {
		s.fits = make([][]bool, rows)
		s.bfits = make([][]bool, rows)
	}
	s.fits = s.fits[:rows]
	s.bfits = s.bfits[:rows]
	for j := range rows {
		if cap(s.fits[j]) < cols {
			s.fits[j] = make([]bool, cols)
		} else {
			s.fits[j] = s.fits[j][:cols]
		}
		if cap(s.bfits[j]) < cols {
			s.bfits[j] = make([]bool, cols)
		} else {
			s.bfits[j] = s.bfits[j][:cols]
		}
	}
	if cap(s.output) < n {
		s.output = make([]palette.Mask, n)
	}
	s.output = s.output[:n]
}
