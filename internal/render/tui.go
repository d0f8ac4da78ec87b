package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/kprice/nonogram/internal/palette"
)

// TUI is a minimal interactive viewer for a board: it draws the row clues
// and cells live on a tcell.Screen (column clues are not drawn), and lets
// the user step through a sequence of boards (e.g. successive snapshots
// during search) with the arrow keys. The event loop is a single draw
// surface and a quit key: tcell.NewScreen plus Init, then a loop that
// calls PollEvent directly and dispatches key and resize events.
type TUI struct {
	screen tcell.Screen
}

// NewTUI allocates and initializes a tcell screen.
func NewTUI() (*TUI, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset))
	return &TUI{screen: screen}, nil
}

// Close releases the terminal.
func (t *TUI) Close() { t.screen.Fini() }

// Show renders boards[0], then lets the viewer cycle forward/backward
// through boards with the left/right arrow keys and quit with q or Ctrl-C.
// It returns the index last displayed.
func (t *TUI) Show(boards []BoardView) (int, error) {
	if len(boards) == 0 {
		return 0, fmt.Errorf("render: TUI.Show called with no boards")
	}
	idx := 0
	t.draw(boards[idx], idx, len(boards))

	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventKey:
			switch {
			case ev.Key() == tcell.KeyCtrlC, ev.Rune() == 'q':
				return idx, nil
			case ev.Key() == tcell.KeyRight && idx < len(boards)-1:
				idx++
			case ev.Key() == tcell.KeyLeft && idx > 0:
				idx--
			default:
				continue
			}
			t.draw(boards[idx], idx, len(boards))
		case *tcell.EventResize:
			t.screen.Sync()
			t.draw(boards[idx], idx, len(boards))
		}
	}
}

var (
	styleInk   = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	styleSpace = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleOpen  = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleClue  = tcell.StyleDefault.Bold(true).Foreground(tcell.ColorWhite)
)

func (t *TUI) draw(b BoardView, idx, total int) {
	t.screen.Clear()
	h, w := b.Dimensions()

	maxClueWidth := 0
	for r := range h {
		if cw := len(formatClue(b.RowClueAt(r), b)); cw > maxClueWidth {
			maxClueWidth = cw
		}
	}

	for r := range h {
		clue := formatClue(b.RowClueAt(r), b)
		drawText(t.screen, 0, r+1, styleClue, clue)
		for c := range w {
			drawCell(t.screen, maxClueWidth+1+c, r+1, b.CellAt(r, c), b.PaletteColors())
		}
	}

	footer := fmt.Sprintf("board %d/%d  ←/→ to step  q to quit", idx+1, total)
	drawText(t.screen, 0, h+2, styleClue, footer)
	t.screen.Show()
}

func drawCell(s tcell.Screen, x, y int, m palette.Mask, colors []palette.Entry) {
	switch {
	case palette.IsContradiction(m):
		s.SetContent(x, y, 'X', nil, styleOpen)
	case palette.IsResolved(m):
		c := palette.Colors(m)[0]
		if c == palette.Space {
			s.SetContent(x, y, '·', nil, styleSpace)
			return
		}
		glyph := []rune(swatch(c, colors))[0]
		s.SetContent(x, y, glyph, nil, styleInk)
	default:
		glyph := []rune(fmt.Sprintf("%d", palette.Count(m)))[0]
		s.SetContent(x, y, glyph, nil, styleOpen)
	}
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}
