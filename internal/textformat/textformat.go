// Package textformat loads a puzzle from a simple line-based text format: a
// dimensions line, a palette line, and two clue sections. It is never
// imported by anything under internal/board, internal/line,
// internal/propagate, internal/probe, internal/search, or internal/nono;
// it is purely an external reader that builds a board from a file.
//
// It reads with a bufio.Scanner, line by line, and every malformed-input
// path returns an
// error rather than exiting the process: a puzzle's shape isn't fixed at
// compile time, so callers need to report bad input to their own users,
// not crash.
//
// Format:
//
//	5x5
//	ink
//	ROWS
//	1
//	1
//	5
//	1
//	1
//	COLS
//	1
//	1
//	5
//	1
//	1
//
// The palette line lists ink color names, comma-separated ("red,blue" for
// a two-ink puzzle). Each clue line is a comma-separated run list; a run is
// either a bare length (accepted only when the palette has a single ink
// color, which it then uses) or "length:colorname". A clue line holding
// just "-" means no runs on that line (an all-space row or column); blank
// lines are skipped everywhere.
package textformat

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/palette"
)

// Load reads a puzzle from r and builds a *board.Board from it.
func Load(r io.Reader) (*board.Board, error) {
	scanner := bufio.NewScanner(r)
	lines, err := nonBlankLines(scanner)
	if err != nil {
		return nil, fmt.Errorf("textformat: reading input: %w", err)
	}
	if len(lines) < 3 {
		return nil, fmt.Errorf("textformat: expected at least a dimensions line, a palette line, and a ROWS section, got %d lines", len(lines))
	}

	h, w, err := parseDimensions(lines[0])
	if err != nil {
		return nil, err
	}

	names := strings.Split(lines[1], ",")
	for i, n := range names {
		names[i] = strings.TrimSpace(n)
	}
	pal, err := palette.New(names...)
	if err != nil {
		return nil, fmt.Errorf("textformat: palette line %q: %w", lines[1], err)
	}

	sections, err := splitSections(lines[2:])
	if err != nil {
		return nil, err
	}
	if len(sections["ROWS"]) != h {
		return nil, fmt.Errorf("textformat: ROWS section has %d lines, want %d (board height)", len(sections["ROWS"]), h)
	}
	if len(sections["COLS"]) != w {
		return nil, fmt.Errorf("textformat: COLS section has %d lines, want %d (board width)", len(sections["COLS"]), w)
	}

	rowClues, err := parseClueLines(sections["ROWS"], pal)
	if err != nil {
		return nil, fmt.Errorf("textformat: row clues: %w", err)
	}
	colClues, err := parseClueLines(sections["COLS"], pal)
	if err != nil {
		return nil, fmt.Errorf("textformat: column clues: %w", err)
	}

	b, err := board.New(h, w, pal, rowClues, colClues)
	if err != nil {
		return nil, fmt.Errorf("textformat: %w", err)
	}
	return b, nil
}

func nonBlankLines(scanner *bufio.Scanner) ([]string, error) {
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func parseDimensions(line string) (h, w int, err error) {
	parts := strings.SplitN(line, "x", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("textformat: dimensions line %q must look like \"HxW\"", line)
	}
	h, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("textformat: dimensions line %q: bad height: %w", line, err)
	}
	w, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("textformat: dimensions line %q: bad width: %w", line, err)
	}
	return h, w, nil
}

// splitSections partitions lines into named sections starting at a bare
// "ROWS" or "COLS" header line.
func splitSections(lines []string) (map[string][]string, error) {
	sections := map[string][]string{}
	var current string
	for _, line := range lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		if upper == "ROWS" || upper == "COLS" {
			current = upper
			if _, exists := sections[current]; exists {
				return nil, fmt.Errorf("textformat: duplicate %s section", current)
			}
			sections[current] = nil
			continue
		}
		if current == "" {
			return nil, fmt.Errorf("textformat: clue line %q appears before a ROWS or COLS header", line)
		}
		sections[current] = append(sections[current], line)
	}
	if sections["ROWS"] == nil {
		return nil, fmt.Errorf("textformat: missing ROWS section")
	}
	if sections["COLS"] == nil {
		return nil, fmt.Errorf("textformat: missing COLS section")
	}
	return sections, nil
}

func parseClueLines(lines []string, pal *palette.Palette) ([]board.Line, error) {
	out := make([]board.Line, len(lines))
	for i, line := range lines {
		clue, err := parseClueLine(line, pal)
		if err != nil {
			return nil, fmt.Errorf("line %d (%q): %w", i, line, err)
		}
		out[i] = clue
	}
	return out, nil
}

// emptyClue is the sentinel a clue line uses to mean "no runs" (an
// all-space line), distinct from a missing/blank input line.
const emptyClue = "-"

func parseClueLine(line string, pal *palette.Palette) (board.Line, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == emptyClue {
		return board.Line{}, nil
	}
	runs := strings.Split(trimmed, ",")
	clue := make(board.Line, 0, len(runs))
	for _, run := range runs {
		run = strings.TrimSpace(run)
		length, colorName, ok := strings.Cut(run, ":")
		n, err := strconv.Atoi(strings.TrimSpace(length))
		if err != nil {
			return nil, fmt.Errorf("run %q: bad length: %w", run, err)
		}
		var color palette.Color
		if ok {
			color, err = colorByName(pal, strings.TrimSpace(colorName))
			if err != nil {
				return nil, err
			}
		} else {
			if len(pal.Colors) != 1 {
				return nil, fmt.Errorf("run %q: a multi-color palette requires \"length:colorname\"", run)
			}
			color = pal.Colors[0].Color
		}
		clue = append(clue, board.Clue{Length: n, Color: color})
	}
	return clue, nil
}

func colorByName(pal *palette.Palette, name string) (palette.Color, error) {
	for _, e := range pal.Colors {
		if e.Name == name {
			return e.Color, nil
		}
	}
	return 0, fmt.Errorf("unknown color %q", name)
}
