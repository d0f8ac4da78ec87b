// Package httpapi is the HTTP front door: it decodes a puzzle from JSON,
// runs internal/nono.Solve, optionally consults internal/store for a
// cached result, and reports a JSON response. None of it is reachable from
// internal/board, internal/line, internal/propagate, internal/probe,
// internal/search, or internal/nono.
//
// RegisterRoutes attaches /health at the root and the solver route under an
// /api group, responds with c.JSON(status, gin.H{...}), and validates
// request bodies, returning 400 with a structured error body rather than
// panicking.
package httpapi

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kprice/nonogram/internal/board"
	"github.com/kprice/nonogram/internal/nono"
	"github.com/kprice/nonogram/internal/palette"
	"github.com/kprice/nonogram/internal/store"
)

// Cache is the subset of *store.Store httpapi depends on, so handlers can
// be tested against a fake.
type Cache interface {
	Get(fingerprint string) (store.Result, bool, error)
	Put(fingerprint string, result store.Result) error
}

// Server holds the dependencies RegisterRoutes's handlers close over.
// A nil Cache disables result caching entirely.
type Server struct {
	Cache Cache
}

// RegisterRoutes attaches the solver API to r under /api.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", healthHandler)

	api := r.Group("/api")
	{
		api.POST("/solve", s.solveHandler)
	}
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// clueRequest is the wire shape of one row or column clue: parallel arrays
// of run length and color name.
type clueRequest struct {
	Lengths []int    `json:"lengths"`
	Colors  []string `json:"colors"`
}

// solveRequest is the JSON body POST /api/solve expects.
type solveRequest struct {
	Height       int           `json:"height"`
	Width        int           `json:"width"`
	Palette      []string      `json:"palette"`
	RowClues     []clueRequest `json:"row_clues"`
	ColClues     []clueRequest `json:"col_clues"`
	MaxSolutions int           `json:"max_solutions"`
	TimeoutMS    int           `json:"timeout_ms"`
}

type boardResponse struct {
	Height int      `json:"height"`
	Width  int      `json:"width"`
	Cells  []string `json:"cells"`
}

type solveResponse struct {
	Status      string          `json:"status"`
	Boards      []boardResponse `json:"boards"`
	ElapsedMS   int64           `json:"elapsed_ms"`
	ProbeRounds int             `json:"probe_rounds"`
	SearchNodes int             `json:"search_nodes"`
	Cached      bool            `json:"cached"`
}

func (s *Server) solveHandler(c *gin.Context) {
	var req solveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, pal, err := buildBoard(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fingerprint := fingerprintRequest(req)
	if s.Cache != nil {
		if cached, ok, err := s.Cache.Get(fingerprint); err == nil && ok {
			c.JSON(http.StatusOK, solveResponse{
				Status:    cached.Status,
				Boards:    boardsFromCache(cached.Boards),
				ElapsedMS: cached.ElapsedMS,
				Cached:    true,
			})
			return
		}
	}

	opts := nono.Options{MaxSolutions: req.MaxSolutions}
	if req.TimeoutMS > 0 {
		opts.Timeout = time.Duration(req.TimeoutMS) * time.Millisecond
	}
	result := nono.Solve(b, opts)

	boards := make([]boardResponse, len(result.Boards))
	for i, sol := range result.Boards {
		boards[i] = boardToResponse(sol, pal)
	}

	if s.Cache != nil {
		_ = s.Cache.Put(fingerprint, store.Result{
			Status:    result.Status.String(),
			Boards:    cacheBoardsFromResponse(boards),
			ElapsedMS: result.Elapsed.Milliseconds(),
		})
	}

	c.JSON(http.StatusOK, solveResponse{
		Status:      result.Status.String(),
		Boards:      boards,
		ElapsedMS:   result.Elapsed.Milliseconds(),
		ProbeRounds: result.ProbeRounds,
		SearchNodes: result.SearchNodes,
	})
}

func buildBoard(req solveRequest) (*board.Board, *palette.Palette, error) {
	pal, err := palette.New(req.Palette...)
	if err != nil {
		return nil, nil, err
	}
	rowClues, err := decodeClues(req.RowClues, pal)
	if err != nil {
		return nil, nil, err
	}
	colClues, err := decodeClues(req.ColClues, pal)
	if err != nil {
		return nil, nil, err
	}
	b, err := board.New(req.Height, req.Width, pal, rowClues, colClues)
	if err != nil {
		return nil, nil, err
	}
	return b, pal, nil
}

func decodeClues(reqs []clueRequest, pal *palette.Palette) ([]board.Line, error) {
	lines := make([]board.Line, len(reqs))
	for i, r := range reqs {
		if len(r.Colors) != len(r.Lengths) {
			return nil, &mismatchedClueError{lengths: len(r.Lengths), colors: len(r.Colors)}
		}
		line := make(board.Line, len(r.Lengths))
		for j, length := range r.Lengths {
			color, err := colorByName(pal, r.Colors[j])
			if err != nil {
				return nil, err
			}
			line[j] = board.Clue{Length: length, Color: color}
		}
		lines[i] = line
	}
	return lines, nil
}

type mismatchedClueError struct{ lengths, colors int }

func (e *mismatchedClueError) Error() string {
	return "httpapi: clue has " + strconv.Itoa(e.lengths) + " lengths but " + strconv.Itoa(e.colors) + " colors"
}

func colorByName(pal *palette.Palette, name string) (palette.Color, error) {
	for _, e := range pal.Colors {
		if e.Name == name {
			return e.Color, nil
		}
	}
	return 0, &unknownColorError{name: name}
}

type unknownColorError struct{ name string }

func (e *unknownColorError) Error() string { return "httpapi: unknown color " + e.name }

func boardToResponse(b *board.Board, pal *palette.Palette) boardResponse {
	cells := make([]string, 0, b.H*b.W)
	for r := range b.H {
		for c := range b.W {
			cells = append(cells, cellName(b.Get(r, c), pal))
		}
	}
	return boardResponse{Height: b.H, Width: b.W, Cells: cells}
}

func cellName(m palette.Mask, pal *palette.Palette) string {
	if !palette.IsResolved(m) {
		return "unknown"
	}
	colors := palette.Colors(m)
	if colors[0] == palette.Space {
		return "space"
	}
	return pal.Name(colors[0])
}

func boardsFromCache(cached []store.BoardJSON) []boardResponse {
	out := make([]boardResponse, len(cached))
	for i, b := range cached {
		out[i] = boardResponse{Height: b.H, Width: b.W, Cells: b.Cells}
	}
	return out
}

func cacheBoardsFromResponse(resp []boardResponse) []store.BoardJSON {
	out := make([]store.BoardJSON, len(resp))
	for i, b := range resp {
		out[i] = store.BoardJSON{H: b.Height, W: b.Width, Cells: b.Cells}
	}
	return out
}

// fingerprintRequest hashes the puzzle-defining fields of req (not
// MaxSolutions/TimeoutMS, which don't change what the puzzle is) so
// identical puzzles share a cache entry regardless of solve budget.
func fingerprintRequest(req solveRequest) string {
	canon := struct {
		Height   int
		Width    int
		Palette  []string
		RowClues []clueRequest
		ColClues []clueRequest
	}{req.Height, req.Width, append([]string(nil), req.Palette...), req.RowClues, req.ColClues}
	sort.Strings(canon.Palette)

	encoded, _ := json.Marshal(canon)
	sum := sha256.Sum256(encoded)
	return hex.EncodeToString(sum[:])
}
