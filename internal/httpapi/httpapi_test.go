package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kprice/nonogram/internal/store"
)

func setupRouter(s *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	s.RegisterRoutes(r)
	return r
}

func TestHealthHandler(t *testing.T) {
	router := setupRouter(&Server{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func plusBoardRequest() solveRequest {
	row := clueRequest{Lengths: []int{1}, Colors: []string{"ink"}}
	mid := clueRequest{Lengths: []int{5}, Colors: []string{"ink"}}
	return solveRequest{
		Height:  5,
		Width:   5,
		Palette: []string{"ink"},
		RowClues: []clueRequest{row, row, mid, row, row},
		ColClues: []clueRequest{row, row, mid, row, row},
	}
}

func TestSolveHandlerSolvesPlusBoard(t *testing.T) {
	router := setupRouter(&Server{})

	body, _ := json.Marshal(plusBoardRequest())
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/solve", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp solveResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Status != "solved-unique" {
		t.Errorf("status = %q, want solved-unique", resp.Status)
	}
	if len(resp.Boards) != 1 || len(resp.Boards[0].Cells) != 25 {
		t.Fatalf("boards = %+v", resp.Boards)
	}
}

func TestSolveHandlerRejectsMalformedJSON(t *testing.T) {
	router := setupRouter(&Server{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/solve", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestSolveHandlerRejectsUnknownPaletteColor(t *testing.T) {
	router := setupRouter(&Server{})

	req := plusBoardRequest()
	req.RowClues[0].Colors[0] = "mauve"
	body, _ := json.Marshal(req)

	w := httptest.NewRecorder()
	httpReq, _ := http.NewRequest("POST", "/api/solve", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body = %s", w.Code, w.Body.String())
	}
}

type fakeCache struct {
	entries map[string]store.Result
	gets    int
	puts    int
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string]store.Result{}} }

func (f *fakeCache) Get(fingerprint string) (store.Result, bool, error) {
	f.gets++
	r, ok := f.entries[fingerprint]
	return r, ok, nil
}

func (f *fakeCache) Put(fingerprint string, result store.Result) error {
	f.puts++
	f.entries[fingerprint] = result
	return nil
}

func TestSolveHandlerPopulatesAndReusesCache(t *testing.T) {
	cache := newFakeCache()
	router := setupRouter(&Server{Cache: cache})

	body, _ := json.Marshal(plusBoardRequest())

	w1 := httptest.NewRecorder()
	req1, _ := http.NewRequest("POST", "/api/solve", bytes.NewReader(body))
	req1.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w1, req1)

	var first solveResponse
	if err := json.Unmarshal(w1.Body.Bytes(), &first); err != nil {
		t.Fatalf("decoding first response: %v", err)
	}
	if first.Cached {
		t.Fatal("first request must not be served from an empty cache")
	}
	if cache.puts != 1 {
		t.Fatalf("puts = %d, want 1", cache.puts)
	}

	w2 := httptest.NewRecorder()
	req2, _ := http.NewRequest("POST", "/api/solve", bytes.NewReader(body))
	req2.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w2, req2)

	var second solveResponse
	if err := json.Unmarshal(w2.Body.Bytes(), &second); err != nil {
		t.Fatalf("decoding second response: %v", err)
	}
	if !second.Cached {
		t.Error("second identical request should be served from the cache")
	}
	if second.Status != first.Status {
		t.Errorf("cached status = %q, want %q", second.Status, first.Status)
	}
}
