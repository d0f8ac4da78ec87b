// Package store is an optional result cache for internal/httpapi: it keys
// a solved puzzle's outcome by a fingerprint of its clue tables, so that
// repeated requests for the same puzzle skip the solver entirely. It is
// never imported by the core packages (internal/board, internal/line,
// internal/propagate, internal/probe, internal/search, internal/nono),
// and nothing here mutates a board or influences a solve.
//
// The schema is a schema-version table plus a CREATE TABLE IF NOT EXISTS
// bundle of plain SQL, guarded by a single *sql.DB behind a mutex. Writes
// go straight through rather than batching, since a solve result cache has
// no continuous write stream to amortize.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS solve_results (
	fingerprint  TEXT PRIMARY KEY,
	status       TEXT NOT NULL,
	boards_json  TEXT NOT NULL,
	elapsed_ms   INTEGER NOT NULL,
	created_at   INTEGER NOT NULL
);
`

// Result is the cached outcome of one Solve call, serialized independently
// of internal/nono.Result so the cache's on-disk shape doesn't have to
// track the solver's internal types.
type Result struct {
	Status    string
	Boards    []BoardJSON
	ElapsedMS int64
}

// BoardJSON is a plain, serializable snapshot of a solved board: a flat
// grid of resolved color names, row-major.
type BoardJSON struct {
	H, W  int
	Cells []string
}

// Store is a SQLite-backed cache of Result, one row per puzzle
// fingerprint.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates (if necessary) and migrates the SQLite database at path,
// then returns a Store backed by it. path may be ":memory:" for a
// process-local cache with no file on disk.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // modernc.org/sqlite has no internal connection pool story

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: applying schema: %w", err)
	}
	row := s.db.QueryRow(`SELECT version FROM schema_version LIMIT 1`)
	var version int
	switch err := row.Scan(&version); err {
	case sql.ErrNoRows:
		if _, err := s.db.Exec(`INSERT INTO schema_version (version) VALUES (?)`, schemaVersion); err != nil {
			return fmt.Errorf("store: recording schema version: %w", err)
		}
	case nil:
		if version != schemaVersion {
			return fmt.Errorf("store: on-disk schema version %d does not match %d", version, schemaVersion)
		}
	default:
		return fmt.Errorf("store: reading schema version: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Get returns the cached Result for fingerprint, if any.
func (s *Store) Get(fingerprint string) (Result, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(
		`SELECT status, boards_json, elapsed_ms FROM solve_results WHERE fingerprint = ?`,
		fingerprint)
	var status, boardsJSON string
	var elapsedMS int64
	switch err := row.Scan(&status, &boardsJSON, &elapsedMS); err {
	case sql.ErrNoRows:
		return Result{}, false, nil
	case nil:
		// fall through
	default:
		return Result{}, false, fmt.Errorf("store: reading %s: %w", fingerprint, err)
	}

	var boards []BoardJSON
	if err := json.Unmarshal([]byte(boardsJSON), &boards); err != nil {
		return Result{}, false, fmt.Errorf("store: decoding cached boards for %s: %w", fingerprint, err)
	}
	return Result{Status: status, Boards: boards, ElapsedMS: elapsedMS}, true, nil
}

// Put stores result under fingerprint, overwriting any prior entry.
func (s *Store) Put(fingerprint string, result Result) error {
	boardsJSON, err := json.Marshal(result.Boards)
	if err != nil {
		return fmt.Errorf("store: encoding boards for %s: %w", fingerprint, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(
		`INSERT INTO solve_results (fingerprint, status, boards_json, elapsed_ms, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(fingerprint) DO UPDATE SET
			status = excluded.status,
			boards_json = excluded.boards_json,
			elapsed_ms = excluded.elapsed_ms,
			created_at = excluded.created_at`,
		fingerprint, result.Status, string(boardsJSON), result.ElapsedMS, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("store: writing %s: %w", fingerprint, err)
	}
	return nil
}
