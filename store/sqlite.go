package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists runs in one table; counts and model are JSON payloads.
type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore returns a store for the database file at path.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Init opens the database and creates the schema. A second call is a no-op.
func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return ErrNoPath
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	s.db = db

	return nil
}

type payload struct {
	Counts map[string]int    `json:"counts,omitempty"`
	Model  map[string]string `json:"model,omitempty"`
}

// SaveRun inserts or replaces run.
func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) error {
	db, err := s.getDB()
	if err != nil {
		return err
	}
	blob, err := json.Marshal(payload{Counts: run.Counts, Model: run.Model})
	if err != nil {
		return fmt.Errorf("encode run %s: %w", run.ID, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (id, input, formula, stage, status, verdict, error, out_dir,
			implications, constants, payload, started, finished)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			input = excluded.input,
			formula = excluded.formula,
			stage = excluded.stage,
			status = excluded.status,
			verdict = excluded.verdict,
			error = excluded.error,
			out_dir = excluded.out_dir,
			implications = excluded.implications,
			constants = excluded.constants,
			payload = excluded.payload,
			started = excluded.started,
			finished = excluded.finished
	`, run.ID, run.Input, run.Formula, run.Stage, run.Status, run.Verdict, run.Error, run.OutDir,
		run.Implications, run.Constants, blob, unixNano(run.Started), unixNano(run.Finished))

	return err
}

const selectRun = `SELECT id, input, formula, stage, status, verdict, error, out_dir,
	implications, constants, payload, started, finished FROM runs`

// GetRun returns the run with id.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	run, err := scanRun(db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}

	return run, true, nil
}

// ListRuns returns runs by descending start time.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.QueryContext(ctx, selectRun+` ORDER BY started DESC, id ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}

	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil

	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, ErrNotInitialized
	}

	return s.db, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run               Run
		blob              []byte
		started, finished int64
	)
	err := sc.Scan(&run.ID, &run.Input, &run.Formula, &run.Stage, &run.Status, &run.Verdict,
		&run.Error, &run.OutDir, &run.Implications, &run.Constants, &blob, &started, &finished)
	if err != nil {
		return Run{}, err
	}
	var p payload
	if len(blob) > 0 {
		if err := json.Unmarshal(blob, &p); err != nil {
			return Run{}, fmt.Errorf("decode run %s: %w", run.ID, err)
		}
	}
	run.Counts, run.Model = p.Counts, p.Model
	run.Started, run.Finished = fromUnixNano(started), fromUnixNano(finished)

	return run, nil
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}

	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}

	return time.Unix(0, n).UTC()
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			input TEXT NOT NULL,
			formula TEXT NOT NULL,
			stage TEXT NOT NULL,
			status TEXT NOT NULL,
			verdict TEXT NOT NULL,
			error TEXT NOT NULL,
			out_dir TEXT NOT NULL,
			implications INTEGER NOT NULL,
			constants INTEGER NOT NULL,
			payload BLOB NOT NULL,
			started INTEGER NOT NULL,
			finished INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_started ON runs (started);
	`)

	return err
}
