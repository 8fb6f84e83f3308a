// Package store keeps a history of pipeline runs.
//
// SQLiteStore persists runs with the pure-Go modernc.org/sqlite driver;
// MemoryStore serves tests and runs without --db. Both must be Init'ed before
// use and are safe for concurrent callers.
package store

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for run storage.
var (
	// ErrNotInitialized indicates a call before Init or after Close.
	ErrNotInitialized = errors.New("store: not initialized")

	// ErrNoPath indicates a SQLiteStore without a database path.
	ErrNoPath = errors.New("store: sqlite path is required")
)

// Run is one pipeline execution.
type Run struct {
	ID           string
	Input        string
	Formula      string
	Stage        string
	Status       string
	Verdict      string
	Error        string
	OutDir       string
	Implications int
	Constants    int
	Counts       map[string]int
	Model        map[string]string
	Started      time.Time
	Finished     time.Time
}

// Store persists runs.
type Store interface {
	Init(ctx context.Context) error
	SaveRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, bool, error)
	// ListRuns returns up to limit runs, most recently started first;
	// limit <= 0 returns all.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
	Close() error
}
