package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps runs in a map.
type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	runs        map[string]Run
}

// NewMemoryStore returns an uninitialized MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Init resets the store.
func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = true
	s.runs = make(map[string]Run)

	return nil
}

// SaveRun inserts or replaces run.
func (s *MemoryStore) SaveRun(_ context.Context, run Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return ErrNotInitialized
	}
	s.runs[run.ID] = cloneRun(run)

	return nil
}

// GetRun returns the run with id.
func (s *MemoryStore) GetRun(_ context.Context, id string) (Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return Run{}, false, ErrNotInitialized
	}
	run, ok := s.runs[id]
	if !ok {
		return Run{}, false, nil
	}

	return cloneRun(run), true, nil
}

// ListRuns returns runs by descending start time.
func (s *MemoryStore) ListRuns(_ context.Context, limit int) ([]Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := make([]Run, 0, len(s.runs))
	for _, r := range s.runs {
		out = append(out, cloneRun(r))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Started.Equal(out[j].Started) {
			return out[i].Started.After(out[j].Started)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// Close drops every run.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initialized = false
	s.runs = nil

	return nil
}

func cloneRun(r Run) Run {
	if r.Counts != nil {
		cp := make(map[string]int, len(r.Counts))
		for k, v := range r.Counts {
			cp[k] = v
		}
		r.Counts = cp
	}
	if r.Model != nil {
		cp := make(map[string]string, len(r.Model))
		for k, v := range r.Model {
			cp[k] = v
		}
		r.Model = cp
	}

	return r
}
