package bfs

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for BFS execution.
var (
	// ErrStartVertexNotFound is returned when a start ID is absent.
	ErrStartVertexNotFound = errors.New("bfs: start vertex not found")

	// ErrNoSources is returned when Reach is called without start vertices.
	ErrNoSources = errors.New("bfs: no start vertices")

	// ErrGraphNil is returned if a nil graph pointer is passed.
	ErrGraphNil = errors.New("bfs: graph is nil")
)

// Option mutates BFSOptions.
type Option func(*BFSOptions)

// BFSOptions configures a search.
type BFSOptions struct {
	Ctx context.Context

	// Reverse follows incoming edges.
	Reverse bool
}

// DefaultOptions returns a forward search.
func DefaultOptions() BFSOptions {
	return BFSOptions{Ctx: context.Background()}
}

// WithContext cancels the search when ctx is done.
func WithContext(ctx context.Context) Option {
	return func(o *BFSOptions) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithReverse makes the search follow incoming edges.
func WithReverse() Option {
	return func(o *BFSOptions) { o.Reverse = true }
}

// BFSResult is the outcome of a search. Depth holds the edge distance from
// the nearest source and Parent the vertex each one was discovered from;
// sources have no parent.
type BFSResult struct {
	Order  []string
	Depth  map[string]int
	Parent map[string]string
}

// Reached reports whether id was visited.
func (r *BFSResult) Reached(id string) bool {
	_, ok := r.Depth[id]

	return ok
}

// PathTo walks Parent links back from dest and returns the path starting
// at its source. After a reverse search the path runs against edge
// direction.
func (r *BFSResult) PathTo(dest string) ([]string, error) {
	d, ok := r.Depth[dest]
	if !ok {
		return nil, fmt.Errorf("bfs: no path to %q", dest)
	}
	path := make([]string, d+1)
	for cur, i := dest, d; i >= 0; i-- {
		path[i] = cur
		cur = r.Parent[cur]
	}

	return path, nil
}
