package dfs

import (
	"context"
	"errors"
)

var (
	// ErrGraphNil is returned when a nil *core.Graph is passed.
	ErrGraphNil = errors.New("dfs: graph is nil")

	// ErrComponentOutOfRange indicates a component index outside the result.
	ErrComponentOutOfRange = errors.New("dfs: component index out of range")
)

// Option configures optional behavior of the traversal.
type Option func(*DFSOptions)

// DFSOptions holds configurable parameters for the traversal.
type DFSOptions struct {
	// Ctx allows cancellation or timeouts; defaults to context.Background().
	Ctx context.Context
}

// DefaultOptions returns DFSOptions with a background context.
func DefaultOptions() DFSOptions {
	return DFSOptions{Ctx: context.Background()}
}

// WithContext returns an Option that sets the Context for the traversal.
// Passing a nil context has no effect (Background is retained).
func WithContext(ctx context.Context) Option {
	return func(o *DFSOptions) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// SCCResult captures a strongly-connected-component decomposition.
type SCCResult struct {
	// Components lists each component's vertex IDs in natural order.
	// Components appear in reverse topological order: if an edge leads from
	// component i to component j ≠ i, then j < i.
	Components [][]string

	// ComponentOf maps every vertex ID to its index in Components.
	ComponentOf map[string]int
}

// Len returns the number of components.
func (r *SCCResult) Len() int { return len(r.Components) }
