package bfs

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/ltlcert/core"
)

// ErrNeighbors is returned when fetching neighbors from the graph fails.
var ErrNeighbors = errors.New("bfs: neighbor iteration error")

// Reach runs a multi-source breadth-first search: every source starts at
// depth 0 and the result covers every vertex reachable from any of them
// (or, under WithReverse, every vertex that reaches one of them).
//
// The search proceeds layer by layer; a layer is fully visited before the
// next one is expanded, so Order is non-decreasing in Depth.
func Reach(g *core.Graph, sources []string, opts ...Option) (*BFSResult, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	for _, id := range sources {
		if !g.HasVertex(id) {
			return nil, fmt.Errorf("%w: %q", ErrStartVertexNotFound, id)
		}
	}

	n := g.VertexCount()
	res := &BFSResult{
		Order:  make([]string, 0, n),
		Depth:  make(map[string]int, n),
		Parent: make(map[string]string, n),
	}
	var layer []string
	for _, id := range sources {
		if _, seen := res.Depth[id]; !seen {
			res.Depth[id] = 0
			layer = append(layer, id)
		}
	}

	next := o.successors(g)
	for depth := 0; len(layer) > 0; depth++ {
		var frontier []string
		for _, id := range layer {
			if err := o.Ctx.Err(); err != nil {
				return res, err
			}
			res.Order = append(res.Order, id)
			nbrs, err := next(id)
			if err != nil {
				return res, fmt.Errorf("%w: %q: %v", ErrNeighbors, id, err)
			}
			for _, nbr := range nbrs {
				if _, seen := res.Depth[nbr]; seen {
					continue
				}
				res.Depth[nbr] = depth + 1
				res.Parent[nbr] = id
				frontier = append(frontier, nbr)
			}
		}
		layer = frontier
	}

	return res, nil
}

// successors picks the adjacency lookup for the search direction.
func (o BFSOptions) successors(g *core.Graph) func(string) ([]string, error) {
	if o.Reverse {
		return g.PredecessorIDs
	}

	return g.NeighborIDs
}
