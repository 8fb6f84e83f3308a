package dfs

import (
	"fmt"

	"github.com/katalvlaran/ltlcert/core"
)

// frame is one activation of the Tarjan walk: the vertex, its successors and
// the index of the next successor to examine.
type frame struct {
	v    string
	succ []string
	next int
}

// tarjan holds the mutable bookkeeping of one decomposition.
type tarjan struct {
	graph   *core.Graph
	opts    DFSOptions
	counter int
	index   map[string]int
	low     map[string]int
	onStack map[string]bool
	stack   []string
	res     *SCCResult
}

// StronglyConnected decomposes g into strongly connected components using an
// iterative Tarjan walk. Roots are taken in natural vertex order, so the
// output is deterministic.
func StronglyConnected(g *core.Graph, opts ...Option) (*SCCResult, error) {
	// 1. Validate input graph
	if g == nil {
		return nil, ErrGraphNil
	}

	// 2. Apply options
	dopts := DefaultOptions()
	for _, fn := range opts {
		fn(&dopts)
	}

	// 3. Initialize bookkeeping with capacity hints
	vertices := g.Vertices()
	n := len(vertices)
	t := &tarjan{
		graph:   g,
		opts:    dopts,
		index:   make(map[string]int, n),
		low:     make(map[string]int, n),
		onStack: make(map[string]bool, n),
		stack:   make([]string, 0, n),
		res:     &SCCResult{ComponentOf: make(map[string]int, n)},
	}

	// 4. Walk from every unindexed root
	for _, root := range vertices {
		if _, seen := t.index[root]; seen {
			continue
		}
		if err := t.walk(root); err != nil {
			return nil, err
		}
	}

	return t.res, nil
}

// successors returns the distinct successors of v.
func (t *tarjan) successors(v string) ([]string, error) {
	ids, err := t.graph.NeighborIDs(v)
	if err != nil {
		return nil, fmt.Errorf("dfs: NeighborIDs(%q): %w", v, err)
	}

	return ids, nil
}

// visit assigns v its discovery index and pushes it onto the Tarjan stack.
func (t *tarjan) visit(v string) (frame, error) {
	t.index[v] = t.counter
	t.low[v] = t.counter
	t.counter++
	t.stack = append(t.stack, v)
	t.onStack[v] = true
	succ, err := t.successors(v)

	return frame{v: v, succ: succ}, err
}

func (t *tarjan) walk(root string) error {
	f, err := t.visit(root)
	if err != nil {
		return err
	}
	frames := []frame{f}

	for len(frames) > 0 {
		// 1. Cancellation check
		select {
		case <-t.opts.Ctx.Done():
			return t.opts.Ctx.Err()
		default:
		}

		top := &frames[len(frames)-1]

		// 2. Advance to the next successor, descending into unindexed ones
		if top.next < len(top.succ) {
			w := top.succ[top.next]
			top.next++
			if _, seen := t.index[w]; !seen {
				child, err := t.visit(w)
				if err != nil {
					return err
				}
				frames = append(frames, child)
				continue
			}
			if t.onStack[w] && t.index[w] < t.low[top.v] {
				t.low[top.v] = t.index[w]
			}
			continue
		}

		// 3. All successors done: emit a component if v is its root
		v := top.v
		if t.low[v] == t.index[v] {
			t.emit(v)
		}

		// 4. Pop the frame and propagate lowlink to the parent
		frames = frames[:len(frames)-1]
		if len(frames) > 0 {
			parent := frames[len(frames)-1].v
			if t.low[v] < t.low[parent] {
				t.low[parent] = t.low[v]
			}
		}
	}

	return nil
}

// emit pops the Tarjan stack down to root and records the component.
func (t *tarjan) emit(root string) {
	id := len(t.res.Components)
	var comp []string
	for {
		n := len(t.stack) - 1
		w := t.stack[n]
		t.stack = t.stack[:n]
		t.onStack[w] = false
		t.res.ComponentOf[w] = id
		comp = append(comp, w)
		if w == root {
			break
		}
	}
	core.SortIDs(comp)
	t.res.Components = append(t.res.Components, comp)
}
