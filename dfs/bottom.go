package dfs

import (
	"strconv"

	"github.com/katalvlaran/ltlcert/core"
)

// IsBottom reports whether no edge of g leaves component i.
//
// Complexity: O(Σ out-degree of the component).
func IsBottom(g *core.Graph, res *SCCResult, i int) (bool, error) {
	if g == nil {
		return false, ErrGraphNil
	}
	if res == nil || i < 0 || i >= len(res.Components) {
		return false, ErrComponentOutOfRange
	}
	for _, v := range res.Components[i] {
		succ, err := g.NeighborIDs(v)
		if err != nil {
			return false, err
		}
		for _, w := range succ {
			if c, ok := res.ComponentOf[w]; ok && c != i {
				return false, nil
			}
		}
	}

	return true, nil
}

// Bottom returns the indexes of all bottom components in ascending order.
func Bottom(g *core.Graph, res *SCCResult) ([]int, error) {
	if res == nil {
		return nil, ErrComponentOutOfRange
	}
	var out []int
	for i := range res.Components {
		ok, err := IsBottom(g, res, i)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, i)
		}
	}

	return out, nil
}

// Condense builds the component DAG of g: vertex "i" stands for component i
// and one edge links i→j whenever some edge of g leads from i into j ≠ i.
func Condense(g *core.Graph, res *SCCResult) (*core.Graph, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if res == nil {
		return nil, ErrComponentOutOfRange
	}
	dag := core.NewGraph()
	for i := range res.Components {
		if err := dag.AddVertex(strconv.Itoa(i)); err != nil {
			return nil, err
		}
	}
	for _, e := range g.Edges() {
		ci, okFrom := res.ComponentOf[e.From]
		cj, okTo := res.ComponentOf[e.To]
		if !okFrom || !okTo || ci == cj {
			continue
		}
		from, to := strconv.Itoa(ci), strconv.Itoa(cj)
		if dag.HasEdge(from, to) {
			continue
		}
		if _, err := dag.AddEdge(from, to, ""); err != nil {
			return nil, err
		}
	}

	return dag, nil
}
