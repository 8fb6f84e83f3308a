package dfs_test

import (
	"fmt"

	"github.com/katalvlaran/ltlcert/core"
	"github.com/katalvlaran/ltlcert/dfs"
)

// ExampleStronglyConnected decomposes a small automaton skeleton:
//
//	0 → 1 ⇄ 2 → 3 ↺
func ExampleStronglyConnected() {
	g := core.NewGraph(core.WithLoops())
	for _, e := range [][2]string{{"0", "1"}, {"1", "2"}, {"2", "1"}, {"2", "3"}, {"3", "3"}} {
		_, _ = g.AddEdge(e[0], e[1], "")
	}
	res, _ := dfs.StronglyConnected(g)
	for i, c := range res.Components {
		bottom, _ := dfs.IsBottom(g, res, i)
		fmt.Println(c, bottom)
	}
	// Output:
	// [3] true
	// [1 2] false
	// [0] false
}
