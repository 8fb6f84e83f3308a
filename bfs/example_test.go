package bfs_test

import (
	"fmt"

	"github.com/katalvlaran/ltlcert/bfs"
	"github.com/katalvlaran/ltlcert/core"
)

// ExampleReach finds every state that can reach state 2.
func ExampleReach() {
	g := core.NewGraph(core.WithLoops())
	for _, e := range [][2]string{{"0", "1"}, {"1", "2"}, {"2", "2"}, {"0", "3"}} {
		_, _ = g.AddEdge(e[0], e[1], "")
	}
	res, _ := bfs.Reach(g, []string{"2"}, bfs.WithReverse())
	fmt.Println(res.Order)
	// Output:
	// [2 1 0]
}
