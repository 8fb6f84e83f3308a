package core_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ltlcert/core"
)

func TestAddVertex(t *testing.T) {
	g := core.NewGraph()
	assert.ErrorIs(t, g.AddVertex(""), core.ErrEmptyVertexID)
	require.NoError(t, g.AddVertex("q0"))
	require.NoError(t, g.AddVertex("q0")) // idempotent
	assert.True(t, g.HasVertex("q0"))
	assert.False(t, g.HasVertex(""))
	assert.Equal(t, 1, g.VertexCount())
}

func TestAddEdge_Constraints(t *testing.T) {
	g := core.NewGraph()
	_, err := g.AddEdge("a", "a", "")
	assert.ErrorIs(t, err, core.ErrLoopNotAllowed)

	_, err = g.AddEdge("a", "b", "x")
	require.NoError(t, err)
	_, err = g.AddEdge("a", "b", "y")
	assert.ErrorIs(t, err, core.ErrMultiEdgeNotAllowed)

	_, err = g.AddEdge("", "b", "")
	assert.ErrorIs(t, err, core.ErrEmptyVertexID)
}

func TestMultigraph_LabelsAndOrder(t *testing.T) {
	g := core.NewGraph(core.WithLoops(), core.WithMultiEdges())
	for i := 0; i < 11; i++ {
		_, err := g.AddEdge("0", "1", "g")
		require.NoError(t, err)
	}
	loop, err := g.AddEdge("1", "1", "t")
	require.NoError(t, err)
	assert.Equal(t, "e12", loop)
	assert.Equal(t, 12, g.EdgeCount())
	assert.True(t, g.HasEdge("1", "1"))
	assert.False(t, g.HasEdge("1", "0"))

	es := g.Edges()
	require.Len(t, es, 12)
	assert.Equal(t, "e1", es[0].ID)
	assert.Equal(t, "e2", es[1].ID)
	assert.Equal(t, "e11", es[10].ID)
	assert.Equal(t, "t", es[11].Label)

	// parallel edges collapse to one successor
	succ, err := g.NeighborIDs("0")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, succ)
	pred, err := g.PredecessorIDs("1")
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, pred)
}

func TestNeighborAndPredecessorIDs(t *testing.T) {
	g := core.NewGraph(core.WithMultiEdges())
	for _, e := range [][2]string{{"2", "10"}, {"2", "9"}, {"2", "9"}, {"10", "9"}} {
		_, err := g.AddEdge(e[0], e[1], "")
		require.NoError(t, err)
	}
	succ, err := g.NeighborIDs("2")
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10"}, succ)

	pred, err := g.PredecessorIDs("9")
	require.NoError(t, err)
	assert.Equal(t, []string{"2", "10"}, pred)

	assert.Equal(t, []string{"2", "9", "10"}, g.Vertices())

	_, err = g.NeighborIDs("missing")
	assert.ErrorIs(t, err, core.ErrVertexNotFound)
	_, err = g.PredecessorIDs("missing")
	assert.ErrorIs(t, err, core.ErrVertexNotFound)

	// AddVertex alone leaves no successors behind
	require.NoError(t, g.AddVertex("lone"))
	succ, err = g.NeighborIDs("lone")
	require.NoError(t, err)
	assert.Empty(t, succ)
}

func TestConcurrentAddEdge(t *testing.T) {
	g := core.NewGraph(core.WithMultiEdges())
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, _ = g.AddEdge("s", "t", "")
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 400, g.EdgeCount())
}

func TestLessID(t *testing.T) {
	ids := []string{"q10", "q2", "b", "a", "10", "9"}
	core.SortIDs(ids)
	assert.Equal(t, []string{"9", "10", "a", "b", "q2", "q10"}, ids)
}
