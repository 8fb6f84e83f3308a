package dfs_test

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ltlcert/core"
	"github.com/katalvlaran/ltlcert/dfs"
)

// buildGraph creates a looped multigraph from an edge list.
func buildGraph(t *testing.T, edges [][2]string, isolated ...string) *core.Graph {
	t.Helper()
	g := core.NewGraph(core.WithLoops(), core.WithMultiEdges())
	for _, v := range isolated {
		require.NoError(t, g.AddVertex(v))
	}
	for _, e := range edges {
		_, err := g.AddEdge(e[0], e[1], "")
		require.NoError(t, err)
	}

	return g
}

func TestStronglyConnected_NilGraph(t *testing.T) {
	res, err := dfs.StronglyConnected(nil)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, dfs.ErrGraphNil)
}

func TestStronglyConnected_SingleCycle(t *testing.T) {
	g := buildGraph(t, [][2]string{{"0", "1"}, {"1", "2"}, {"2", "0"}})
	res, err := dfs.StronglyConnected(g)
	require.NoError(t, err)
	require.Equal(t, 1, res.Len())
	assert.Equal(t, []string{"0", "1", "2"}, res.Components[0])
}

func TestStronglyConnected_DAGGivesSingletons(t *testing.T) {
	g := buildGraph(t, [][2]string{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}})
	res, err := dfs.StronglyConnected(g)
	require.NoError(t, err)
	require.Equal(t, 4, res.Len())
	for _, c := range res.Components {
		assert.Len(t, c, 1)
	}
	// reverse topological: sinks are emitted first
	assert.Equal(t, []string{"d"}, res.Components[0])
	assert.Less(t, res.ComponentOf["d"], res.ComponentOf["b"])
	assert.Less(t, res.ComponentOf["b"], res.ComponentOf["a"])
}

func TestStronglyConnected_Mixed(t *testing.T) {
	// 0 → 1 ⇄ 2, 1 → 3 ↺, 4 isolated
	g := buildGraph(t, [][2]string{{"0", "1"}, {"1", "2"}, {"2", "1"}, {"1", "3"}, {"3", "3"}}, "4")
	res, err := dfs.StronglyConnected(g)
	require.NoError(t, err)
	require.Equal(t, 4, res.Len())
	assert.Equal(t, res.ComponentOf["1"], res.ComponentOf["2"])
	assert.NotEqual(t, res.ComponentOf["1"], res.ComponentOf["3"])

	bottoms, err := dfs.Bottom(g, res)
	require.NoError(t, err)
	var bottomSets [][]string
	for _, i := range bottoms {
		bottomSets = append(bottomSets, res.Components[i])
	}
	assert.ElementsMatch(t, [][]string{{"3"}, {"4"}}, bottomSets)

	ok, err := dfs.IsBottom(g, res, res.ComponentOf["1"])
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = dfs.IsBottom(g, res, 99)
	assert.ErrorIs(t, err, dfs.ErrComponentOutOfRange)
}

// A long chain must not exhaust the goroutine stack.
func TestStronglyConnected_DeepChain(t *testing.T) {
	const n = 20000
	g := core.NewGraph()
	for i := 0; i < n-1; i++ {
		_, err := g.AddEdge(strconv.Itoa(i), strconv.Itoa(i+1), "")
		require.NoError(t, err)
	}
	_, err := g.AddEdge(strconv.Itoa(n-1), "0", "")
	require.NoError(t, err)

	res, err := dfs.StronglyConnected(g)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Len())
	assert.Len(t, res.Components[0], n)
}

func TestStronglyConnected_Canceled(t *testing.T) {
	g := buildGraph(t, [][2]string{{"0", "1"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := dfs.StronglyConnected(g, dfs.WithContext(ctx))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCondense(t *testing.T) {
	g := buildGraph(t, [][2]string{{"0", "1"}, {"1", "0"}, {"1", "2"}, {"0", "2"}})
	res, err := dfs.StronglyConnected(g)
	require.NoError(t, err)
	dag, err := dfs.Condense(g, res)
	require.NoError(t, err)
	assert.Equal(t, 2, dag.VertexCount())
	assert.Equal(t, 1, dag.EdgeCount())
	top := strconv.Itoa(res.ComponentOf["0"])
	sink := strconv.Itoa(res.ComponentOf["2"])
	assert.True(t, dag.HasEdge(top, sink))
}
