// File: methods_adjacent.go
// Role: Successor and predecessor queries plus the private bookkeeping
//       that keeps out[][][] and in[][][] mirror images of each other.
// Concurrency:
//   - All helpers assume muEdgeAdj is held by the caller.

package core

// NeighborIDs returns the distinct successors of id in natural order.
func (g *Graph) NeighborIDs(id string) ([]string, error) {
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	ids := collectKeys(g.out[id])
	g.muEdgeAdj.RUnlock()
	SortIDs(ids)

	return ids, nil
}

// PredecessorIDs returns the distinct predecessors of id in natural order.
func (g *Graph) PredecessorIDs(id string) ([]string, error) {
	if !g.HasVertex(id) {
		return nil, ErrVertexNotFound
	}
	g.muEdgeAdj.RLock()
	ids := collectKeys(g.in[id])
	g.muEdgeAdj.RUnlock()
	SortIDs(ids)

	return ids, nil
}

// collectKeys lists the peers that still hold at least one edge.
func collectKeys(buckets map[string]map[string]struct{}) []string {
	ids := make([]string, 0, len(buckets))
	for peer, bucket := range buckets {
		if len(bucket) > 0 {
			ids = append(ids, peer)
		}
	}

	return ids
}

// ensureAdjacency allocates the out[from][to] and in[to][from] buckets.
func ensureAdjacency(g *Graph, from, to string) {
	if g.out[from] == nil {
		g.out[from] = make(map[string]map[string]struct{})
	}
	if g.out[to] == nil {
		g.out[to] = make(map[string]map[string]struct{})
	}
	if g.in[from] == nil {
		g.in[from] = make(map[string]map[string]struct{})
	}
	if g.in[to] == nil {
		g.in[to] = make(map[string]map[string]struct{})
	}
	if g.out[from][to] == nil {
		g.out[from][to] = make(map[string]struct{})
	}
	if g.in[to][from] == nil {
		g.in[to][from] = make(map[string]struct{})
	}
}
