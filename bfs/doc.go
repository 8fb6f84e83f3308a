// Package bfs provides breadth-first reachability over a core.Graph.
//
// Reach seeds every source at depth 0 and expands layer by layer, recording
// for each reached vertex its distance and the vertex it was discovered
// from. With WithReverse the search follows incoming edges and the result
// is the set of vertices that can reach a source; automaton classification
// uses it to find states with a path into an accepting component, and PathTo
// recovers a shortest such path.
//
// Determinism
//
//	core.NeighborIDs and core.PredecessorIDs return IDs in natural order and
//	sources are seeded in the order given, so Order is reproducible.
//
// Complexity: O(V + E) time, O(V) memory.
//
// Options
//
//   - WithContext(ctx): cancellation, checked before each visit.
//   - WithReverse():    walk incoming edges.
//
// Errors
//
//   - ErrGraphNil             if the graph pointer is nil.
//   - ErrNoSources            if Reach receives no sources.
//   - ErrStartVertexNotFound  if a source does not exist.
//   - ErrNeighbors            if the adjacency lookup fails.
//   - ctx.Err() on cancellation.
package bfs
