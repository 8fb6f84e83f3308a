// Package core provides a thread-safe, in-memory directed labeled multigraph,
// the structural backbone of every automaton in ltlcert.
//
// The Graph G = (V,E) supports:
//
//   - Labeled directed edges (the label carries the transition guard)
//   - Parallel edges / multi-graphs (WithMultiEdges)
//   - Self-loops (WithLoops)
//   - Constant-time edge operations via nested maps:
//     out[from][to][edgeID] = struct{}{} and its mirror in[to][from][edgeID]
//   - Collision-free atomic Edge.ID generation ("e1", "e2", …)
//   - Separate sync.RWMutex for vertices (muVert) and edges+adjacency (muEdgeAdj)
//
// Deterministic iteration: Vertices(), Edges(), NeighborIDs() and
// PredecessorIDs() return results in natural order, so "2" sorts before "10" and "e2" before
// "e10". Every report built on top of a Graph is stable across runs.
//
// Configuration Options (GraphOption):
//
//	– WithMultiEdges()
//	    Allows multiple parallel edges between the same endpoints.
//	    Otherwise a second AddEdge(from,to) → ErrMultiEdgeNotAllowed.
//
//	– WithLoops()
//	    Permits self-loops (from == to); otherwise AddEdge(v,v) → ErrLoopNotAllowed.
//
// Core Methods:
//
//	// Vertex lifecycle
//	AddVertex(id string) error         // O(1)
//	HasVertex(id string) bool          // O(1)
//	VertexCount() int
//
//	// Edge lifecycle
//	AddEdge(from, to, label string) (edgeID string, err error) // O(1)†
//	HasEdge(from, to string) bool     // O(1)
//	EdgeCount() int
//
//	// Query
//	NeighborIDs(id string) ([]string, error)   // distinct successors
//	PredecessorIDs(id string) ([]string, error)// distinct predecessors
//	Vertices() []string                        // O(V·log V)
//	Edges() []*Edge                            // O(E·log E)
//
// Errors:
//
//	ErrEmptyVertexID       – zero-length vertex ID
//	ErrVertexNotFound      – missing vertex
//	ErrLoopNotAllowed      – self-loop when loops disabled
//	ErrMultiEdgeNotAllowed – parallel edge when multi-edges disabled
//
// † amortized constant time: atomic ID generation + nested-map insertion.
package core
