// Package dfs implements depth-first structural analysis of a core.Graph:
// strongly connected components, bottom components and the condensation DAG.
//
// What:
//
//   - StronglyConnected: Tarjan's algorithm, written iteratively with an
//     explicit frame stack (vertex, next-successor index) so recursion depth
//     never grows with the graph. Components are emitted in reverse
//     topological order of the condensation.
//   - IsBottom / Bottom: a component is bottom iff no edge leaves it.
//   - Condense: the component DAG, one vertex per component.
//
// Why:
//   - Acceptance of a limit-deterministic automaton is decided on its bottom
//     components; every other classification step builds on this one.
//
// Complexity:
//
//   - StronglyConnected: Time O(V+E), Memory O(V)
//   - Bottom:            Time O(V+E)
//   - Condense:          Time O(V+E)
//
// Options:
//
//   - WithContext(ctx)          allows cancellation via context.Context.
//
// Errors:
//
//   - ErrGraphNil               graph pointer is nil
//   - ErrComponentOutOfRange    component index is not in the result
//   - context.Canceled          traversal canceled via context
package dfs
