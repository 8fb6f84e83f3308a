// Package automaton models the limit-deterministic Büchi automaton (LDBA)
// produced by an LTL translator and classifies its states.
//
// Input is an exchange Record, either assembled by hand or read from HOA text
// with ReadHOA. Build turns it into an immutable *Automaton in four steps:
//
//  1. Transition-to-state acceptance: every transition carrying an acceptance
//     signature is redirected to a synthetic state (one per destination and
//     signature) that holds the signature and has a single ε-edge back to the
//     original destination. Synthetic IDs continue after the largest record ID.
//  2. The states and transitions are loaded into a core.Graph.
//  3. dfs.StronglyConnected finds the components and dfs.Condense their DAG,
//     kept for Condensation; a bottom component whose signature union covers
//     every required acceptance set is accepting and its states are Accepting.
//  4. bfs.Reach over reversed edges from the accepting states marks every
//     state that cannot reach acceptance as Rejecting; the rest stay
//     NonAccepting. With no accepting component every state is Rejecting.
//     The search tree answers PathToAcceptance.
//
// Complexity: O(V+E) after the O(E) conversion.
//
// Errors:
//
//	ErrMalformedRecord - HOA syntax errors, duplicate or missing state IDs.
//	ErrUnknownState    - a transition or the start refers to an absent state.
//	ErrUnsupported     - HOA features outside the translator's output subset.
package automaton
