// Package constraint compiles certificate templates, the classified automaton,
// the system dynamics and the disturbance model into universally quantified
// polynomial implications
//
//	∀ vars. LHS ⇒ RHS
//
// that a Positivstellensatz solver has to discharge.
//
// Both sides are small trees (Node) over normalized inequalities: Leaf, And,
// Or, True and Guarded, the last pairing a transition guard expanded to its
// region with the inequality it gates.
//
// Obligations, in emission order:
//
//	NonNegativity          [space] ⇒ V(s,q) ≥ 0                     every certificate, every q
//	InitialBound           space ∧ init ⇒ 1 - V_reach(s,q0) ≥ 0
//	Safety                 space ⇒ V_safe(s,q) ≥ 0                  q rejecting
//	StrictReachDecrease    live(q) ⇒ ∨_t [g_t] V - E[V'] - ε ≥ 0    q not accepting
//	NonStrictReachDecrease live(q) ⇒ ∨_t [g_t] V - E[V'] ≥ 0        q accepting
//	BuchiDecrease          live(q) ⇒ ∨_t [g_t] strict Büchi-i ∧ non-strict reach
//	InvariantInitial       space ∧ init ⇒ Inv(s,q0) ≥ 0             WithInvariant
//	InvariantInductive     space ∧ cond ∧ D-bounds ∧ [g] Inv ≥ 0 ⇒ Inv(s',q') ≥ 0
//	BoundedDifference      |V_b0(s,q) - V_b0(s',q')| ≤ Delta_buchi  WithBoundedDifference
//
// where live(q) = space ∧ piece condition ∧ 1/(1-p) - V_reach(s,q) ≥ 0
// (∧ Inv(s,q) ≥ 0 with an invariant). The three decrease obligations are one
// traversal parameterized by a role predicate on automaton states, a policy
// selector, strictness and the certificate(s) it constrains.
//
// Within an obligation, implications are ordered by dynamics piece, then
// state ID, then transition order.
//
// Errors:
//
//	ErrInvalidProblem - missing components or out-of-range parameters.
//	ErrUnknownKind    - ParseKind on an unknown name.
//	guard.ErrUnknownAtom, polynomial.ErrMissingMoment and ctx errors are
//	returned wrapped.
package constraint
