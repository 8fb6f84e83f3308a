// Package template synthesizes the parametric polynomial certificates that the
// solver has to instantiate.
//
// A template assigns every automaton state q a polynomial over the state
// variables whose coefficients are fresh unknown constants:
//
//	V(s, q) = Σ_k  <prefix>_<q>_<k> * s^exp_k
//
// where exp_k runs over Exponents(n, D), every exponent tuple of length n with
// total degree at most D, in descending lexicographic order. Index 1 is
// therefore the highest power of S1 and the last index is the constant term:
//
//	n=1, D=1:  V_reach_0_1*S1 + V_reach_0_2
//
// Kinds and their prefixes:
//
//	Reach      V_reach      reach-and-stay certificate
//	Safe       V_safe       safety certificate on rejecting states
//	Buchi i    V_buchi<i>   one per required acceptance set
//	Invariant  I_inv        optional inductive invariant
//
// Names are the solver's unknowns, so they are fully determined by kind,
// instance, state and monomial index.
//
// Errors:
//
//	ErrInvalidDegree - negative degree.
//	ErrNoVariables   - empty state variable list.
//	ErrUnknownState  - Of/Apply on a state the template was not built for.
package template
