// Package system describes the stochastic dynamical system a certificate is
// synthesized for.
//
// Generators follow a fixed naming scheme: state variables S1..Sn, action
// variables A1..Am, disturbance variables D1..Dk.
//
//	Space       - a named conjunction of normalized inequalities, parsed from
//	              text such as "-5 <= S1 <= 5; S2 >= 0".
//	Dynamics    - piecewise polynomial updates; each Piece pairs a condition
//	              Space with one update per state dimension.
//	Disturbance - Normal or Uniform noise with exact moment tables, used to
//	              replace D_i**j by E[D_i**j] (Expect).
//	Policy      - decomposed control policy: one acceptance policy and one
//	              per Büchi acceptance set.
//
// NewPolicy is deliberately lenient: a provided policy whose arity does not
// match the action dimension is discarded with a warning and replaced by a
// templated policy with unknown coefficients P_acc_<a>_<k> / P_buchi<i>_<a>_<k>.
//
// Errors:
//
//	ErrDimensionMismatch   - vector lengths disagree with declared dimensions.
//	ErrUnknownVariable     - an update mentions a generator outside the declared ranges.
//	ErrUnknownDistribution - distribution name is neither normal nor uniform.
//	ErrInvalidParameter    - negative deviation, empty interval or bad numbers.
//	ErrNoPieces            - dynamics without any piece.
package system
