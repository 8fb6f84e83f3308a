// Package polynomial implements the exact symbolic polynomial algebra that every
// certificate template, dynamics update and verification obligation is built from.
//
// 🚀 What is inside?
//
//	• Coefficient – tagged union Known(*big.Rat) | Symbolic(Expr); unknown
//	  certificate constants flow through the algebra as names, never as floats.
//	• Expr        – a small closed AST (Lit, Name, Sum, Product, Neg, Quotient)
//	  with exact evaluation and SMT-LIB prefix rendering.
//	• Monomial    – coefficient plus exponent map; two monomials are the "same
//	  term" iff their exponent maps agree, whatever their coefficients.
//	• Equation    – a sum of monomials with like terms always merged.
//	• Inequality  – always stored as expr >= 0; the constructors normalize.
//
// Equations are values: every operation returns a fresh Equation and never
// aliases the receiver's terms.
//
// Parsing:
//
//	e, err := polynomial.Parse("1/(1-p) - V_reach_0_1*S1**2 + 3*S1*S2")
//
// Identifiers that look like system generators (S1, A2, D1, ...) are variables;
// every other identifier is a symbolic constant. Use WithVariables to override.
//
// Prefix rendering:
//
//	S1**3  →  (* S1 (* S1 S1))
//	a + b + c  →  (+ a (+ b c))
//
// Errors:
//
//	ErrParse             - malformed polynomial or expression text.
//	ErrDivisionByZero    - exact division by a known zero.
//	ErrNonConstantDivisor - division by an expression that mentions a variable.
//	ErrUnboundName       - evaluation met a name missing from the environment.
//	ErrMissingMoment     - ReplacePowers met an order absent from the table.
//	ErrStrictComparison  - strict or ≠ comparison under StrictRejected.
//	ErrStrictModeUnset   - strict or ≠ comparison with no StrictMode chosen.
//	ErrUnknownComparator - comparator text is not one of >= <= > < == !=.
package polynomial
