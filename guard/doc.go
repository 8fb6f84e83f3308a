// Package guard normalizes automaton transition guards.
//
// A guard is a boolean formula over atomic symbols built with '&', '|', '!'
// and parentheses, as found in the bracketed labels of an HOA body
// ("[0 & !1]"). The package converts guards to fully parenthesized prefix form
// and then expands every atom into the polynomial region it stands for.
//
// InfixToPrefix(expr):
//
//  1. reverse the token stream and swap '(' with ')';
//  2. shunting-yard with precedence '!'(3) > '&'(2) > '|'(1),
//     '&'/'|' left-associative, '!' right-associative;
//  3. fold the postfix stream into "(op a b)" / "(! x)".
//
// Expand(prefix, lookup):
//
//	a      → conjunction of the region's inequalities
//	(! a)  → disjunction of their negations (De Morgan)
//
// Substitution is two-phase (mark, then substitute) so text that was already
// substituted is never rescanned. The empty guard and "t" render as the
// always-true "(> 1 0)".
//
// Errors:
//
//	ErrMalformedGuard - unbalanced parentheses, a missing operand or a stray operator.
//	ErrUnknownAtom    - an atom with no entry in the lookup table.
package guard
