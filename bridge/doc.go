// Package bridge connects compiled implications to the external tools around
// them: the LTL-to-LDBA translator upstream and the Positivstellensatz solver
// downstream.
//
// Problem file (WriteProblem):
//
//	(declare-const V_reach_0_1 Real)
//	...
//	(assert (forall ((S1 Real)) (=> lhs rhs)))
//	...
//	(check-sat)
//	(get-model)
//
// Solver configuration is a JSON document (SolverConfig) validated with
// struct tags before it is written. Solver.Solve runs the configured command
// once per call, with no retry. ParseOutput reads the output with the
// go-corset s-expression parser and takes a verdict (sat, unsat or unknown)
// plus a model given either as SMT-LIB define-fun forms or as "name = value"
// assignments. Values may be decimals, fractions, (/ a b) or (- x); a list
// value that does not evaluate, including (), is ErrSolverFailed.
//
// Translator.Translate runs "owl ltl2ldba -f <formula> --state-acceptance
// --complete" and returns the HOA text.
//
// Errors:
//
//	ErrExecutableNotFound - the solver or translator binary is not on PATH.
//	ErrSolverFailed       - non-zero exit or unparsable solver output.
//	ErrTranslatorFailed   - non-zero translator exit or empty output.
//	ErrInvalidConfig      - SolverConfig failed validation.
package bridge
