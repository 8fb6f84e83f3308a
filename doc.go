// Package ltlcert compiles quantitative LTL objectives over polynomial
// stochastic systems into supermartingale certificate constraints.
//
// Given a system (state space, piecewise polynomial dynamics, an optional
// control policy and a disturbance distribution) and an LTL formula, the
// module translates the formula to a limit-deterministic Büchi automaton,
// classifies its states, instantiates polynomial certificate templates with
// unknown coefficients and emits the universally quantified implications a
// Positivstellensatz solver must discharge.
//
// Packages, bottom up:
//
//	polynomial/  exact multivariate polynomials, coefficients and inequalities
//	guard/       transition guards to prefix form and region expansion
//	core/        thread-safe directed multigraph
//	dfs/         iterative Tarjan SCC and bottom components
//	bfs/         multi-source, optionally reversed, reachability
//	automaton/   HOA reader, state-based acceptance, state classification
//	template/    certificate templates with generated unknowns
//	system/      spaces, dynamics, disturbance moments, control policies
//	constraint/  obligation compiler
//	bridge/      SMT-LIB writer, solver and translator processes
//	config/      YAML problem files
//	pipeline/    staged end-to-end runs
//	store/       run history (SQLite)
//	metrics/     Prometheus textfile metrics
//	logging/     slog setup
//
// The ltlcert command in cmd/ltlcert drives the pipeline.
package ltlcert
