// Package pipeline runs one synthesis problem end to end as a linear stage
// machine:
//
//	ParseInput → PrepareRequirements → ConstructAutomaton → PreparePolicy →
//	SynthesizeTemplates → GenerateConstraints → Serialize → Solve → Done
//
// Each stage has exactly one successor and none is re-entered. The first
// failing stage aborts the run with a *StageError naming it; with SkipSolve
// the run ends after Serialize.
//
// A run writes into its output directory:
//
//	ltl2ldba.hoa  the automaton text, translated or copied
//	problem.smt2  declarations, assertions, (check-sat) and (get-model)
//	config.json   the solver configuration
//	model.txt     the verdict and, when sat, the model
//
// Every run gets a uuid. Stage timings, obligation counts and verdicts go to
// the optional metrics.Recorder; a summary row goes to the optional
// store.Store whether the run succeeds or not.
package pipeline
